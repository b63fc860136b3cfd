package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newTariffCmd(flags *tariffFlags) *cobra.Command {
	var format string

	tariffCmd := &cobra.Command{
		Use:   "tariff",
		Short: "Print the effective tariff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			tariff, err := flags.tariff()
			if err != nil {
				return err
			}
			if format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(tariff)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tariff.String())
			return nil
		},
	}

	tariffCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return tariffCmd
}
