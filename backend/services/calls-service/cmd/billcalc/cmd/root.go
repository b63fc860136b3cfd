// Package cmd provides the CLI commands for billcalc.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"billcalls/backend/services/calls-service/internal/billing"
)

type tariffFlags struct {
	reducedStart   int
	reducedEnd     int
	standingCharge string
	minuteRate     string
}

func (f *tariffFlags) tariff() (billing.Tariff, error) {
	return billing.ParseTariff(f.reducedStart, f.reducedEnd, f.standingCharge, f.minuteRate)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &tariffFlags{}

	rootCmd := &cobra.Command{
		Use:   "billcalc",
		Short: "Price telephone calls offline",
		Long: `billcalc prices a call with the same calculator the calls service uses.

Examples:
  billcalc price --start 2016-02-29T12:00:00Z --end 2016-02-29T14:00:00Z
  billcalc price --start 2017-12-12T21:57:13Z --end 2017-12-12T22:10:56Z --minute-rate 0.12
  billcalc tariff --format json
  billcalc invoices 99988526423 --date 022016 --addr http://localhost:8085`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flags.reducedStart, "reduced-start", billing.DefaultReducedStart, "hour the reduced fare starts (inclusive)")
	pf.IntVar(&flags.reducedEnd, "reduced-end", billing.DefaultReducedEnd, "hour the reduced fare ends (exclusive)")
	pf.StringVar(&flags.standingCharge, "standing-charge", billing.DefaultStandingCharge, "fixed charge per call")
	pf.StringVar(&flags.minuteRate, "minute-rate", billing.DefaultPerMinuteRate, "charge per whole standard-fare minute")

	rootCmd.AddCommand(newPriceCmd(flags))
	rootCmd.AddCommand(newTariffCmd(flags))
	rootCmd.AddCommand(newInvoicesCmd())
	rootCmd.AddCommand(newLogCmd())
	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q, use text or json", format)
	}
}
