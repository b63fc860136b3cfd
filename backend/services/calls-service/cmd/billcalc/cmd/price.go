package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"billcalls/backend/services/calls-service/internal/billing"
)

// Accepted timestamp layouts; zone info is dropped either way.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func newPriceCmd(flags *tariffFlags) *cobra.Command {
	var (
		start  string
		end    string
		format string
	)

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Compute the price of a single call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			startedAt, err := parseTimestamp(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endedAt, err := parseTimestamp(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			tariff, err := flags.tariff()
			if err != nil {
				return err
			}
			calculator, err := billing.NewCalculator(tariff)
			if err != nil {
				return err
			}
			price, err := calculator.Price(startedAt, endedAt)
			if err != nil {
				return err
			}
			duration := billing.Duration(billing.StripZone(startedAt), billing.StripZone(endedAt))

			out := cmd.OutOrStdout()
			if format == "json" {
				return json.NewEncoder(out).Encode(map[string]string{
					"price":    price.StringFixed(2),
					"duration": duration,
				})
			}
			fmt.Fprintf(out, "price:    %s\n", price.StringFixed(2))
			fmt.Fprintf(out, "duration: %s\n", duration)
			return nil
		},
	}

	priceCmd.Flags().StringVar(&start, "start", "", "call start timestamp (RFC 3339) [REQUIRED]")
	priceCmd.Flags().StringVar(&end, "end", "", "call end timestamp (RFC 3339) [REQUIRED]")
	priceCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	_ = priceCmd.MarkFlagRequired("start")
	_ = priceCmd.MarkFlagRequired("end")
	return priceCmd
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
