package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"billcalls/backend/services/calls-service/internal/clients"
)

type remoteFlags struct {
	addr    string
	token   string
	timeout time.Duration
}

func (f *remoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.addr, "addr", "http://localhost:8085", "calls service base URL")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token for protected routes")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Second, "request timeout")
}

func (f *remoteFlags) client() *clients.CallsClient {
	return clients.NewCallsClient(f.addr, f.token, clients.NewDefaultHTTPClient(f.timeout))
}

func newInvoicesCmd() *cobra.Command {
	var (
		remote remoteFlags
		date   string
		format string
	)

	invoicesCmd := &cobra.Command{
		Use:   "invoices <source>",
		Short: "Fetch the monthly invoices of a phone number from the calls service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			invoices, err := remote.client().Invoices(cmd.Context(), args[0], date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return json.NewEncoder(out).Encode(invoices)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CALL\tDESTINATION\tSTART\tDURATION\tPRICE")
			for _, inv := range invoices {
				fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\n",
					inv.CallID, inv.Destination, inv.CallStartDate, inv.CallStartTime, inv.Duration, inv.Price)
			}
			return tw.Flush()
		},
	}

	remote.register(invoicesCmd)
	invoicesCmd.Flags().StringVar(&date, "date", "", "reference period as MMYYYY (default previous month)")
	invoicesCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return invoicesCmd
}

func newLogCmd() *cobra.Command {
	var (
		remote    remoteFlags
		event     clients.CallEvent
		timestamp string
	)

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Send a call start or end event to the calls service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseTimestamp(timestamp)
			if err != nil {
				return fmt.Errorf("--timestamp: %w", err)
			}
			event.Timestamp = ts

			log, err := remote.client().RecordEvent(cmd.Context(), event)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s event %d for call %d\n", log.Type, log.ID, log.CallID)
			return nil
		},
	}

	remote.register(logCmd)
	logCmd.Flags().StringVar(&event.Type, "type", "start", "event type (start, end)")
	logCmd.Flags().Int64Var(&event.CallID, "call-id", 0, "call identifier [REQUIRED]")
	logCmd.Flags().StringVar(&timestamp, "timestamp", "", "event timestamp (RFC 3339) [REQUIRED]")
	logCmd.Flags().StringVar(&event.Source, "source", "", "calling number, start events only")
	logCmd.Flags().StringVar(&event.Destination, "destination", "", "called number, start events only")
	_ = logCmd.MarkFlagRequired("call-id")
	_ = logCmd.MarkFlagRequired("timestamp")
	return logCmd
}
