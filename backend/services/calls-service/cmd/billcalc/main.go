// Package main is the entry point for the billcalc CLI.
package main

import (
	"os"

	"billcalls/backend/services/calls-service/cmd/billcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
