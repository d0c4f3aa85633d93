// Command ledgerctl works on ledger spreadsheets offline and mints API tokens.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Settle shared expenses from a ledger spreadsheet",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newSummarizeCmd(), newCarryOverCmd(), newTokenCmd())
	return root
}
