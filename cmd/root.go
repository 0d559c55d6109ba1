package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gstexport/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "gstexport",
	Short: "GST Export - convert canonical invoices into accounting import files",
	Long: `GST Export converts canonical GST invoice records into import files
for Indian accounting systems: Tally XML vouchers, QuickBooks Desktop IIF,
QuickBooks Online CSV, Zoho Books CSV, a system-neutral universal CSV, and
an Excel review workbook.

Input is a JSON array of canonical invoices with amounts in paise. Every
invoice is validated and GST-classified before encoding; invoices that fail
are reported individually and never abort the batch.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("GST Export executed")

		fmt.Println("GST Export")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
