package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gstexport/internal/config"
	"gstexport/internal/export"
	"gstexport/internal/logger"
	"gstexport/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export [invoices.json]",
	Short: "Export a batch of canonical invoices into an accounting import file",
	Long: `Export a batch of canonical invoices into one accounting import file.

The input file is a JSON array of canonical invoice records with amounts in
paise and dates in RFC3339. Each invoice is validated, GST-classified
(CGST/SGST vs IGST vs Non-GST) and encoded; invoices that fail validation or
encoding are listed in the summary and excluded from the artifact without
aborting the batch.

Supported formats:
  tally          Tally XML purchase vouchers with ledger masters
  iif            QuickBooks Desktop IIF transactions
  qbo-csv        QuickBooks Online CSV import
  zoho-csv       Zoho Books CSV import
  universal-csv  System-neutral sectioned CSV
  xlsx           Excel review workbook

Optional environment variables:
  EXPORT_WORKERS       Parallel encode workers (default: 8)
  EXPORT_BATCH_CAP     Maximum invoices per batch (default: 100)
  EXPORT_MAPPING_FILE  YAML column mapping for universal-csv
  EXPORT_TALLY_MERGE   'combined' or 'separate' Tally envelopes`,
	Example: `  # Export to a Tally import file
  gstexport export invoices.json --format tally

  # QuickBooks Online CSV into an explicit output path
  gstexport export invoices.json --format qbo-csv --out purchases.csv

  # Universal CSV with a custom column mapping
  gstexport export invoices.json --format universal-csv --mapping columns.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", "", "Target format (tally, iif, qbo-csv, zoho-csv, universal-csv, xlsx) [REQUIRED]")
	exportCmd.Flags().String("out", "", "Output file path (default: export-<batch-id>.<ext>)")
	exportCmd.Flags().Int("workers", 0, "Parallel encode workers (default from EXPORT_WORKERS)")
	exportCmd.Flags().String("mapping", "", "YAML column mapping file for universal-csv")
	exportCmd.Flags().Bool("tally-separate", false, "Emit one Tally envelope per voucher")

	exportCmd.MarkFlagRequired("format")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	inputPath := args[0]
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	workers, _ := cmd.Flags().GetInt("workers")
	mappingPath, _ := cmd.Flags().GetString("mapping")
	tallySeparate, _ := cmd.Flags().GetBool("tally-separate")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = cfg.ExportWorkers
	}
	if mappingPath != "" {
		cfg.MappingFile = mappingPath
	}
	if cfg.TallyMerge == "separate" {
		tallySeparate = true
	}

	mapping, err := cfg.LoadColumnMapping()
	if err != nil {
		return err
	}

	invoices, err := readInvoices(inputPath)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		fmt.Println("No invoices found in input file.")
		return nil
	}

	log.Info().
		Str("input", inputPath).
		Str("format", format).
		Int("invoices", len(invoices)).
		Int("workers", workers).
		Msg("Starting export")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	orch := export.NewOrchestrator(export.Options{
		Workers:  workers,
		BatchCap: cfg.BatchCap,
	})

	artifact, report, err := orch.ExportBatch(ctx, invoices, export.Kind(format), export.EncoderOptions{
		ColumnMapping:         mapping,
		TallySeparateVouchers: tallySeparate,
	})
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = fmt.Sprintf("export-%s.%s", report.BatchID, artifact.Extension)
	}
	if err := os.WriteFile(outPath, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	printReport(report, artifact, outPath)

	log.Info().
		Str("output", outPath).
		Int("exported", report.Exported).
		Int("failed", report.Failed).
		Msg("Export completed")

	return nil
}

// readInvoices loads the canonical invoice array from a JSON file.
func readInvoices(path string) ([]*models.CanonicalInvoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var invoices []*models.CanonicalInvoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}

	return invoices, nil
}

func printReport(report *export.Report, artifact *export.Artifact, outPath string) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("                    EXPORT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Batch ID:   %s\n", report.BatchID)
	fmt.Printf("Format:     %s (%s)\n", report.Format, artifact.ContentType)
	fmt.Printf("Output:     %s\n", outPath)
	fmt.Printf("Requested:  %d\n", report.Requested)
	fmt.Printf("Exported:   %d\n", report.Exported)
	if report.Failed > 0 {
		fmt.Printf("Failed:     %d\n", report.Failed)
	}
	fmt.Printf("Duration:   %s\n", report.Duration.Round(time.Millisecond))

	if len(report.Errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, key := range sortedKeys(report.Errors) {
			for _, msg := range report.Errors[key] {
				fmt.Printf("  %s: %s\n", key, msg)
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, key := range sortedKeys(report.Warnings) {
			for _, msg := range report.Warnings[key] {
				fmt.Printf("  %s: %s\n", key, msg)
			}
		}
	}

	fmt.Println(strings.Repeat("=", 60))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
