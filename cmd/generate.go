// =============================================================================
// Payment Advice Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the CLI. It
// reads one input table and writes the invoice archive.
//
// COMMAND USAGE:
//   invoicegen generate <input.csv|input.xlsx> [flags]
//
// FLAGS:
//   --date       : Invoice date (YYYY-MM-DD), default today
//   --start      : First invoice number, default 1
//   --numbering  : sequential | constant
//   --company    : Company name printed under "Issued to"
//   --address1   : First company address line
//   --address2   : Second company address line
//   --logo       : Brand image path or URL ("" for none)
//   --output     : Output directory
//   --name       : Archive file name pattern
//   --summary    : Also write a run summary file
//   --dry-run    : Render everything but do not write the archive
//
// PROCESSING PIPELINE:
//   1. Load configuration and apply flag overrides
//   2. Parse the input table
//   3. Group, render and archive (internal/generator)
//   4. Write the archive and, optionally, the summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/brand"
	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/generator"
	"github.com/ginjaninja78/payment-advice-generator/internal/input"
	"github.com/ginjaninja78/payment-advice-generator/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	invoiceDate  string
	startNumber  int
	numbering    string
	companyName  string
	addressLine1 string
	addressLine2 string
	logoSource   string
	outputDir    string
	archiveName  string
	writeSummary bool
	dryRun       bool
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate <input>",
	Short: "Generate one invoice per recipient and bundle them in a zip",
	Long: `The generate command reads a CSV or XLSX table of sessions, groups the rows
by recipient, renders one payment-advice PDF per recipient and writes all of
them into a single zip archive.

The run is all-or-nothing: if any invoice cannot be rendered, no archive is
written. Amounts that are not numbers are shown as-is, left out of the total
and reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVar(&invoiceDate, "date", "", "Invoice date, YYYY-MM-DD (default today)")
	flags.IntVar(&startNumber, "start", 0, "First invoice number (default from config, minimum 1)")
	flags.StringVar(&numbering, "numbering", "", "Numbering policy: sequential or constant")
	flags.StringVar(&companyName, "company", "", "Company name")
	flags.StringVar(&addressLine1, "address1", "", "Company address line 1")
	flags.StringVar(&addressLine2, "address2", "", "Company address line 2")
	flags.StringVar(&logoSource, "logo", "", "Brand image file or URL; empty string disables it")
	flags.StringVarP(&outputDir, "output", "o", "", "Output directory")
	flags.StringVar(&archiveName, "name", "", "Archive name pattern ({date} {timestamp} {uuid} {source})")
	flags.BoolVar(&writeSummary, "summary", false, "Write a run summary next to the archive")
	flags.BoolVar(&dryRun, "dry-run", false, "Render all invoices but do not write the archive")

	rootCmd.AddCommand(generateCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runGenerate(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	inputPath := args[0]

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)

	logger := newLogger(cfg)

	settings, err := cfg.Settings(startTime)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: PARSE INPUT
	// =========================================================================

	table, err := input.LoadFile(inputPath, cfg.Input)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: GENERATE
	// =========================================================================

	loader := brand.NewLoader(cfg.Brand.FetchTimeout, logger)
	gen, err := generator.New(settings, logger, generator.WithLogo(loader, cfg.Brand.Logo))
	if err != nil {
		return err
	}

	result, err := gen.Run(cmd.Context(), table)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintf(out, "Dry run: %d invoices rendered, nothing written\n", result.Count())
		printDocuments(cmd, result)
		return nil
	}

	name := utils.GenerateOutputFileName(cfg.Output.ArchiveName, startTime, map[string]string{"source": utils.SourceStem(inputPath)})

	fm := utils.NewFileManager(cfg.Output.Dir)
	archivePath, err := fm.WriteArchive(name, result.Archive)
	if err != nil {
		return err
	}

	logger.Info().Str("run_id", result.RunID).Str("archive", archivePath).Msg("Archive written")

	fmt.Fprintf(out, "Generated %d invoices: %s\n", result.Count(), archivePath)
	printDocuments(cmd, result)

	if writeSummary {
		summaryPath, err := utils.WriteSummaryLog(runSummary(result, table.Source, settings, archivePath, startTime), cfg.Output.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary: %s\n", summaryPath)
	}

	return nil
}

// applyGenerateFlags copies the flags the user set over the file configuration.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()
	if flags.Changed("date") {
		cfg.Invoice.Date = invoiceDate
	}
	if flags.Changed("start") {
		cfg.Invoice.StartNumber = startNumber
	}
	if flags.Changed("numbering") {
		cfg.Invoice.Numbering = numbering
	}
	if flags.Changed("company") {
		cfg.Company.Name = companyName
	}
	if flags.Changed("address1") {
		cfg.Company.AddressLine1 = addressLine1
	}
	if flags.Changed("address2") {
		cfg.Company.AddressLine2 = addressLine2
	}
	if flags.Changed("logo") {
		cfg.Brand.Logo = logoSource
	}
	if flags.Changed("output") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("name") {
		cfg.Output.ArchiveName = archiveName
	}
}

func printDocuments(cmd *cobra.Command, result *generator.Result) {
	out := cmd.OutOrStdout()
	for _, d := range result.Documents {
		fmt.Fprintf(out, "  %-40s #%-6d %3d lines  Rs. %s\n", d.FileName, d.Number, d.Lines, d.Total.StringFixed(2))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  warning: row %d %s\n", w.RowNumber, w.Message())
	}
}

func runSummary(result *generator.Result, source string, settings config.Settings, archivePath string, start time.Time) utils.RunSummary {
	summary := utils.RunSummary{
		RunID:       result.RunID,
		StartTime:   start,
		EndTime:     time.Now(),
		Source:      source,
		InvoiceDate: settings.InvoiceDate,
		ArchivePath: archivePath,
		TotalRows:   result.Stats.RowsProcessed,
	}
	for _, d := range result.Documents {
		summary.Documents = append(summary.Documents, utils.DocumentInfo{
			FileName:  d.FileName,
			Recipient: d.Recipient,
			Number:    d.Number,
			Lines:     d.Lines,
			Total:     d.Total.StringFixed(2),
		})
	}
	for _, w := range result.Warnings {
		summary.Warnings = append(summary.Warnings, utils.WarningInfo{
			RowNumber: w.RowNumber,
			FieldName: w.Field,
			Value:     w.Value,
			Skipped:   w.Skipped(),
		})
	}
	return summary
}
