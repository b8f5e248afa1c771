// =============================================================================
// Payment Advice Generator - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command. It checks an input table against
// the required columns and lists how many entries each recipient has,
// without rendering anything.
//
// COMMAND USAGE:
//   invoicegen inspect <input.csv|input.xlsx>
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/generator"
	"github.com/ginjaninja78/payment-advice-generator/internal/input"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Check an input table and show entries per recipient",
	Long: `The inspect command validates the input's columns and prints the number of
rows for each recipient, in the order invoices would be generated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		settings, err := cfg.Settings(time.Now())
		if err != nil {
			return err
		}

		table, err := input.LoadFile(args[0], cfg.Input)
		if err != nil {
			return err
		}

		gen, err := generator.New(settings, logger)
		if err != nil {
			return err
		}

		counts, err := gen.Preview(table)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d rows, %d recipients\n\n", table.Source, len(table.Records), len(counts))

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RECIPIENT\tENTRIES")
		for _, c := range counts {
			fmt.Fprintf(tw, "%s\t%d\n", c.Recipient, c.Entries)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
