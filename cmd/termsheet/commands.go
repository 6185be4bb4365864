package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"termsheet-workers/internal/export"
	"termsheet-workers/internal/termsheet"

	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	var kind string
	var report bool
	var name string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a canned term sheet or the demonstration report",
		Example: `  termsheet sample --kind interest > irs.txt
  termsheet sample --report --name deal.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if report {
				data, err := json.MarshalIndent(termsheet.SampleResult(name, nil), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			k := termsheet.SampleKind(strings.ToLower(kind))
			if !knownSample(k) {
				return fmt.Errorf("unknown sample kind %q", kind)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), termsheet.SampleText(k))
			return err
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(termsheet.SampleEquitySwap), "Sample kind: equity, interest, fx or generic")
	cmd.Flags().BoolVar(&report, "report", false, "Print the demonstration validation report as JSON")
	cmd.Flags().StringVar(&name, "name", "sample-term-sheet.pdf", "Document name used in the demonstration report")

	return cmd
}

func knownSample(k termsheet.SampleKind) bool {
	for _, s := range termsheet.SampleKinds {
		if s == k {
			return true
		}
	}
	return false
}

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <report.json>",
		Short: "Convert a saved validation report to CSV or XLSX",
		Example: `  termsheet validate deal.txt -f json -o report.json
  termsheet export report.json --format xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var result termsheet.ValidationResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				output = export.FileName(&result, f, time.Now())
			}
			return writeReport(cmd, &result, string(f), output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "Export format: csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout (validation-<name>-<date>.<ext> when empty)`)

	return cmd
}

func newRulesCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules(rulesPath)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tREQUIRED\tCONSTRAINT")
			for _, r := range rules.Rules() {
				required := "no"
				if r.Required {
					required = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Field, required, r.Constraint.Describe())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d rules, %d required\n", rules.Len(), rules.RequiredCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rule table YAML (built-in table when empty)")
	return cmd
}
