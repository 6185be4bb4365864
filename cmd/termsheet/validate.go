package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"termsheet-workers/internal/export"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	rulesPath string
	format    string
	output    string
	threshold float64
	delay     time.Duration
	maxBytes  int64
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Extract and validate the fields of a term sheet",
		Example: `  termsheet validate equity-swap.txt
  termsheet validate deal.pdf --format xlsx --output report.xlsx
  termsheet validate deal.txt --rules configs/rules.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "Rule table YAML (built-in table when empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json, csv or xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", termsheet.PassThreshold, "Score a report must exceed to pass")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "Simulated extraction and analysis delay")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", intake.DefaultMaxDocumentBytes, "Largest accepted document")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts validateOptions) error {
	rules, err := loadRules(opts.rulesPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc := intake.Document{Name: filepath.Base(path), Content: content}

	ctx := cmd.Context()
	delay := termsheet.FixedDelay(opts.delay)
	extractor := intake.NewMockExtractor(intake.WithDelay(delay), intake.WithMaxBytes(opts.maxBytes))
	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	validator := termsheet.NewValidator(rules,
		termsheet.WithDelay(delay),
		termsheet.WithThreshold(opts.threshold),
	)
	result, err := validator.ValidateDocument(ctx, text, doc.Name, doc.Type())
	if err != nil {
		return err
	}

	return writeReport(cmd, result, opts.format, opts.output)
}

func loadRules(path string) (*termsheet.RuleTable, error) {
	if path == "" {
		return termsheet.DefaultRuleTable(), nil
	}
	return termsheet.LoadRuleTable(path)
}

// writeReport renders result in format to output, or to the command's stdout.
// An output of "-" also means stdout.
func writeReport(cmd *cobra.Command, result *termsheet.ValidationResult, format, output string) error {
	toStdout := output == "-"
	if toStdout {
		output = ""
	}

	var data []byte
	switch format {
	case "table":
		if output == "" {
			return printReport(cmd.OutOrStdout(), result)
		}
		return fmt.Errorf("table format is only printed to stdout")
	case "json":
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		data = append(b, '\n')
	default:
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		if data, err = export.Render(f, result); err != nil {
			return err
		}
		if f == export.FormatXLSX && output == "" && !toStdout {
			output = export.FileName(result, f, time.Now())
		}
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", output)
	return nil
}

func printReport(w io.Writer, result *termsheet.ValidationResult) error {
	fmt.Fprintf(w, "Document: %s (%s)\n", result.DocumentName, result.DocumentType)
	fmt.Fprintf(w, "Status:   %s\n", result.Status)
	fmt.Fprintf(w, "Score:    %s\n\n", export.Percent(result.OverallScore))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tVALID\tCONFIDENCE\tMESSAGE")
	for _, f := range result.Fields {
		row := export.Row(f)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row[0], row[1], row[3], row[4], row[5])
	}
	return tw.Flush()
}
