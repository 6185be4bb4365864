// Package export renders validation reports as CSV or XLSX.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"termsheet-workers/internal/termsheet"

	"github.com/xuri/excelize/v2"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX}

// UnsupportedFormatError is returned by ParseFormat and Render.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", &UnsupportedFormatError{Format: s}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Headers is the fixed column order of every export.
var Headers = []string{"Field", "Value", "Expected", "Valid", "Confidence", "Message"}

// SheetName is the worksheet holding the field table in XLSX exports.
const SheetName = "Validation"

// Render dispatches to CSV or XLSX.
func Render(format Format, result *termsheet.ValidationResult) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(result)
	case FormatXLSX:
		return XLSX(result)
	}
	return nil, &UnsupportedFormatError{Format: string(format)}
}

// Row converts one verdict into export cells.
func Row(f termsheet.FieldValidation) []string {
	valid := "No"
	if f.IsValid {
		valid = "Yes"
	}
	return []string{f.Field, f.Value, f.Expected, valid, Percent(f.Confidence), f.Message}
}

// Percent renders a confidence as a rounded whole percentage, e.g. 0.994 -> "99%".
func Percent(c float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(c*100)))
}

// CSV writes the header and one row per field. Cells containing commas or
// quotes are quoted.
func CSV(result *termsheet.ValidationResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Headers); err != nil {
		return nil, err
	}
	for _, f := range result.Fields {
		if err := w.Write(Row(f)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX writes the field table to the Validation sheet followed by a summary block.
func XLSX(result *termsheet.ValidationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	row := 1
	var writeErr error
	writeRow := func(values []string) {
		for i, v := range values {
			if writeErr != nil {
				return
			}
			if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
				writeErr = fmt.Errorf("row %d column %d: cell has %d characters, limit %d", row, i+1, n, excelize.TotalCellChars)
				return
			}
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err == nil {
				err = f.SetCellValue(SheetName, cell, v)
			}
			if err != nil {
				writeErr = err
				return
			}
		}
		row++
	}

	writeRow(Headers)
	for _, fv := range result.Fields {
		writeRow(Row(fv))
	}

	row++
	writeRow([]string{"Document", result.DocumentName})
	writeRow([]string{"Document Type", string(result.DocumentType)})
	writeRow([]string{"Overall Score", Percent(result.OverallScore)})
	writeRow([]string{"Status", string(result.Status)})
	writeRow([]string{"Validated At", result.Timestamp.UTC().Format(time.RFC3339)})
	if writeErr != nil {
		return nil, fmt.Errorf("xlsx write: %w", writeErr)
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 24},
		{"B", "C", 28},
		{"D", "E", 12},
		{"F", "F", 60},
	} {
		if err := f.SetColWidth(SheetName, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("xlsx write: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds validation-<name without extension>-<YYYY-MM-DD>.<ext>, using
// the UTC date of now.
func FileName(result *termsheet.ValidationResult, format Format, now time.Time) string {
	base := filepath.Base(result.DocumentName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "report"
	}
	return fmt.Sprintf("validation-%s-%s.%s", base, now.UTC().Format("2006-01-02"), format)
}
