package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"termsheet-workers/internal/termsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 18, 23, 30, 0, 0, time.UTC)

func sampleResult() *termsheet.ValidationResult {
	return termsheet.SampleResult("equity-swap.pdf", func() time.Time { return fixedNow })
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Field,Value,Expected,Valid,Confidence,Message", lines[0])
	assert.Equal(t, "TRADE DATE,2023-05-15,,Yes,98%,", lines[1])
	assert.Equal(t, `NOTIONAL AMOUNT,"USD 10,000,000",,Yes,99%,`, lines[4])
	assert.Equal(t, "PAYMENT TERMS,Quarterly,Monthly,No,65%,Payment frequency does not match standard terms", lines[7])

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Len(t, rec, len(Headers), "quoting keeps every row at six columns")
	}
}

func TestCSV_QuotesEmbeddedQuotes(t *testing.T) {
	res := &termsheet.ValidationResult{Fields: []termsheet.FieldValidation{
		{Field: "DEALER", Value: `Bank "A"`, IsValid: true, Confidence: 1},
	}}
	out, err := CSV(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `DEALER,"Bank ""A""",,Yes,100%,`)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "70%", Percent(0.7))
	assert.Equal(t, "99%", Percent(0.994))
	assert.Equal(t, "100%", Percent(0.996))
	assert.Equal(t, "100%", Percent(1))
	assert.Equal(t, "30%", Percent(0.3))
}

func TestXLSX_RoundTrip(t *testing.T) {
	res := sampleResult()
	out, err := XLSX(res)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"NOTIONAL AMOUNT", "USD 10,000,000", "", "Yes", "99%"}, rows[4][:5])
	assert.Equal(t, "Monthly", rows[7][2])

	var summary [][]string
	for i, r := range rows {
		if len(r) > 0 && r[0] == "Document" {
			summary = rows[i:]
			break
		}
	}
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"Document", "equity-swap.pdf"}, summary[0])
	assert.Equal(t, []string{"Overall Score", "83%"}, summary[2])
	assert.Equal(t, []string{"Status", "success"}, summary[3])
}

func TestXLSX_OversizedCellFails(t *testing.T) {
	res := sampleResult()
	res.Fields[1].Value = strings.Repeat("x", excelize.TotalCellChars+1)

	_, err := XLSX(res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx write")
	assert.Contains(t, err.Error(), "row 3 column 2")

	res.Fields[1].Value = strings.Repeat("x", excelize.TotalCellChars)
	_, err = XLSX(res)
	assert.NoError(t, err)
}

func TestRenderAndFormats(t *testing.T) {
	for _, format := range Formats {
		out, err := Render(format, sampleResult())
		require.NoError(t, err, format)
		assert.NotEmpty(t, out)
	}

	_, err := Render("pdf", sampleResult())
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)

	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, "text/csv", FormatCSV.ContentType())

	_, err = ParseFormat("json")
	assert.ErrorAs(t, err, &unsupported)
}

func TestFileName(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, "validation-equity-swap-2024-05-18.csv", FileName(res, FormatCSV, fixedNow))

	local := time.Date(2024, 5, 19, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "validation-equity-swap-2024-05-18.xlsx", FileName(res, FormatXLSX, local), "date is taken in UTC")

	res.DocumentName = "archive.v2.final.docx"
	assert.Equal(t, "validation-archive.v2.final-2024-05-18.csv", FileName(res, FormatCSV, fixedNow))

	res.DocumentName = ""
	assert.Equal(t, "validation-report-2024-05-18.csv", FileName(res, FormatCSV, fixedNow))
}
