// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"termsheet-workers/internal/common/cache"
	"termsheet-workers/internal/common/camunda"
	"termsheet-workers/internal/common/config"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/export"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"

	extractdocumenttext "termsheet-workers/internal/workers/termsheet/extract-document-text"
	exportvalidationreport "termsheet-workers/internal/workers/termsheet/export-validation-report"
	generatesamplereport "termsheet-workers/internal/workers/termsheet/generate-sample-report"
	notifyvalidationoutcome "termsheet-workers/internal/workers/termsheet/notify-validation-outcome"
	validatetermsheet "termsheet-workers/internal/workers/termsheet/validate-term-sheet"
)

type recordingSNS struct {
	published []*sns.PublishInput
}

func (r *recordingSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	r.published = append(r.published, params)
	return &sns.PublishOutput{MessageId: aws.String("msg-e2e")}, nil
}

type pipeline struct {
	extract  *extractdocumenttext.Handler
	validate *validatetermsheet.Handler
	export   *exportvalidationreport.Handler
	notify   *notifyvalidationoutcome.Handler
	topic    *recordingSNS
	redis    *miniredis.Miniredis
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := logger.NewTestLogger(t)

	mr := miniredis.RunT(t)
	rdb := cache.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	extractor := intake.NewCachedExtractor(
		intake.NewMockExtractor(intake.WithDelay(termsheet.NoDelay)),
		rdb, time.Hour, log,
	)

	p := &pipeline{topic: &recordingSNS{}, redis: mr}
	var err error

	p.extract, err = extractdocumenttext.NewHandler(extractdocumenttext.HandlerOptions{
		Logger: log, Extractor: extractor,
	})
	require.NoError(t, err)

	validateCfg := validatetermsheet.DefaultConfig()
	validateCfg.AnalysisDelay = 0
	p.validate, err = validatetermsheet.NewHandler(validatetermsheet.HandlerOptions{
		CustomConfig: validateCfg, Logger: log, Rules: termsheet.DefaultRuleTable(),
	})
	require.NoError(t, err)

	p.export, err = exportvalidationreport.NewHandler(exportvalidationreport.HandlerOptions{Logger: log})
	require.NoError(t, err)

	notifyCfg := notifyvalidationoutcome.DefaultConfig()
	notifyCfg.SNSEnabled = true
	notifyCfg.TopicARN = "arn:aws:sns:us-east-1:000000000000:termsheet-outcomes"
	p.notify, err = notifyvalidationoutcome.NewHandler(notifyvalidationoutcome.HandlerOptions{
		CustomConfig: notifyCfg, Logger: log, SNS: p.topic,
	})
	require.NoError(t, err)

	return p
}

// run drives one document through extract, validate, export and notify the way
// the BPMN process chains the job variables.
func (p *pipeline) run(t *testing.T, name string, content []byte, format export.Format) (*termsheet.ValidationResult, *exportvalidationreport.Output, *notifyvalidationoutcome.Output) {
	t.Helper()
	ctx := context.Background()

	extracted, err := p.extract.Execute(ctx, &extractdocumenttext.Input{DocumentName: name, Content: content})
	require.NoError(t, err)

	validated, err := p.validate.Execute(ctx, &validatetermsheet.Input{
		DocumentText: extracted.DocumentText,
		DocumentName: name,
		DocumentType: extracted.DocumentType,
	})
	require.NoError(t, err)

	report, err := p.export.Execute(ctx, &exportvalidationreport.Input{Result: validated.Result, Format: format})
	require.NoError(t, err)

	notified, err := p.notify.Execute(ctx, &notifyvalidationoutcome.Input{
		DocumentName:     name,
		ValidationStatus: validated.Result.Status,
		Result:           validated.Result,
	})
	require.NoError(t, err)

	return validated.Result, report, notified
}

func TestPipeline_EquitySwapPDF(t *testing.T) {
	p := newPipeline(t)

	result, report, notified := p.run(t, "equity-swap.pdf", []byte("%PDF-1.7 binary"), export.FormatXLSX)

	assert.Equal(t, termsheet.StatusSuccess, result.Status)
	assert.Equal(t, termsheet.DocumentTypePDF, result.DocumentType)
	assert.Greater(t, result.OverallScore, termsheet.PassThreshold)

	assert.True(t, strings.HasPrefix(report.FileName, "validation-equity-swap-"))
	assert.True(t, strings.HasSuffix(report.FileName, ".xlsx"))
	f, err := excelize.OpenReader(bytes.NewReader(report.Content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Equal(t, export.Headers, rows[0])

	assert.Equal(t, notifyvalidationoutcome.ToneSuccess, notified.Tone)
	assert.Equal(t, notifyvalidationoutcome.StatusSent, notified.Status)
	assert.Equal(t, notifyvalidationoutcome.StatusDisabled, notified.Channels[notifyvalidationoutcome.ChannelEmail])
	require.Len(t, p.topic.published, 1)
	assert.Contains(t, aws.ToString(p.topic.published[0].Subject), "equity-swap.pdf")
}

func TestPipeline_InterestRateSwapText(t *testing.T) {
	p := newPipeline(t)
	text := termsheet.SampleText(termsheet.SampleInterestRateSwap)

	result, report, notified := p.run(t, "irs.txt", []byte(text), export.FormatCSV)

	assert.Equal(t, termsheet.StatusError, result.Status)
	assert.Equal(t, termsheet.DocumentTypeText, result.DocumentType)

	var missing []string
	for _, f := range result.InvalidFields() {
		if f.Value == "" {
			missing = append(missing, f.Field)
		}
	}
	assert.Subset(t, missing, []string{"MATURITY DATE", "NOTIONAL", "DEALER", "COUNTERPARTY"})

	assert.Equal(t, "text/csv", report.ContentType)
	assert.Contains(t, string(report.Content), "MATURITY DATE,,,No,0%,Required field is missing")

	assert.Equal(t, notifyvalidationoutcome.ToneWarning, notified.Tone)
}

func TestPipeline_ExtractionIsCached(t *testing.T) {
	p := newPipeline(t)
	content := []byte("%PDF fx")

	first, _, _ := p.run(t, "fx-forward.pdf", content, export.FormatCSV)
	assert.Equal(t, 1, len(p.redis.Keys()))

	second, _, _ := p.run(t, "fx-forward.pdf", content, export.FormatCSV)
	assert.Equal(t, 1, len(p.redis.Keys()))
	assert.Equal(t, first.Fields, second.Fields)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSampleFeedsExport(t *testing.T) {
	h, err := generatesamplereport.NewHandler(generatesamplereport.HandlerOptions{Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)
	sample, err := h.Execute(context.Background(), &generatesamplereport.Input{DocumentName: "demo.pdf"})
	require.NoError(t, err)

	p := newPipeline(t)
	report, err := p.export.Execute(context.Background(), &exportvalidationreport.Input{Result: sample.Result, Format: export.FormatCSV})
	require.NoError(t, err)
	assert.Contains(t, string(report.Content), "PAYMENT TERMS,Quarterly,Monthly,No,65%")
}

// TestBrokerTopology needs a running Zeebe gateway; set ZEEBE_ADDRESS to enable it.
func TestBrokerTopology(t *testing.T) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		t.Skip("ZEEBE_ADDRESS not set")
	}

	client, err := camunda.NewClientWithConfig(camunda.ConfigFrom(config.CamundaConfig{
		BrokerAddress:  addr,
		Plaintext:      true,
		RequestTimeout: 5000,
	}))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.NoError(t, client.HealthCheck(ctx))
}

func BenchmarkHandler_ValidateTermSheet(b *testing.B) {
	cfg := validatetermsheet.DefaultConfig()
	cfg.AnalysisDelay = 0
	handler, err := validatetermsheet.NewHandler(validatetermsheet.HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewNoOpLogger(),
		Rules:        termsheet.DefaultRuleTable(),
	})
	if err != nil {
		b.Fatal(err)
	}

	input := &validatetermsheet.Input{
		DocumentText: termsheet.SampleText(termsheet.SampleEquitySwap),
		DocumentName: "equity-swap.txt",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ExportValidationReport(b *testing.B) {
	handler, err := exportvalidationreport.NewHandler(exportvalidationreport.HandlerOptions{Logger: logger.NewNoOpLogger()})
	if err != nil {
		b.Fatal(err)
	}
	input := &exportvalidationreport.Input{
		Result: termsheet.SampleResult("bench.pdf", nil),
		Format: export.FormatXLSX,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
