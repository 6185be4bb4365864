package exportvalidationreport

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/export"
	"termsheet-workers/internal/termsheet"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 18, 9, 30, 0, 0, time.UTC)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "term-sheet-validation",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ExportValidationReport",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func sampleReportVariable(t *testing.T) map[string]interface{} {
	t.Helper()
	m, err := termsheet.SampleResult("equity-swap.pdf", func() time.Time { return fixedNow }).ToMap()
	require.NoError(t, err)
	return m
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return handler
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultFormat = "pdf"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_format")

	assert.NoError(t, DefaultConfig().Validate())
}

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("report and format", func(t *testing.T) {
		input, err := handler.parseInput(createMockJob(1, map[string]interface{}{
			"validationResult": sampleReportVariable(t),
			"format":           "xlsx",
		}))
		require.NoError(t, err)
		assert.Equal(t, export.FormatXLSX, input.Format)
		assert.Equal(t, "equity-swap.pdf", input.Result.DocumentName)
		assert.Len(t, input.Result.Fields, 8)
		assert.Equal(t, termsheet.StatusSuccess, input.Result.Status)
	})

	t.Run("format is optional", func(t *testing.T) {
		input, err := handler.parseInput(createMockJob(2, map[string]interface{}{
			"validationResult": sampleReportVariable(t),
		}))
		require.NoError(t, err)
		assert.Empty(t, input.Format)
	})

	t.Run("unknown format rejected by schema", func(t *testing.T) {
		_, err := handler.parseInput(createMockJob(3, map[string]interface{}{
			"validationResult": sampleReportVariable(t),
			"format":           "pdf",
		}))
		assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.CodeOf(err))
	})

	t.Run("report must be an object", func(t *testing.T) {
		_, err := handler.parseInput(createMockJob(4, map[string]interface{}{
			"validationResult": "not a report",
		}))
		assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.CodeOf(err))
	})
}

func TestHandler_Execute(t *testing.T) {
	handler := newTestHandler(t)
	result := termsheet.SampleResult("equity-swap.pdf", func() time.Time { return fixedNow })

	t.Run("default format is csv", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{Result: result})
		require.NoError(t, err)
		assert.Equal(t, "validation-equity-swap-2024-05-18.csv", out.FileName)
		assert.Equal(t, "text/csv", out.ContentType)
		assert.True(t, strings.HasPrefix(string(out.Content), "Field,Value,Expected,Valid,Confidence,Message\n"))
	})

	t.Run("xlsx", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{Result: result, Format: export.FormatXLSX})
		require.NoError(t, err)
		assert.Equal(t, "validation-equity-swap-2024-05-18.xlsx", out.FileName)

		f, err := excelize.OpenReader(bytes.NewReader(out.Content))
		require.NoError(t, err)
		defer f.Close()
		cell, err := f.GetCellValue(export.SheetName, "A2")
		require.NoError(t, err)
		assert.Equal(t, "TRADE DATE", cell)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), &Input{Result: result, Format: "pdf"})
		stdErr := errors.AsStandardError(err, errors.ErrCodeInternal, "")
		assert.Equal(t, errors.ErrCodeUnsupportedExportFormat, stdErr.Code)
		assert.False(t, stdErr.Retryable)
	})
}
