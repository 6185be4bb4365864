package extractdocumenttext

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"termsheet-workers/internal/common/config"
	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/intake"
	"termsheet-workers/internal/termsheet"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, doc intake.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "term-sheet-validation",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ExtractDocumentText",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func newTestHandler(t *testing.T, cfg *Config, extractor intake.Extractor) *Handler {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if extractor == nil {
		extractor = intake.NewMockExtractor(intake.WithDelay(termsheet.NoDelay))
	}
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		Extractor:    extractor,
	})
	require.NoError(t, err)
	return handler
}

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")

	_, err = NewHandler(HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1, Timeout: time.Second, MaxDocumentBytes: -1}})
	require.Error(t, err)

	handler, err := NewHandler(HandlerOptions{Logger: logger.NewNoOpLogger()})
	require.NoError(t, err, "defaults apply without app config")
	assert.Equal(t, TaskType, handler.GetTaskType())
	assert.Equal(t, intake.DefaultMaxDocumentBytes, handler.GetConfig().MaxDocumentBytes)
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Workers: map[string]config.WorkerConfig{
			WorkerName: {Enabled: true, MaxJobsActive: 8, Timeout: 5000},
		},
		Intake: config.IntakeConfig{MaxDocumentBytes: 1024},
	}, nil)

	assert.Equal(t, 8, cfg.MaxJobsActive)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, int64(1024), cfg.MaxDocumentBytes)
}

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, nil, nil)

	t.Run("decodes base64 content", func(t *testing.T) {
		job := createMockJob(1, map[string]interface{}{
			"documentName":    "deal.txt",
			"documentContent": base64.StdEncoding.EncodeToString([]byte("DEALER: Global Bank Ltd")),
		})
		input, err := handler.parseInput(job)
		require.NoError(t, err)
		assert.Equal(t, "deal.txt", input.DocumentName)
		assert.Equal(t, []byte("DEALER: Global Bank Ltd"), input.Content)
	})

	t.Run("invalid base64", func(t *testing.T) {
		job := createMockJob(2, map[string]interface{}{
			"documentName":    "deal.txt",
			"documentContent": "***",
		})
		_, err := handler.parseInput(job)
		assert.Equal(t, string(errors.ErrCodeInputParsingFailed), errors.CodeOf(err))
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := handler.parseInput(createMockJob(3, map[string]interface{}{"documentName": "deal.txt"}))
		assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.CodeOf(err))
	})

	t.Run("content of wrong type", func(t *testing.T) {
		_, err := handler.parseInput(createMockJob(4, map[string]interface{}{
			"documentName":    "deal.txt",
			"documentContent": 12,
		}))
		assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.CodeOf(err))
	})
}

func TestHandler_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("text document", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		out, err := handler.Execute(ctx, &Input{DocumentName: "deal.txt", Content: []byte("DEALER: X")})
		require.NoError(t, err)
		assert.Equal(t, "DEALER: X", out.DocumentText)
		assert.Equal(t, termsheet.DocumentTypeText, out.DocumentType)
	})

	t.Run("pdf gets canned text", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		out, err := handler.Execute(ctx, &Input{DocumentName: "fx-forward.pdf", Content: []byte("%PDF")})
		require.NoError(t, err)
		assert.Equal(t, termsheet.SampleText(termsheet.SampleFXForward), out.DocumentText)
		assert.Equal(t, termsheet.DocumentTypePDF, out.DocumentType)
	})

	t.Run("too large is rejected before extraction", func(t *testing.T) {
		extractor := new(MockExtractor)
		cfg := DefaultConfig()
		cfg.MaxDocumentBytes = 3
		handler := newTestHandler(t, cfg, extractor)

		_, err := handler.Execute(ctx, &Input{DocumentName: "a.pdf", Content: []byte("1234")})
		assert.Equal(t, string(errors.ErrCodeDocumentTooLarge), errors.CodeOf(err))
		extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("unreadable document", func(t *testing.T) {
		handler := newTestHandler(t, nil, nil)
		_, err := handler.Execute(ctx, &Input{DocumentName: "bad.txt", Content: []byte{0xff, 0xfe}})
		stdErr := errors.AsStandardError(err, errors.ErrCodeInternal, "")
		assert.Equal(t, errors.ErrCodeDocumentIntakeFailed, stdErr.Code)
		assert.False(t, stdErr.Retryable)
		assert.Contains(t, stdErr.Details, "bad.txt")
	})

	t.Run("extractor size error is mapped", func(t *testing.T) {
		extractor := new(MockExtractor)
		extractor.On("Extract", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: 9 bytes", intake.ErrDocumentTooLarge))
		handler := newTestHandler(t, nil, extractor)

		_, err := handler.Execute(ctx, &Input{DocumentName: "a.pdf", Content: []byte("x")})
		assert.Equal(t, string(errors.ErrCodeDocumentTooLarge), errors.CodeOf(err))
	})

	t.Run("cancelled context is a timeout", func(t *testing.T) {
		handler := newTestHandler(t, nil, intake.NewMockExtractor(intake.WithDelay(termsheet.FixedDelay(time.Hour))))
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := handler.Execute(cctx, &Input{DocumentName: "a.pdf", Content: []byte("x")})
		stdErr := errors.AsStandardError(err, errors.ErrCodeInternal, "")
		assert.Equal(t, errors.ErrCodeProcessingTimeout, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}
