package generatesamplereport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/termsheet"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "term-sheet-demo",
		ElementId:          "Activity_GenerateSampleReport",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestHandler_ParseInput(t *testing.T) {
	handler, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	input, err := handler.parseInput(createMockJob(1, map[string]interface{}{"documentName": "demo.pdf"}))
	require.NoError(t, err)
	assert.Equal(t, "demo.pdf", input.DocumentName)

	_, err = handler.parseInput(createMockJob(2, map[string]interface{}{}))
	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.CodeOf(err))
}

func TestHandler_Execute(t *testing.T) {
	now := time.Date(2024, 5, 18, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	handler, err := NewHandler(HandlerOptions{
		Logger: logger.NewTestLogger(t),
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	out, err := handler.Execute(context.Background(), &Input{DocumentName: "demo.pdf"})
	require.NoError(t, err)

	r := out.Result
	assert.Equal(t, "demo.pdf", r.DocumentName)
	assert.Equal(t, termsheet.StatusSuccess, r.Status)
	assert.Equal(t, 0.83, r.OverallScore)
	assert.Equal(t, termsheet.DocumentTypePDF, r.DocumentType)
	assert.Equal(t, 1.2, r.ProcessingTime)
	assert.Len(t, r.Fields, 8)
	assert.Len(t, r.InvalidFields(), 1)
	assert.Equal(t, now.UTC(), r.Timestamp)
	assert.NotEmpty(t, r.ID)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second}).Validate())
}
