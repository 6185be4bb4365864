package errors

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the error handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler fails or throws Zeebe jobs from a StandardError.
type ErrorHandler struct {
	logger   Logger
	taskType string
}

func NewErrorHandler(logger Logger, taskType string) *ErrorHandler {
	return &ErrorHandler{logger: logger, taskType: taskType}
}

// HandleJobError reports err to the broker. Retryable codes fail the job with a
// retry budget so Zeebe re-activates it; everything else is thrown as a BPMN error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandardError(err, ErrCodeInternal, "Unexpected error")
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             h.taskType,
		"errorCode":          string(stdErr.Code),
		"bpmnErrorCode":      bpmnErr.Code,
		"message":            bpmnErr.Message,
		"details":            stdErr.Details,
		"retryable":          stdErr.Retryable,
		"retries":            bpmnErr.Retries,
		"errorCategory":      GetErrorCategory(stdErr.Code),
	})

	if bpmnErr.Retries > 0 && job.GetRetries() > 0 {
		h.failJob(ctx, client, job, bpmnErr)
		return
	}
	h.throwError(ctx, client, job, bpmnErr)
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	retries := bpmnErr.Retries
	if int(job.GetRetries())-1 < retries {
		retries = int(job.GetRetries()) - 1
	}

	failCmd := client.NewFailJobCommand().
		JobKey(job.GetKey()).
		Retries(int32(retries)).
		ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message))

	var finalCmd interface {
		Send(context.Context) (*pb.FailJobResponse, error)
	} = failCmd
	if varCmd, err := failCmd.VariablesFromMap(bpmnErr.ToErrorVariables()); err == nil {
		finalCmd = varCmd
	}

	if _, err := finalCmd.Send(ctx); err != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"worker": h.taskType,
			"error":  err.Error(),
		})
	}
}

func (h *ErrorHandler) throwError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	throwCmd := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	var finalCmd interface {
		Send(context.Context) (*pb.ThrowErrorResponse, error)
	} = throwCmd
	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if varCmd, err := throwCmd.VariablesFromString(string(varsJSON)); err == nil {
			finalCmd = varCmd
		}
	}

	if _, err := finalCmd.Send(ctx); err != nil {
		h.logger.Error("failed to send throw error command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"worker": h.taskType,
			"error":  err.Error(),
		})
	}
}
