package notifyvalidationoutcome

import (
	"context"
	"fmt"
	"time"

	"termsheet-workers/internal/common/aws"
	"termsheet-workers/internal/common/camunda"
	"termsheet-workers/internal/common/config"
	"termsheet-workers/internal/common/errors"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/common/metrics"
	"termsheet-workers/internal/common/observability"
	"termsheet-workers/internal/common/validation"
	"termsheet-workers/internal/termsheet"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "termsheet.outcome.notify"
	WorkerName = "notify-validation-outcome"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	service      *Service
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	SNS           aws.SNSPublisher
	SES           aws.SESSender
	Observability *observability.Observability
	Now           func() time.Time
	NewID         func() string
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if workerConfig.SNSEnabled && opts.SNS == nil {
		return nil, fmt.Errorf("invalid configuration for %s: sns is enabled but no publisher was provided", WorkerName)
	}
	if workerConfig.EmailEnabled && opts.SES == nil {
		return nil, fmt.Errorf("invalid configuration for %s: email is enabled but no sender was provided", WorkerName)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	handler := &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		errorHandler: errors.NewErrorHandler(loggerInstance, TaskType),
		obs:          opts.Observability,
	}

	handler.service = NewService(ServiceDependencies{
		Logger: loggerInstance,
		SNS:    opts.SNS,
		SES:    opts.SES,
		Now:    opts.Now,
		NewID:  opts.NewID,
	}, handler.config)

	return handler, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing validation outcome notification", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	variables := map[string]interface{}{
		"notificationId":       output.NotificationID,
		"tone":                 string(output.Tone),
		"status":               output.Status,
		"notificationChannels": output.Channels,
		"sentAt":               output.SentAt.Format(time.RFC3339),
	}
	if err := camunda.CompleteJob(ctx, client, job, variables); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	elapsed := time.Since(startTime)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, "completed")
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	// upstream failure paths map the report variable to null
	for _, key := range []string{"validationResult", "errorMessage"} {
		if v, ok := variables[key]; ok && v == nil {
			delete(variables, key)
		}
	}

	validationResult := validation.ValidateInput(variables, GetInputSchema())
	if !validationResult.Valid {
		return nil, errors.NewValidationFailedError(
			fmt.Sprintf("Validation errors: %v", validationResult.GetErrorMessages()),
		)
	}

	input := &Input{
		DocumentName:     variables["documentName"].(string),
		ValidationStatus: termsheet.Status(variables["validationStatus"].(string)),
	}

	if raw, ok := variables["validationResult"]; ok {
		result, err := termsheet.ResultFromVariable(raw)
		if err != nil {
			return nil, errors.NewInputParsingFailedError(err)
		}
		input.Result = result
	}

	if msg, ok := variables["errorMessage"].(string); ok {
		input.ErrorMessage = msg
	}

	return input, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.CodeOf(err)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		workerCfg := config.GetWorkerConfig(appConfig, WorkerName)
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}

		n := appConfig.Notifications
		cfg.SNSEnabled = n.SNS.Enabled
		cfg.TopicARN = n.SNS.TopicARN
		cfg.EmailEnabled = n.Email.Enabled
		cfg.FromEmail = n.Email.FromEmail
		cfg.ToEmail = n.Email.ToEmail
	}

	return cfg
}
