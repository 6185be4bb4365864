// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"termsheet-workers/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is implemented by every task-type handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
	GetTaskType() string
}

// WorkerGroup opens one Zeebe job worker per enabled task type and closes them together.
type WorkerGroup struct {
	client zbc.Client
	logger *zap.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerGroup(client zbc.Client, logger *zap.Logger) *WorkerGroup {
	return &WorkerGroup{
		client:  client,
		logger:  logger,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for handler unless wcfg disables it.
func (g *WorkerGroup) Start(handler JobHandler, wcfg config.WorkerConfig) {
	taskType := handler.GetTaskType()
	if !wcfg.Enabled {
		g.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	jobWorker := g.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	g.mu.Lock()
	g.workers[taskType] = jobWorker
	g.mu.Unlock()

	g.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Running lists the task types with an open worker.
func (g *WorkerGroup) Running() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.workers))
	for taskType := range g.workers {
		out = append(out, taskType)
	}
	return out
}

// Stop closes every worker and waits for in-flight jobs to drain.
func (g *WorkerGroup) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for taskType, w := range g.workers {
		g.logger.Info("stopping worker", zap.String("taskType", taskType))
		w.Close()
		w.AwaitClose()
	}
	g.workers = make(map[string]worker.JobWorker)
}
