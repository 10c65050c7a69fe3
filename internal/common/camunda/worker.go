// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"rooms-workers/internal/common/config"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/common/observability"
)

// WorkerManager opens job workers on a shared client and closes them together.
type WorkerManager struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *WorkerManager {
	return &WorkerManager{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a job worker for taskType. Disabled workers are skipped.
func (m *WorkerManager) Register(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jobWorker := m.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, m.obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	m.mu.Lock()
	m.workers[taskType] = jobWorker
	m.mu.Unlock()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
}

// TaskTypes lists the registered task types.
func (m *WorkerManager) TaskTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.workers))
	for taskType := range m.workers {
		types = append(types, taskType)
	}
	return types
}

// Close stops every worker and waits for in-flight jobs.
func (m *WorkerManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, w := range m.workers {
		m.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
	m.workers = make(map[string]worker.JobWorker)
}

// Instrument wraps handler with active/duration metrics and records the job
// outcome in the OpenTelemetry meter.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		done := metrics.TrackJob(taskType)
		tracked := &outcomeClient{JobClient: client}

		handler(tracked, job)

		elapsed := done()
		status := observability.StatusCompleted
		if tracked.failed {
			status = observability.StatusFailed
		}
		obs.RecordJob(context.Background(), taskType, status, elapsed)
	}
}

// outcomeClient notes whether a handler failed or threw its job.
type outcomeClient struct {
	worker.JobClient
	failed bool
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.failed = true
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.failed = true
	return c.JobClient.NewThrowErrorCommand()
}
