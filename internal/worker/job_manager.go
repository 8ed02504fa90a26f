package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"webhook-message-service/internal/metrics"
	"webhook-message-service/internal/services"

	"github.com/rs/zerolog"
)

// JobManager owns the lifecycle of the stats snapshot job.
type JobManager struct {
	currentJob     *Job
	mu             sync.Mutex
	messageService services.MessageService
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	interval       time.Duration
	wg             *sync.WaitGroup
}

func NewJobManager(messageService services.MessageService, metricsSet *metrics.Metrics,
	logger zerolog.Logger, interval time.Duration, wg *sync.WaitGroup) *JobManager {
	return &JobManager{
		messageService: messageService,
		metrics:        metricsSet,
		logger:         logger,
		interval:       interval,
		wg:             wg,
	}
}

// Start launches a new snapshot job.
func (m *JobManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentJob != nil {
		return errors.New("job is already running")
	}

	m.wg.Add(1)
	m.currentJob = NewJob(m.interval, m.messageService, m.metrics, m.logger)
	m.currentJob.Start(ctx, m.wg)

	return nil
}

// Stop halts the active job.
func (m *JobManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentJob == nil {
		return errors.New("actively running job not found")
	}

	m.currentJob.Stop()
	m.currentJob = nil
	return nil
}

// IsRunning reports whether a job is currently active.
func (m *JobManager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentJob != nil
}
