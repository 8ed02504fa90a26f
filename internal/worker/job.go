package worker

import (
	"context"
	"sync"
	"time"

	"webhook-message-service/internal/metrics"
	"webhook-message-service/internal/services"

	"github.com/rs/zerolog"
)

const snapshotTimeout = 5 * time.Second

// Job periodically reads aggregate stats, logs a snapshot line and
// refreshes the messages_total gauge. The first snapshot runs
// immediately on start.
type Job struct {
	ticker         *time.Ticker
	quit           chan struct{}
	messageService services.MessageService
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	isRunning      bool
	mu             sync.Mutex
}

func NewJob(interval time.Duration, messageService services.MessageService,
	metricsSet *metrics.Metrics, logger zerolog.Logger) *Job {
	return &Job{
		ticker:         time.NewTicker(interval),
		quit:           make(chan struct{}),
		messageService: messageService,
		metrics:        metricsSet,
		logger:         logger,
	}
}

func (j *Job) Start(ctx context.Context, wg *sync.WaitGroup) {
	j.logger.Info().Msg("stats snapshot job started")
	go func() {
		defer wg.Done()

		j.snapshot(ctx)

		for {
			select {
			case <-j.ticker.C:
				j.snapshot(ctx)
			case <-j.quit:
				j.ticker.Stop()
				j.logger.Info().Msg("stats snapshot job stopped")
				return
			case <-ctx.Done():
				j.ticker.Stop()
				j.logger.Info().Msg("application shutdown, stopping stats snapshot job")
				return
			}
		}
	}()
}

func (j *Job) Stop() {
	close(j.quit)
}

func (j *Job) snapshot(ctx context.Context) {
	j.mu.Lock()
	if j.isRunning {
		// A slow storage read can outlast the tick, skip this run.
		j.mu.Unlock()
		return
	}
	j.isRunning = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.isRunning = false
		j.mu.Unlock()
	}()

	snapshotCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	stats, err := j.messageService.GetStats(snapshotCtx)
	if err != nil {
		j.logger.Error().Err(err).Msg("unexpected error while taking stats snapshot")
		return
	}

	j.metrics.MessagesTotal.Set(float64(stats.TotalMessages))
	j.logger.Info().
		Int64("total_messages", stats.TotalMessages).
		Int64("senders_count", stats.SendersCount).
		Msg("stats snapshot")
}
