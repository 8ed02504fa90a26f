package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"webhook-message-service/internal/domain"
	"webhook-message-service/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingService implements services.MessageService and counts stats
// reads so tests can observe the snapshot loop.
type countingService struct {
	statsCalls atomic.Int64
}

func (s *countingService) IngestMessage(_ context.Context, _ domain.Message) (bool, error) {
	return false, nil
}

func (s *countingService) ListMessages(_ context.Context, _ domain.ListFilter) ([]domain.Message, int64, error) {
	return nil, 0, nil
}

func (s *countingService) GetStats(_ context.Context) (domain.Stats, error) {
	s.statsCalls.Add(1)
	return domain.Stats{TotalMessages: 42, SendersCount: 3}, nil
}

func (s *countingService) CheckReady(_ context.Context) error {
	return nil
}

func newTestManager(svc *countingService, wg *sync.WaitGroup) *JobManager {
	return NewJobManager(svc, metrics.New(), zerolog.Nop(), 10*time.Millisecond, wg)
}

func TestJobManager_StartStop(t *testing.T) {
	var wg sync.WaitGroup
	svc := &countingService{}
	manager := newTestManager(svc, &wg)

	require.False(t, manager.IsRunning())
	require.NoError(t, manager.Start(context.Background()))
	assert.True(t, manager.IsRunning())

	// Starting twice is an error while a job is active.
	assert.Error(t, manager.Start(context.Background()))

	require.NoError(t, manager.Stop())
	assert.False(t, manager.IsRunning())
	assert.Error(t, manager.Stop())

	wg.Wait()
}

func TestJob_FirstSnapshotRunsImmediately(t *testing.T) {
	var wg sync.WaitGroup
	svc := &countingService{}
	manager := newTestManager(svc, &wg)

	require.NoError(t, manager.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return svc.statsCalls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, manager.Stop())
	wg.Wait()
}

func TestJob_TicksRepeatedly(t *testing.T) {
	var wg sync.WaitGroup
	svc := &countingService{}
	manager := newTestManager(svc, &wg)

	require.NoError(t, manager.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return svc.statsCalls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, manager.Stop())
	wg.Wait()
}

func TestJob_StopsOnContextCancel(t *testing.T) {
	var wg sync.WaitGroup
	svc := &countingService{}
	manager := newTestManager(svc, &wg)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, manager.Start(ctx))

	cancel()
	wg.Wait()

	// The manager still tracks the job handle; only the loop exited.
	assert.True(t, manager.IsRunning())
}
