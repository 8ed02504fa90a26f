package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"webhook-message-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements repository.MessageRepository for testing.
type mockRepository struct {
	messages  map[string]domain.Message
	insertErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{messages: make(map[string]domain.Message)}
}

func (m *mockRepository) Insert(_ context.Context, message *domain.Message) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if _, ok := m.messages[message.MessageID]; ok {
		return false, nil
	}
	m.messages[message.MessageID] = *message
	return true, nil
}

func (m *mockRepository) List(_ context.Context, _ domain.ListFilter) ([]domain.Message, int64, error) {
	return nil, 0, nil
}

func (m *mockRepository) Stats(_ context.Context) (domain.Stats, error) {
	return domain.Stats{TotalMessages: int64(len(m.messages))}, nil
}

func (m *mockRepository) Ping(_ context.Context) error {
	return nil
}

func TestIngestMessage_AssignsCreatedAt(t *testing.T) {
	repo := newMockRepository()
	svc := NewMessageService(repo)

	created, err := svc.IngestMessage(context.Background(), domain.Message{
		MessageID: "m1",
		From:      "+919876543210",
		To:        "+14155550100",
		Ts:        "2025-01-15T10:00:00Z",
	})
	require.NoError(t, err)
	assert.True(t, created)

	stored := repo.messages["m1"]
	assert.NotEmpty(t, stored.CreatedAt)
	assert.True(t, strings.HasSuffix(stored.CreatedAt, "Z"))
}

func TestIngestMessage_DuplicateKeepsFirstRow(t *testing.T) {
	repo := newMockRepository()
	svc := NewMessageService(repo)

	first := domain.Message{MessageID: "m1", From: "+1", To: "+2", Ts: "2025-01-15T10:00:00Z"}
	created, err := svc.IngestMessage(context.Background(), first)
	require.NoError(t, err)
	require.True(t, created)
	firstCreatedAt := repo.messages["m1"].CreatedAt

	// Same id, different fields: insert still succeeds but changes nothing.
	second := domain.Message{MessageID: "m1", From: "+3", To: "+4", Ts: "2026-01-15T10:00:00Z"}
	created, err = svc.IngestMessage(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, created)

	stored := repo.messages["m1"]
	assert.Equal(t, "+1", stored.From)
	assert.Equal(t, firstCreatedAt, stored.CreatedAt)
	assert.Len(t, repo.messages, 1)
}

func TestIngestMessage_StorageFault(t *testing.T) {
	repo := newMockRepository()
	repo.insertErr = errors.New("connection refused")
	svc := NewMessageService(repo)

	created, err := svc.IngestMessage(context.Background(), domain.Message{MessageID: "m1"})
	assert.False(t, created)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
}
