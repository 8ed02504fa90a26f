package services

import (
	"context"
	"fmt"
	"time"

	"webhook-message-service/internal/domain"
	"webhook-message-service/internal/repository"
)

type MessageService interface {
	// Persists a message idempotently. Returns created=false when the
	// message_id was already stored; the call still succeeds.
	IngestMessage(ctx context.Context, message domain.Message) (bool, error)
	// Returns one page of messages plus the total matching count.
	ListMessages(ctx context.Context, filter domain.ListFilter) ([]domain.Message, int64, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	// Reports whether the storage backend answers a trivial probe.
	CheckReady(ctx context.Context) error
}

type messageService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageService{repo: repo, now: time.Now}
}

func (s *messageService) IngestMessage(ctx context.Context, message domain.Message) (bool, error) {
	// created_at is assigned here, before the insert races. Losers of
	// the race discard theirs: the stored row keeps the winner's.
	message.CreatedAt = s.now().UTC().Format(domain.CreatedAtLayout)

	created, err := s.repo.Insert(ctx, &message)
	if err != nil {
		return false, fmt.Errorf("unexpected error occurred while saving message to repository: %w", err)
	}

	return created, nil
}

func (s *messageService) ListMessages(ctx context.Context, filter domain.ListFilter) ([]domain.Message, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *messageService) GetStats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *messageService) CheckReady(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
