package service

import (
	"context"
	"log/slog"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

// MessageService is the chat message log. It validates bounds before persisting.
type MessageService struct {
	repo   repository.MessageRepository
	events *eventQueue
	log    *slog.Logger
}

func NewMessageService(repo repository.MessageRepository, pub publisher.Publisher, log *slog.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		events: newEventQueue(pub, log),
		log:    log,
	}
}

func (s *MessageService) Append(ctx context.Context, sender, text string) (*domain.Message, error) {
	message := &domain.Message{User: sender, Message: text}
	if err := validateStruct(message); err != nil {
		return nil, err
	}

	stored, err := s.repo.Append(ctx, message)
	if err != nil {
		s.log.Error("repo append message error", "user", sender, "error", err)
		return nil, err
	}

	s.events.publishAsync(publisher.NewEvent(publisher.EventChatMessageStored, stored.ID, stored))
	return stored, nil
}

func (s *MessageService) ListAll(ctx context.Context) ([]*domain.Message, error) {
	messages, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("repo list messages error", "error", err)
		return nil, err
	}
	return messages, nil
}

// WaitForEvents blocks until in-flight event publishes have finished. Call it before closing the publisher.
func (s *MessageService) WaitForEvents() {
	s.events.wait()
}
