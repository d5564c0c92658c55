package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MessageService interface {
	ListAll(ctx context.Context) ([]*domain.Message, error)
}

type MessageHandler struct {
	messages MessageService
	timeout  time.Duration
}

func NewMessageHandler(messages MessageService, timeout time.Duration) *MessageHandler {
	return &MessageHandler{messages: messages, timeout: timeout}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	messages, err := h.messages.ListAll(ctx)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	respondPayload(w, http.StatusOK, messages)
}
