package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/publisher"
)

const publishTimeout = 5 * time.Second

// eventQueue emits events off the request path. Failures are logged and otherwise ignored.
// wait blocks until every event handed to publishAsync has been attempted.
type eventQueue struct {
	pub publisher.Publisher
	log *slog.Logger
	wg  sync.WaitGroup
}

func newEventQueue(pub publisher.Publisher, log *slog.Logger) *eventQueue {
	return &eventQueue{pub: pub, log: log}
}

func (q *eventQueue) publishAsync(event publisher.Event) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := q.pub.Publish(ctx, event); err != nil {
			q.log.Warn("event publish failed", "type", event.Type, "aggregate_id", event.AggregateID, "error", err)
		}
	}()
}

func (q *eventQueue) wait() {
	q.wg.Wait()
}
