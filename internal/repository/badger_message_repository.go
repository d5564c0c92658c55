package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

const messageKeyPrefix = "msg:"

type badgerMessageRepository struct {
	db *badger.DB
}

func NewBadgerMessageRepository(db *badger.DB) MessageRepository {
	return &badgerMessageRepository{db: db}
}

// Append stores the message under "msg:{timestamp_padded}:{uuid}" so that a prefix scan
// returns messages in insertion order; the uuid separates messages stored in the same nanosecond.
func (r *badgerMessageRepository) Append(_ context.Context, message *domain.Message) (*domain.Message, error) {
	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	key := fmt.Sprintf("%s%019d:%s", messageKeyPrefix, message.CreatedAt.UnixNano(), message.ID)
	value, err := json.Marshal(message)
	if err != nil {
		return nil, domain.NewPersistenceError("encode message", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("insert message", err)
	}
	return message, nil
}

func (r *badgerMessageRepository) ListAll(_ context.Context) ([]*domain.Message, error) {
	messages := make([]*domain.Message, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messageKeyPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var message domain.Message
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, &message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewPersistenceError("list messages", err)
	}
	return messages, nil
}
