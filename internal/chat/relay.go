package chat

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultRelayChannel = "storefront:chat"

// Relay carries broadcast frames between hub instances.
type Relay interface {
	Publish(ctx context.Context, frame []byte) error
	Close() error
}

type RedisRelay struct {
	client  *redis.Client
	channel string
	sub     *redis.PubSub
	log     *slog.Logger
}

func NewRedisRelay(client *redis.Client, channel string, log *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// Start subscribes to the channel and hands every received frame to deliver.
// It returns once the subscription is confirmed.
func (r *RedisRelay) Start(ctx context.Context, deliver func(frame []byte)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	r.sub = sub

	go func() {
		for msg := range sub.Channel() {
			deliver([]byte(msg.Payload))
		}
		r.log.Info("chat relay stopped", "channel", r.channel)
	}()
	return nil
}

func (r *RedisRelay) Publish(ctx context.Context, frame []byte) error {
	return r.client.Publish(ctx, r.channel, frame).Err()
}

func (r *RedisRelay) Close() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Close()
}
