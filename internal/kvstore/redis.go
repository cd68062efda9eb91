package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultChangeChannel = "photogrid:kv:changed"

// RedisStore keeps values as plain redis strings and announces writes on a
// pub/sub channel so other instances can reload.
type RedisStore struct {
	client  *redis.Client
	channel string
	origin  string
}

// NewRedisStore creates a RedisStore. An empty channel uses DefaultChangeChannel.
func NewRedisStore(client *redis.Client, channel string) *RedisStore {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	return &RedisStore{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// Origin identifies this instance in change messages.
func (r *RedisStore) Origin() string {
	return r.origin
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	// The write already succeeded; a lost announcement only delays other
	// instances until their next reload.
	msg, err := json.Marshal(changeMessage{Key: key, Origin: r.origin})
	if err == nil {
		r.client.Publish(ctx, r.channel, msg)
	}
	return nil
}

func (r *RedisStore) Watch(ctx context.Context, fn ChangeFunc) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription confirmation before consuming messages.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg changeMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				continue
			}
			if msg.Origin == r.origin {
				continue
			}
			fn(msg.Key)
		}
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
