package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

// message is the wire form of an AssetEvent on the Redis channel.
type message struct {
	Type    string         `json:"type"`
	AssetID int            `json:"asset_id"`
	Asset   *usecase.Asset `json:"asset,omitempty"`
	At      time.Time      `json:"at"`
}

// RedisBroker publishes on a Redis pub/sub channel so that every API
// instance sees the mutations made by the others.
type RedisBroker struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBroker(addr, password string, logger *slog.Logger) *RedisBroker {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisBroker{
		client:  client,
		channel: config.REDIS_CHANNEL_ASSET_EVENTS,
		logger:  logger,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, ev usecase.AssetEvent) error {
	payload, err := json.Marshal(message(ev))
	if err != nil {
		return fmt.Errorf("marshal asset event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan usecase.AssetEvent, func(), error) {
	ps := b.client.Subscribe(ctx, b.channel)
	// wait for the subscription confirmation so no event published after
	// Subscribe returns is missed
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan usecase.AssetEvent, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var m message
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					b.logger.WarnContext(ctx, "decode asset event", slog.String("err", err.Error()))
					continue
				}
				select {
				case out <- usecase.AssetEvent(m):
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			ps.Close()
		})
	}

	return out, cancel, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
