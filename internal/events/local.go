// Package events fans asset change notifications out to subscribers,
// either inside one process or across processes through Redis.
package events

import (
	"context"
	"sync"

	"github.com/librarease/assetvault/internal/usecase"
)

const subscriberBuffer = 16

// LocalBroker delivers events to subscribers of the same process. A
// subscriber whose buffer is full misses the event instead of blocking
// the publisher.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[chan usecase.AssetEvent]struct{}
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subs: make(map[chan usecase.AssetEvent]struct{}),
	}
}

func (b *LocalBroker) Publish(_ context.Context, ev usecase.AssetEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber until cancel is called or ctx is done.
func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan usecase.AssetEvent, func(), error) {
	ch := make(chan usecase.AssetEvent, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel, nil
}

// Subscribers reports the number of live subscriptions.
func (b *LocalBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
