package usecase

import (
	"context"
	"log/slog"
	"time"
)

const (
	AssetEventCreated = "asset.created"
	AssetEventUpdated = "asset.updated"
	AssetEventDeleted = "asset.deleted"
)

type AssetEvent struct {
	Type    string
	AssetID int
	Asset   *Asset
	At      time.Time
}

// publish never fails the caller; the mutation has already been applied.
func (u Usecase) publish(ctx context.Context, ev AssetEvent) {
	if u.broker == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := u.broker.Publish(ctx, ev); err != nil {
		u.logger.WarnContext(ctx, "publish asset event",
			slog.String("type", ev.Type),
			slog.Int("asset_id", ev.AssetID),
			slog.String("err", err.Error()),
		)
	}
}

// SubscribeAssetEvents returns a channel of asset events and a function
// that releases the subscription. Without a broker the channel stays
// open and silent until ctx is done.
func (u Usecase) SubscribeAssetEvents(ctx context.Context) (<-chan AssetEvent, func(), error) {
	if u.broker == nil {
		return make(chan AssetEvent), func() {}, nil
	}
	return u.broker.Subscribe(ctx)
}
