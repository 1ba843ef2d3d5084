package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"

	"github.com/librarease/assetvault/internal/usecase"
)

const eventWriteTimeout = 5 * time.Second

type AssetEvent struct {
	Type    string `json:"type"`
	AssetID int    `json:"assetId"`
	Asset   *Asset `json:"asset,omitempty"`
	At      string `json:"at"`
}

func toAssetEvent(ev usecase.AssetEvent) AssetEvent {
	e := AssetEvent{
		Type:    ev.Type,
		AssetID: ev.AssetID,
		At:      ev.At.UTC().Format(createdAtLayout),
	}
	if ev.Asset != nil {
		a := toAsset(*ev.Asset)
		e.Asset = &a
	}
	return e
}

// StreamAssetEvents upgrades to a websocket and pushes every asset
// change until the client goes away.
func (s *Server) StreamAssetEvents(ctx echo.Context) error {
	conn, err := websocket.Accept(ctx.Response(), ctx.Request(), &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		// Accept has already written the error response
		return nil
	}
	defer conn.CloseNow()

	// the client never sends anything we need; CloseRead cancels the
	// context when it disconnects
	wsCtx := conn.CloseRead(ctx.Request().Context())

	events, cancel, err := s.server.SubscribeAssetEvents(wsCtx)
	if err != nil {
		s.logger.ErrorContext(wsCtx, "subscribe asset events", slog.String("err", err.Error()))
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return nil
	}
	defer cancel()

	for {
		select {
		case <-wsCtx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "stream closed")
				return nil
			}
			if err := writeEvent(wsCtx, conn, toAssetEvent(ev)); err != nil {
				if !errors.Is(err, context.Canceled) {
					s.logger.WarnContext(wsCtx, "write asset event", slog.String("err", err.Error()))
				}
				return nil
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev AssetEvent) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
