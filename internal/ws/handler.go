// Package ws bridges websocket connections to the hub. Each connection gets a
// reader loop that turns client messages into hub events and a writer
// goroutine that drains the connection's relay outbox.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/config"
	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/internal/hub"
	"github.com/Tege1337/chess2.0/pkg/types"
)

// disconnectTimeout bounds how long a closing connection waits to hand its
// Disconnect to a busy hub.
const disconnectTimeout = 5 * time.Second

// Dispatcher accepts hub events. *hub.Hub implements it.
type Dispatcher interface {
	Send(ctx context.Context, m hub.HubMsg) error
}

// Outboxes owns per-connection delivery. *relay.Relay implements it.
type Outboxes interface {
	Attach(connID string, outbox chan types.ServerMessage)
	Detach(connID string)
	Unicast(connID string, msg types.ServerMessage)
}

func Handler(h Dispatcher, out Outboxes, cfg config.WSConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.OriginPatterns,
		})
		if err != nil {
			logger.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(cfg.MaxMessageBytes)

		connID := uuid.NewString()
		log := logger.With(zap.String("conn_id", connID))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		outbox := make(chan types.ServerMessage, cfg.OutboxSize)
		// Attach before Connect so nothing the hub sends is lost.
		out.Attach(connID, outbox)
		if err := h.Send(ctx, hub.Connect{ConnID: connID}); err != nil {
			out.Detach(connID)
			conn.Close(websocket.StatusTryAgainLater, "server shutting down")
			return
		}
		log.Info("client connected", zap.String("remote", r.RemoteAddr))

		defer func() {
			dctx, dcancel := context.WithTimeout(context.Background(), disconnectTimeout)
			defer dcancel()
			if err := h.Send(dctx, hub.Disconnect{ConnID: connID}); err != nil {
				log.Warn("disconnect not delivered", zap.Error(err))
			}
			out.Detach(connID)
			log.Info("client disconnected")
		}()

		go writeLoop(ctx, cancel, conn, outbox, cfg, log)

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if ctx.Err() == nil {
						log.Debug("read failed", zap.Error(err))
					}
				}
				return
			}

			var cm types.ClientMessage
			if typ != websocket.MessageText || json.Unmarshal(data, &cm) != nil {
				out.Unicast(connID, types.ServerMessage{Type: types.EventError, Error: "Invalid message format"})
				continue
			}

			msg, ok := toHubMsg(connID, cm)
			if !ok {
				out.Unicast(connID, types.ServerMessage{Type: types.EventError, Error: "Unknown message type"})
				continue
			}
			if err := h.Send(ctx, msg); err != nil {
				return
			}
		}
	}
}

// writeLoop drains outbox until it is closed or ctx ends. It cancels ctx on
// exit so the reader stops too.
func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan types.ServerMessage, cfg config.WSConfig, log *zap.Logger) {
	defer cancel()

	var ping <-chan time.Time
	if cfg.PingInterval > 0 {
		t := time.NewTicker(cfg.PingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-outbox:
			if !ok {
				// The relay let go of us: too slow or shutting down.
				conn.Close(websocket.StatusGoingAway, "connection dropped")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, cfg.WriteTimeout)
			err := wsjson.Write(wctx, conn, msg)
			wcancel()
			if err != nil {
				log.Debug("write failed", zap.String("type", msg.Type), zap.Error(err))
				return
			}

		case <-ping:
			pctx, pcancel := context.WithTimeout(ctx, cfg.WriteTimeout)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				log.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}

func toHubMsg(connID string, m types.ClientMessage) (hub.HubMsg, bool) {
	switch m.Type {
	case types.ClientFindGame:
		return hub.FindGame{ConnID: connID}, true
	case types.ClientMove:
		return hub.SubmitMove{ConnID: connID, Move: engine.MoveRequest{
			From:      m.From,
			To:        m.To,
			Promotion: m.Promotion,
		}}, true
	case types.ClientRematch:
		return hub.Rematch{ConnID: connID}, true
	default:
		return nil, false
	}
}
