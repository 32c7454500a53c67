package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/hub"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"github.com/DoyleJ11/sniper-keeper/internal/types"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Idle clients are disconnected after readTimeout without a message.
const readTimeout = 2 * time.Minute

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb, err := h.Get(r.Context(), code)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("code", code), zap.String("client_id", clientID))
		clog.Info("websocket connected", zap.String("remote", r.RemoteAddr))

		out := make(chan lobby.Snapshot, 8)
		if err := lb.Send(r.Context(), lobby.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "lobby closed")
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = lb.Send(ctx, lobby.Leave{ClientID: clientID})
			cancel()
			clog.Info("websocket disconnected")
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						// Lobby dropped us or shut down.
						conn.Close(websocket.StatusGoingAway, "lobby closed")
						return
					}
					msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: types.NewStateView(snap.State)}
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					err := writeJSON(ctx, conn, msg)
					cancel()
					if err != nil {
						clog.Debug("write snapshot", zap.Error(err))
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := types.ToCommand(cm)
			if !ok {
				_ = writeError(r.Context(), conn, "unknown type")
				continue
			}

			res, err := lb.Do(r.Context(), cmd)
			if err != nil {
				return
			}
			if res.Err != nil {
				_ = writeError(r.Context(), conn, res.Err.Error())
			}
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func writeError(ctx context.Context, conn *websocket.Conn, text string) error {
	return writeJSON(ctx, conn, types.ServerMessage{Type: "Error", Error: text})
}
