package httpapi

import (
	"net/http"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/hub"
	"github.com/DoyleJ11/sniper-keeper/internal/store"
	"github.com/DoyleJ11/sniper-keeper/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRoutes wires the API. history may be nil, in which case the history
// route answers 501.
func SetupRoutes(h *hub.Hub, newGame GameFactory, history store.HistoryReader, log *zap.Logger) http.Handler {
	if newGame == nil {
		newGame = func() *engine.Game { return engine.NewDefaultGame() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &api{hub: h, newGame: newGame, history: history, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/catalogs", a.catalogs)
	r.Get("/ws", ws.Handler(h, log))

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", a.createLobby)
		r.Get("/", a.listLobbies)
		r.Get("/{code}", a.getLobby)
		r.Delete("/{code}", a.deleteLobby)
		r.Post("/{code}/commands", a.postCommand)
		r.Get("/{code}/history", a.getHistory)
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
