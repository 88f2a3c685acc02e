package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/config"
	"github.com/Tege1337/chess2.0/internal/ws"
)

// Hub is everything the HTTP surface needs from the reactor.
type Hub interface {
	ws.Dispatcher
	StatsSource
}

func SetupRoutes(h Hub, out ws.Outboxes, cfg config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", Healthz)
	r.Get("/stats", Stats(h, logger))
	r.Get("/ws", ws.Handler(h, out, cfg.WS, logger.Named("ws")))

	if cfg.Server.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}
	return r
}
