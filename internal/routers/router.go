package routers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/api"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/metrics"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/mirror"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

func New(log *utils.Logger, serviceName string, m *mirror.Mirror) http.Handler {
	h := api.NewHandlers(log, m)
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(metrics.Middleware(serviceName))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Plain HTTP endpoints get the standard timeout; the WebSocket
		// route stays outside it.
		r.With(middleware.Timeout(60 * time.Second)).Get("/rooms/{roomId}", h.RoomStatus)
		r.With(middleware.Timeout(60 * time.Second)).Get("/webrtc/config", h.WebRTCConfig)
	})

	r.Get("/ws", h.GatewayWS)

	return r
}
