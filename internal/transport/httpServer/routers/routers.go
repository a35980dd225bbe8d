package routers

import (
	"log/slog"

	"eventieBot/internal/config"
	"eventieBot/internal/transport/httpServer/handlers"
	myMiddleware "eventieBot/internal/transport/httpServer/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	log           *slog.Logger
	cfg           *config.Config
	chatHandler   *handlers.ChatHandler
	eventHandler  *handlers.EventHandler
	exportHandler *handlers.ExportHandler
	authHandler   *handlers.AuthHandler
	registry      *prometheus.Registry
}

func NewRouter(
	log *slog.Logger,
	cfg *config.Config,
	chatHandler *handlers.ChatHandler,
	eventHandler *handlers.EventHandler,
	exportHandler *handlers.ExportHandler,
	authHandler *handlers.AuthHandler,
	registry *prometheus.Registry,
) *Router {
	return &Router{
		log:           log,
		cfg:           cfg,
		chatHandler:   chatHandler,
		eventHandler:  eventHandler,
		exportHandler: exportHandler,
		authHandler:   authHandler,
		registry:      registry,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.NewLoggerMiddleware(r.log))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	auth := myMiddleware.NewAuthMiddleware(r.log, r.cfg.HttpServer.Secret)

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Post("/login", r.authHandler.Login)

			mux.Route("/chat", func(mux chi.Router) {
				mux.Post("/", r.chatHandler.Chat)
				mux.Post("/reset", r.chatHandler.Reset)
			})

			mux.Route("/events", func(mux chi.Router) {
				mux.Get("/", r.eventHandler.GetEvents)
				mux.Get("/stats", r.eventHandler.GetStats)
				mux.Get("/search", r.eventHandler.Search)
			})

			mux.Route("/exports", func(mux chi.Router) {
				mux.Get("/{sessionId}/calendar", r.exportHandler.Calendar)
				mux.Get("/{sessionId}/csv", r.exportHandler.CSV)
			})

			mux.Group(func(mux chi.Router) {
				mux.Use(auth)
				mux.Post("/ingest", r.eventHandler.Ingest)
			})
		})
	})
}
