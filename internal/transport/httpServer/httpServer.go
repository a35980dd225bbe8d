package httpServer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"eventieBot/internal/config"
	"eventieBot/internal/transport/httpServer/routers"

	"github.com/go-chi/chi/v5"
)

type HttpServer struct {
	log    *slog.Logger
	cfg    *config.Config
	router *routers.Router
	server *http.Server
}

func NewHttpServer(log *slog.Logger, cfg *config.Config, router *routers.Router) *HttpServer {
	return &HttpServer{
		log:    log,
		cfg:    cfg,
		router: router,
	}
}

// Listen mounts the routes and serves until shutdown.
func (s *HttpServer) Listen() error {
	op := "httpServer.Listen()"
	log := s.log.With(slog.String("op", op))

	mux := chi.NewRouter()
	s.router.Mount(mux)

	addr := fmt.Sprintf("%s:%s", s.cfg.HttpServer.Address, s.cfg.HttpServer.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  s.cfg.HttpServer.Timeout,
		WriteTimeout: s.cfg.HttpServer.Timeout,
	}

	log.Info("http server started", slog.String("addr", addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HttpServer) Shutdown(ctx context.Context) error {
	op := "httpServer.Shutdown()"

	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
