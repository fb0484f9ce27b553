package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/service/scrape"
)

type Server struct {
	http   *http.Server
	logger *log.Logger
}

func New(cfg *config.Config, logger *log.Logger, svc scrape.Service) *Server {
	router := NewRouter()
	router.Use(RequestID(), AccessLog(logger))
	router.Handle(http.MethodPost, "/scrape-playlist", &scrapeHandler{svc: svc, logger: logger})
	router.Handle(http.MethodGet, "/health", healthHandler{})

	return &Server{
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.http.Shutdown(ctx)
}
