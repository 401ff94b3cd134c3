package server

import (
	"context"
	"errors"
	"github.com/gistsearch/gistsearch/internal/config"
	"github.com/gistsearch/gistsearch/internal/search"
	"github.com/gistsearch/gistsearch/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"net/http"
)

type Server struct {
	echo *echo.Echo

	dev      bool
	searcher *search.Searcher
}

func NewServer(searcher *search.Searcher, isDev bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = isDev
	e.Validator = validator.NewValidator()

	s := &Server{echo: e, dev: isDev, searcher: searcher}

	s.useCustomContext()
	s.registerMiddlewares()
	s.echo.HTTPErrorHandler = s.errorHandler

	s.registerRoutes()

	return s
}

func (s *Server) Start() {
	addr := config.C.HttpHost + ":" + config.C.HttpPort

	log.Info().Msg("Starting HTTP server on http://" + addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Shutdown stops accepting connections and waits for in-flight searches to
// finish, or for ctx to be done.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping HTTP server...")
	return s.echo.Shutdown(ctx)
}

func (s *Server) Stop() {
	if err := s.echo.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to stop HTTP server")
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
