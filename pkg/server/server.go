package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"manabify/pkg/config"
	"manabify/pkg/logger"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

// Source loads the courses shown by the server on every request
type Source func(ctx context.Context) ([]timetable.Course, error)

// Server serves a local preview of the timetable.
type Server struct {
	source Source
	lang   schedule.Lang
	colors config.Colors
	router *gin.Engine
	logger zerolog.Logger
	http   *http.Server
}

// NewServer wires the routes for the given course source.
func NewServer(source Source, lang schedule.Lang, colors config.Colors) *Server {
	s := &Server{
		source: source,
		lang:   lang,
		colors: colors,
		logger: logger.Component("server"),
	}
	s.router = s.setupRouter()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.handlePage)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/timetable", s.handleTimetable)
		api.POST("/parse", s.handleParse)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down HTTP server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	s.logger.Info().Msg("HTTP server gracefully stopped.")
	return nil
}
