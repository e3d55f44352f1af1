// Package server exposes balance histories and daily operations over HTTP.
package server

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/rates"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Loader returns the accounts whose ID is query, or all accounts if query is empty.
type Loader func(query string) ([]*accounts.Account, error)

// Config holds the server settings.
type Config struct {
	Unit     string           // reference unit for aggregated histories, defaults to the rates base.
	Now      func() time.Time // clock, defaults to time.Now.
	Location *time.Location   // where days start, defaults to time.Local.
}

// Server wraps the Fiber application and its data sources.
type Server struct {
	app    *fiber.App
	load   Loader
	rates  *rates.Table
	unit   string
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// New instantiates the HTTP server and wires its routes.
func New(load Loader, table *rates.Table, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		load:   load,
		rates:  table,
		unit:   cfg.Unit,
		now:    cfg.Now,
		loc:    cfg.Location,
		logger: logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.unit == "" && table != nil {
		s.unit = table.Base()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "acv",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(requestID(), requestLogger(logger))

	s.app.Get("/history", s.history)
	s.app.Get("/days", s.days)
	// account IDs may contain slashes, so the view is the last path segment.
	s.app.Get("/accounts/*", s.accountView)
	return s
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleError maps domain errors to HTTP statuses.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &ferr):
		code = ferr.Code
	case errors.Is(err, accounts.ErrInvalidArgument):
		code = fiber.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		code = fiber.StatusNotFound
	case errors.Is(err, rates.ErrNoRate):
		code = fiber.StatusUnprocessableEntity
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
