// Package server exposes the inspector over a read-only HTTP API.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/toyz/hierq/internal/config"
	"github.com/toyz/hierq/internal/inspect"
	"github.com/toyz/hierq/internal/loader"
	"github.com/toyz/hierq/internal/utils"
)

// Options holds settings for the HTTP inspector
type Options struct {
	// Addr is the listen address (default: config server.addr)
	Addr string

	// EnableLogger enables request logging middleware
	EnableLogger bool

	// EnableRecover enables panic recovery middleware
	EnableRecover bool

	// ShutdownTimeout is the timeout for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration
}

// Server serves inspections of the model held by a loader.Store. Each request
// reads the store once, so a reload never changes the model mid-request.
type Server struct {
	echo  *echo.Echo
	store *loader.Store
	cfg   *config.Config
	opts  Options
	diag  *utils.DiagnosticSystem
}

// New creates a server; a nil cfg uses config.Default()
func New(store *loader.Store, cfg *config.Config, opts Options) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Addr == "" {
		opts.Addr = cfg.Server.Addr
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	if opts.EnableRecover {
		e.Use(middleware.Recover())
	}
	if opts.EnableLogger {
		e.Use(middleware.Logger())
	}

	s := &Server{echo: e, store: store, cfg: cfg, opts: opts, diag: cfg.Diagnostics()}
	s.routes()
	return s
}

// Echo returns the underlying Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) routes() {
	api := s.echo.Group("/api")
	api.GET("/health", s.health)
	api.GET("/types", s.types)
	api.GET("/types/:name", s.describe)
	api.GET("/types/:name/supertypes", s.typeRows((*inspect.Inspector).Supertypes))
	api.GET("/types/:name/methods", s.typeRows((*inspect.Inspector).Methods))
	api.GET("/types/:name/fields", s.typeRows((*inspect.Inspector).Fields))
	api.GET("/types/:name/inner", s.typeRows((*inspect.Inspector).InnerTypes))
	api.GET("/annotations", s.selectorRows("element", (*inspect.Inspector).Annotations))
	api.GET("/overrides", s.selectorRows("method", (*inspect.Inspector).Overrides))
}

// Run serves until ctx is done and then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.diag.Info("listening on %s", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.diag.Verbose("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) inspector() *inspect.Inspector {
	return inspect.New(s.store.Index(), s.cfg)
}

type healthResponse struct {
	Status       string   `json:"status"`
	Types        int      `json:"types"`
	Files        []string `json:"files"`
	Placeholders []string `json:"placeholders,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	current := s.store.Current()
	return c.JSON(http.StatusOK, healthResponse{
		Status:       "ok",
		Types:        current.Index.Len(),
		Files:        current.Files,
		Placeholders: current.Placeholders,
	})
}

func (s *Server) types(c echo.Context) error {
	opts, err := NewQueryMap(c).Options()
	if err != nil {
		return err
	}
	rows, err := s.inspector().Types(opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) describe(c echo.Context) error {
	in := s.inspector()
	name := c.Param("name")

	rows, err := in.Supertypes(name, inspect.Options{Scope: inspect.ScopeSelf})
	if err != nil {
		return err
	}
	row := rows[0]
	if row.Description, err = in.Describe(name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}

type typeOperation func(in *inspect.Inspector, name string, opts inspect.Options) ([]inspect.Row, error)

func (s *Server) typeRows(op typeOperation) echo.HandlerFunc {
	return func(c echo.Context) error {
		opts, err := NewQueryMap(c).Options()
		if err != nil {
			return err
		}
		rows, err := op(s.inspector(), c.Param("name"), opts)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rows)
	}
}

func (s *Server) selectorRows(param string, op typeOperation) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := NewQueryMap(c)
		selector := q.Get(param)
		if selector == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter '"+param+"' is required")
		}
		opts, err := q.Options()
		if err != nil {
			return err
		}
		rows, err := op(s.inspector(), selector, opts)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rows)
	}
}
