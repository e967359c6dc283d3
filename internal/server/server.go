// Package server exposes block rendering, validation and icon recoloring over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"zgo.at/zcache/v2"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/log"
)

// Defaults applied to zero Config fields.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultCacheTTL     = 10 * time.Minute

	rateLimitWindow   = time.Minute
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Renderer renders one block. *cmsblocks.Renderer and PoolRenderer satisfy it.
type Renderer interface {
	Render(ctx context.Context, input cmsblocks.Input) (*cmsblocks.RenderResult, error)
}

// PoolRenderer renders with a renderer borrowed from Pool.
type PoolRenderer struct {
	Pool *cmsblocks.RendererPool
}

// Render implements Renderer.
func (p PoolRenderer) Render(ctx context.Context, input cmsblocks.Input) (*cmsblocks.RenderResult, error) {
	r, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Pool.Release(r)
	return r.Render(ctx, input)
}

// Config configures a Server.
type Config struct {
	Addr         string
	RateLimit    int // Requests per minute and client IP, 0 disables limiting
	MaxBodyBytes int64
	CacheTTL     time.Duration // Lifetime of recolored icons
	Limits       cmsblocks.CharacterLimits
	Viewports    []cmsblocks.Viewport // Preview viewports when the request names none
	Version      string
}

// Server serves the block API.
type Server struct {
	cfg      Config
	renderer Renderer
	logger   zerolog.Logger
	metrics  *metrics
	icons    *zcache.Cache[string, string]
	router   chi.Router
}

// New creates a Server. Zero Config fields take their defaults.
func New(cfg Config, renderer Renderer, logger zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		logger:   log.WithComponent(logger, "server"),
		metrics:  newMetrics(),
		// Expired entries are swept by Run, not by a cache goroutine.
		icons: zcache.New[string, string](cfg.CacheTTL, zcache.NoExpiration),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with the full middleware stack.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestID)
	r.Use(s.metrics.middleware)
	r.Use(accessLog(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(s.cfg.RateLimit, rateLimitWindow))
		}
		r.Use(maxBody(s.cfg.MaxBodyBytes))

		r.Post("/blocks/render", s.handleRender)
		r.Post("/blocks/preview", s.handlePreview)
		r.Post("/blocks/validate", s.handleValidate)
		r.Post("/icons/recolor", s.handleRecolor)
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		// In-flight requests outlive ctx so Shutdown can drain them.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.CacheTTL)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.icons.DeleteExpired()
			}
		}
	})
	return g.Wait()
}
