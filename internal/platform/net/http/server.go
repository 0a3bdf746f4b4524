package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"bazaar/internal/platform/config"
	"bazaar/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerOptions configures the listener and shutdown
type ServerOptions struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownGrace     time.Duration
}

// ServerOptionsFrom reads PORT and SHUTDOWN_GRACE from cfg, usually the CORE_API_ view
func ServerOptionsFrom(cfg config.Conf) ServerOptions {
	return ServerOptions{
		Addr:              cfg.MayPort("PORT", "4000"),
		ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGrace:     cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

// Server is chi behind a stdlib http.Server
type Server struct {
	opt ServerOptions
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer builds the server; opts receive the root mux before any routes exist
func NewServer(opt ServerOptions, opts ...func(*chi.Mux)) *Server {
	if opt.ReadHeaderTimeout <= 0 {
		opt.ReadHeaderTimeout = 10 * time.Second
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		opt: opt,
		mux: m,
		srv: &stdhttp.Server{Handler: m, ReadHeaderTimeout: opt.ReadHeaderTimeout},
	}
}

// Router returns the Router facade over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the root mux, mostly for httptest
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.opt.Addr }

// Run serves until ctx is done, then drains in-flight requests for ShutdownGrace
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opt.Addr)
	if err != nil {
		return err
	}
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opt.ShutdownGrace)
	defer cancel()
	log.Info().Dur("grace", s.opt.ShutdownGrace).Msg("http draining")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
