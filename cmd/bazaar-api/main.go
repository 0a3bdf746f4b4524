// @title         bazaar API
// @version       1.0
// @description   Geo ranked marketplace feeds with signed cursor pagination

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/modkit/repokit"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/logger"
	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/net/middleware"
	"bazaar/internal/platform/store"

	"bazaar/internal/services/api"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "bazaar-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", false),
			URL:        chCfg.MayString("DBURL", ""),
			ClientName: "bazaar",
			ClientTag:  "api",
		},
		RDS: store.RedisConfig{
			Enabled:  rdsCfg.MayBool("ENABLED", false),
			Addr:     rdsCfg.MayString("ADDR", "127.0.0.1:6379"),
			Password: rdsCfg.MayString("PASSWORD", ""),
			DB:       rdsCfg.MayInt("DB", 0),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st, 10*time.Second)

	srv := phttp.NewServer(phttp.ServerOptionsFrom(apiCfg), func(m *chi.Mux) {
		m.Use(httpkit.Heartbeat("/ping"))
	})

	runners := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
		Stack: httpkit.StackOptions{
			Timeout:     apiCfg.MayDuration("TIMEOUT", 30*time.Second),
			SlowLog:     apiCfg.MayDuration("SLOW_LOG", time.Second),
			MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
			Quiet:       []string{"/api/v1/meta/health", "/api/v1/meta/ready"},
			CORS:        middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	for _, r := range runners {
		g.Go(func() error { return r.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		l.Panic().Err(err).Msg("api stopped")
	}
	l.Info().Msg("api stopped")
}
