package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaar/internal/modkit"
	"bazaar/internal/modkit/module"
	"bazaar/internal/modkit/repokit"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/store"

	tallymod "bazaar/internal/services/tally/module"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Named("tally")

	var (
		fMode     = flag.String("mode", "cron", "tally mode: cron | once")
		fSchedule = flag.String("schedule", "", "cron spec; defaults to CORE_TALLY_SCHEDULE")
		fTimeout  = flag.Duration("timeout", 30*time.Second, "budget for one flush")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "bazaar-tally",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		RDS: store.RedisConfig{
			Enabled:  true,
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

	opts := tallymod.FromConfig(root)
	opts.Backend = "redis"
	tm := tallymod.NewWithOptions(modkit.DepsFrom(root, st), opts)
	module.Register(tm.Name(), tm.Ports())
	flusher := module.MustPortsOf[tallymod.Ports](tm).Flusher

	flush := func() {
		fctx, cancel := context.WithTimeout(ctx, *fTimeout)
		defer cancel()
		start := time.Now()
		n, err := flusher.Flush(fctx)
		if err != nil {
			l.Error().Err(err).Int("rows", n).Msg("tally flush failed")
			return
		}
		l.Info().Int("rows", n).Dur("took", time.Since(start)).Msg("tally flushed")
	}

	switch *fMode {
	case "once":
		flush()
	case "cron":
		spec := *fSchedule
		if spec == "" {
			spec = opts.Schedule
		}
		c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		if _, err := c.AddFunc(spec, flush); err != nil {
			l.Panic().Err(err).Str("schedule", spec).Msg("bad tally schedule")
		}
		c.Start()
		l.Info().Str("schedule", spec).Msg("tally scheduled")

		<-ctx.Done()
		<-c.Stop().Done()
		// drain what accumulated since the last tick
		ctx = context.WithoutCancel(ctx)
		flush()
	default:
		l.Panic().Str("mode", *fMode).Msg("unknown mode")
	}
}
