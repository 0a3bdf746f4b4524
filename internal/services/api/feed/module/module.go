// Package module wires the listing feeds into the API
package module

import (
	"bazaar/internal/core/cursor"
	"bazaar/internal/modkit"
	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/modkit/repokit"
	"bazaar/internal/modkit/swaggerkit"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/net/middleware"
	"bazaar/internal/services/api/feed/repo"
	"bazaar/internal/services/api/feed/service"

	feedhttp "bazaar/internal/services/api/feed/http"
)

// Module implements modkit.Module
type Module struct {
	built modkit.Built
	opts  Options
	ports Ports
}

// New builds the feed from CORE_FEED_* config
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions is New with explicit options; bad options panic at boot
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("feed"),
		modkit.WithPrefix("/feeds"),
		modkit.WithMiddlewares(middleware.JSONOnly()),
	}, opts...)...)

	if deps.PG == nil {
		logger.Get().Panic().Msg("feed requires postgres")
	}
	codec, err := cursor.NewCodec(o.CursorSecret)
	if err != nil {
		logger.Get().Panic().Err(err).Msg("feed cursor codec")
	}
	media, err := service.LoadMedia(o.MediaFile, o.MediaBaseURL)
	if err != nil {
		logger.Get().Panic().Err(err).Str("file", o.MediaFile).Msg("feed media prefixes")
	}

	svcOpts := []service.Option{service.WithMedia(media)}
	if t, ok := b.Ports.(Tally); ok {
		svcOpts = append(svcOpts, service.WithTally(t.Counter, t.Events))
	}

	db := repokit.WithBeginHooks(deps.PG, repokit.LocalTimeout(o.StatementFloor))
	svc := service.New(db, repo.NewPG(), codec, service.Config{
		PageSize:      o.PageSize,
		MaxPageSize:   o.MaxPageSize,
		OwnerPreviews: o.OwnerPreviews,
		Radius: service.Policy{
			InitialKm: o.RadiusInitialKm,
			StepKm:    o.RadiusStepKm,
			CapKm:     o.RadiusCapKm,
		},
		Timeout: o.RequestTimeout,
		Retry: repokit.RetryPolicy{
			Attempts: o.RetryAttempts,
			Base:     o.RetryBackoff,
			Ceiling:  o.RequestTimeout / 4,
		},
	}, svcOpts...)

	swaggerkit.Register(feedDocs(o.MaxPageSize))
	return &Module{built: b, opts: o, ports: Ports{Feed: svc}}
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.built.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { feedhttp.Register(rr, m.ports.Feed) })
}
