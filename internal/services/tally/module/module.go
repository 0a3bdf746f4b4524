// Package module wires the search tally into the API and the tally worker
package module

import (
	"bazaar/internal/modkit"
	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/services/tally/repo"
	"bazaar/internal/services/tally/service"

	tallyhttp "bazaar/internal/services/tally/http"
)

// Kinds are the listing kinds the tally drains
var Kinds = []string{"services", "local-jobs", "used-products"}

// Module implements modkit.Module
type Module struct {
	built modkit.Built
	opts  Options
	ports Ports
}

// New builds the tally; the redis backend falls back to pg when redis is disabled
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions is New with explicit options, for the worker and tests
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tally"),
		modkit.WithPrefix("/search-terms"),
	}, opts...)...)

	var counters *repo.Counters
	if o.Backend == service.BackendRedis {
		if deps.RDS == nil {
			deps.Log.Warn().Msg("tally backend redis requested without redis, counting in postgres")
			o.Backend = service.BackendPG
		} else {
			counters = repo.NewCounters(deps.RDS)
		}
	}
	svc := service.New(deps.PG, repo.NewPG(), counters, service.Config{
		Backend:      o.Backend,
		Kinds:        Kinds,
		DefaultLimit: o.DefaultLimit,
		LockTimeout:  o.LockTimeout,
	})

	m := &Module{built: b, opts: o}
	m.ports = Ports{Counter: svc, Popular: svc, Flusher: svc, Events: service.Discard{}, Sink: service.Discard{}}
	if deps.CH != nil {
		sink := service.NewSink(repo.NewEvents(deps.CH), service.SinkConfig{
			Batch:    o.EventsBatch,
			Interval: o.EventsFlush,
			Buffer:   o.EventsBuffer,
		})
		m.ports.Events, m.ports.Sink = sink, sink
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.built.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { tallyhttp.Register(rr, m.ports.Popular) })
}
