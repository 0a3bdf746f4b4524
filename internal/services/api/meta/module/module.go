// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"bazaar/internal/modkit"
	"bazaar/internal/modkit/httpkit"
	pstrings "bazaar/internal/platform/strings"

	metahttp "bazaar/internal/services/api/meta/http"
)

// DefaultService names the process in meta payloads
const DefaultService = "bazaar-api"

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	deps      modkit.Deps
	service   string
	startedAt time.Time
}

// New constructs a meta module; the service name comes from CORE_API_SERVICE_NAME
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{
		built:     b,
		deps:      deps,
		service:   deps.Cfg.Prefix("CORE_API_").MayString("SERVICE_NAME", DefaultService),
		startedAt: time.Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Pingers:     m.deps.Pingers(),
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return pstrings.MustName(m.built.Name, "module name") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
