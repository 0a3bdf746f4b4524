// Package api provides the HTTP API for the application
package api

import (
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/metrics"
	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/store"

	"bazaar/internal/modkit"
	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/modkit/module"
	"bazaar/internal/modkit/swaggerkit"

	feedmod "bazaar/internal/services/api/feed/module"
	metamod "bazaar/internal/services/api/meta/module"
	tallydomain "bazaar/internal/services/tally/domain"
	tallymod "bazaar/internal/services/tally/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	Stack          httpkit.StackOptions
}

// Mount mounts the API service onto the given router and returns the
// background loops the process must run beside the http server
func Mount(r phttp.Router, opt Options) []tallydomain.RunnerPort {
	deps := modkit.DepsFrom(opt.Config, opt.Store)

	// tally first, the feed consumes its counter and event ports
	tally := tallymod.New(deps)
	tp := module.MustPortsOf[tallymod.Ports](tally)

	feed := feedmod.New(deps, modkit.WithPorts(feedmod.Tally{
		Counter: tp.Counter,
		Events:  tp.Events,
	}))

	mods := []module.Module{
		metamod.New(deps),
		tally,
		feed,
	}

	swaggerkit.Mount(r, swaggerkit.Options{Enabled: opt.EnableSwagger})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return []tallydomain.RunnerPort{tp.Sink}
}
