package modkit

import (
	"bazaar/internal/modkit/repokit"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module
// nil seams are disabled backends; modules decide whether they can run without them
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS store.KV
}

// DepsFrom lifts the enabled store seams into Deps
func DepsFrom(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Cfg: cfg}
	if st == nil {
		return d
	}
	d.Log = st.Log
	d.PG, d.CH, d.RDS = st.PG, st.CH, st.RDS
	return d
}

// Pingers returns the enabled seams that can report readiness, keyed by backend
func (d Deps) Pingers() map[string]store.Pinger {
	return (&store.Store{PG: d.PG, CH: d.CH, RDS: d.RDS}).Pingers()
}
