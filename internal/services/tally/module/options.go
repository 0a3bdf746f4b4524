package module

import (
	"time"

	"bazaar/internal/platform/config"
)

// Options controls the tally; read from CORE_TALLY_*
type Options struct {
	Backend      string
	Schedule     string
	DefaultLimit int
	LockTimeout  time.Duration

	EventsBatch  int
	EventsFlush  time.Duration
	EventsBuffer int
}

// FromConfig reads options under CORE_TALLY_ from cfg
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_TALLY_")
	return Options{
		Backend:      c.MayEnum("BACKEND", "pg", "pg", "redis"),
		Schedule:     c.MayString("SCHEDULE", "@every 1m"),
		DefaultLimit: c.MayInt("POPULAR_LIMIT", 10),
		LockTimeout:  c.MayDuration("LOCK_TIMEOUT", 2*time.Second),
		EventsBatch:  c.MayInt("EVENTS_BATCH", 500),
		EventsFlush:  c.MayDuration("EVENTS_FLUSH", 2*time.Second),
		EventsBuffer: c.MayInt("EVENTS_BUFFER", 4096),
	}
}
