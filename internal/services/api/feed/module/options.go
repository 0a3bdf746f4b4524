package module

import (
	"time"

	"bazaar/internal/core/cursor"
	"bazaar/internal/platform/config"
)

// Options controls the feed; read from CORE_FEED_*
type Options struct {
	CursorSecret []byte

	RadiusInitialKm float64
	RadiusStepKm    float64
	RadiusCapKm     float64

	PageSize      int
	MaxPageSize   int
	OwnerPreviews int

	RequestTimeout time.Duration
	StatementFloor time.Duration
	RetryAttempts  int
	RetryBackoff   time.Duration

	MediaFile    string
	MediaBaseURL string
}

// FromConfig reads options under CORE_FEED_; a missing or short cursor secret panics
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_FEED_")
	return Options{
		CursorSecret:    c.MustSecret("CURSOR_SECRET", cursor.MinSecretLen),
		RadiusInitialKm: c.MayFloat64("RADIUS_INITIAL_KM", 50),
		RadiusStepKm:    c.MayFloat64("RADIUS_STEP_KM", 30),
		RadiusCapKm:     c.MayFloat64("RADIUS_CAP_KM", 200),
		PageSize:        c.MayInt("PAGE_SIZE", 20),
		MaxPageSize:     c.MayInt("MAX_PAGE_SIZE", 50),
		OwnerPreviews:   c.MayInt("OWNER_PREVIEWS", 4),
		RequestTimeout:  c.MayDuration("REQUEST_TIMEOUT", 5*time.Second),
		StatementFloor:  c.MayDuration("STATEMENT_FLOOR", 100*time.Millisecond),
		RetryAttempts:   c.MayInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:    c.MayDuration("RETRY_BACKOFF", 50*time.Millisecond),
		MediaFile:       c.MayString("MEDIA_FILE", ""),
		MediaBaseURL:    c.MayString("MEDIA_BASE_URL", ""),
	}
}
