package service

import (
	"context"
	"time"

	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/metrics"
	"bazaar/internal/services/tally/domain"

	"github.com/google/uuid"
)

// EventWriter persists a batch of events
type EventWriter interface {
	Write(ctx context.Context, evs []domain.Event) error
}

// SinkConfig sizes the event buffer
type SinkConfig struct {
	Batch    int           // flush at this many events
	Interval time.Duration // or after this long
	Buffer   int           // events held before Record starts dropping
}

// Sink buffers search events and writes them in batches from Run
// Record never blocks: a full buffer drops the event and counts it.
type Sink struct {
	w   EventWriter
	cfg SinkConfig
	in  chan domain.Event
}

// NewSink sizes the buffer from cfg
func NewSink(w EventWriter, cfg SinkConfig) *Sink {
	if cfg.Batch <= 0 {
		cfg.Batch = 500
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Buffer < cfg.Batch {
		cfg.Buffer = cfg.Batch
	}
	return &Sink{w: w, cfg: cfg, in: make(chan domain.Event, cfg.Buffer)}
}

// Record enqueues ev, assigning an id and timestamp when missing
func (s *Sink) Record(ev domain.Event) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case s.in <- ev:
	default:
		metrics.TallyDropped()
	}
}

// Run writes batches until ctx is done, then flushes what is buffered
func (s *Sink) Run(ctx context.Context) error {
	log := logger.Named("tally.sink")
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()

	batch := make([]domain.Event, 0, s.cfg.Batch)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		err := s.w.Write(ctx, batch)
		metrics.TallyFlushed("clickhouse", len(batch), err)
		if err != nil {
			log.Warn().Err(err).Int("events", len(batch)).Msg("search events dropped")
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-s.in:
			batch = append(batch, ev)
			if len(batch) >= s.cfg.Batch {
				flush(ctx)
			}
		case <-t.C:
			flush(ctx)
		case <-ctx.Done():
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			for {
				select {
				case ev := <-s.in:
					batch = append(batch, ev)
					if len(batch) >= s.cfg.Batch {
						flush(fctx)
					}
				default:
					flush(fctx)
					return nil
				}
			}
		}
	}
}

// Discard is the events port used when analytics is disabled
type Discard struct{}

// Record drops ev
func (Discard) Record(domain.Event) {}

// Run blocks until ctx is done
func (Discard) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
