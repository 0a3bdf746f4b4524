package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bazaar/internal/platform/testkit"
	"bazaar/internal/services/tally/domain"

	"github.com/google/uuid"
)

type recWriter struct {
	mu      sync.Mutex
	batches [][]domain.Event
	err     error
	wrote   chan struct{}
}

func (w *recWriter) Write(_ context.Context, evs []domain.Event) error {
	w.mu.Lock()
	w.batches = append(w.batches, append([]domain.Event(nil), evs...))
	w.mu.Unlock()
	if w.wrote != nil {
		w.wrote <- struct{}{}
	}
	return w.err
}

func (w *recWriter) total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, b := range w.batches {
		n += len(b)
	}
	return n
}

func TestSink_RecordFillsIdentity(t *testing.T) {
	s := NewSink(&recWriter{}, SinkConfig{Batch: 2, Buffer: 2})
	s.Record(domain.Event{Kind: "services", Term: "plumber"})
	ev := <-s.in
	if ev.ID == uuid.Nil || ev.At.IsZero() {
		t.Fatalf("event not stamped: %+v", ev)
	}
}

func TestSink_DropsWhenFull(t *testing.T) {
	s := NewSink(&recWriter{}, SinkConfig{Batch: 1, Buffer: 1})
	s.Record(domain.Event{Term: "a"})
	s.Record(domain.Event{Term: "b"})
	s.Record(domain.Event{Term: "c"})
	if len(s.in) != 1 {
		t.Fatalf("buffered = %d", len(s.in))
	}
	if ev := <-s.in; ev.Term != "a" {
		t.Fatalf("kept %q, want the first event", ev.Term)
	}
}

func TestSink_RunFlushesBySizeAndOnShutdown(t *testing.T) {
	w := &recWriter{wrote: make(chan struct{}, 8)}
	s := NewSink(w, SinkConfig{Batch: 2, Interval: time.Hour, Buffer: 8})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.Record(domain.Event{Term: "a"})
	s.Record(domain.Event{Term: "b"})
	testkit.Await(t, w.wrote, 2*time.Second, "size flush")

	s.Record(domain.Event{Term: "c"})
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := w.total(); got != 3 {
		t.Fatalf("written = %d", got)
	}
}

func TestSink_RunFlushesOnInterval(t *testing.T) {
	w := &recWriter{wrote: make(chan struct{}, 8), err: errors.New("ch down")}
	s := NewSink(w, SinkConfig{Batch: 100, Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	s.Record(domain.Event{Term: "a"})
	testkit.Await(t, w.wrote, 2*time.Second, "interval flush")
}

func TestDiscard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	Discard{}.Record(domain.Event{})
	cancel()
	if err := (Discard{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
}
