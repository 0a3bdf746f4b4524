package domain

import "context"

// CounterPort counts one search for a normalized term
type CounterPort interface {
	Increment(ctx context.Context, kind, term string) error
}

// PopularPort reads the tally
type PopularPort interface {
	Popular(ctx context.Context, in PopularInput) ([]PopularTerm, error)
}

// FlusherPort moves buffered counts into the durable tally
type FlusherPort interface {
	Flush(ctx context.Context) (int, error)
}

// EventsPort accepts search events without blocking the caller
type EventsPort interface {
	Record(Event)
}

// RunnerPort is a loop owned by the process lifecycle
type RunnerPort interface {
	Run(ctx context.Context) error
}
