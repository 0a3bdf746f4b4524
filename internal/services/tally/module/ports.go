package module

import "bazaar/internal/services/tally/domain"

// Ports are what the tally module offers other modules and the process
type Ports struct {
	Counter domain.CounterPort
	Popular domain.PopularPort
	Flusher domain.FlusherPort
	Events  domain.EventsPort
	// Sink drains Events; the process runs it beside the http server
	Sink domain.RunnerPort
}
