package module

import (
	"bazaar/internal/services/api/feed/domain"
	tallydomain "bazaar/internal/services/tally/domain"
)

// Ports are what the feed offers other modules
type Ports struct {
	Feed domain.ServicePort
}

// Tally is what the feed consumes from the tally module; pass it with modkit.WithPorts
type Tally struct {
	Counter tallydomain.CounterPort
	Events  tallydomain.EventsPort
}
