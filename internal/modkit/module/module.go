// Package module defines the module contract and the port lookups used while composing the API
package module

import (
	phttp "bazaar/internal/platform/net/http"
)

// Module is the surface every API module implements
// kept in its own package so a module can import another module's ports without a cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
