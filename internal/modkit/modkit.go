// Package modkit wires API modules: shared deps, build options and the module contract
package modkit

import "bazaar/internal/modkit/module"

// Module is what api.Mount composes; see module.Module
type Module = module.Module

// Builder constructs a Module from shared deps and options
// modules expose New(deps Deps, opts ...Option) Module with this shape
type Builder func(Deps, ...Option) Module
