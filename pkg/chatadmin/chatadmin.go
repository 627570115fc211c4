package chatadmin

import (
	core "github.com/goliatone/go-chatadmin/components/admin"
)

// Service exposes the underlying components/admin.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// SeedDocument re-export for callers loading fixtures.
type SeedDocument = core.SeedDocument

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// NewDemoService builds a service loaded with the built in fixtures.
func NewDemoService(opts Options) (*Service, error) {
	if opts.Seed == nil {
		seed := core.DefaultSeed()
		opts.Seed = &seed
	}
	return core.NewService(opts)
}
