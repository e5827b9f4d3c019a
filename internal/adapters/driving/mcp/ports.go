package mcp

import (
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Lookup resolves names through the request cache.
	Lookup driving.LookupService

	// Settings backs the settings resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Lookup == nil {
		return ErrMissingLookupService
	}
	return nil
}
