// Package tui provides an interactive terminal user interface for pokedex.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Lookup resolves names through the request cache.
	Lookup driving.LookupService

	// Settings supplies the default term and display options, and
	// reports config file edits. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(lookup driving.LookupService, settings driving.SettingsService) *Ports {
	return &Ports{
		Lookup:   lookup,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Lookup == nil {
		return ErrMissingLookupService
	}
	return nil
}
