// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/services"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLookup is the name input and result panel.
	ViewLookup ViewType = iota
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLookup:
		return "lookup"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LookupFinished carries the outcome of an executed lookup request.
type LookupFinished struct {
	Outcome services.Outcome
}

// SpriteLoaded carries downloaded sprite bytes.
type SpriteLoaded struct {
	URL  string
	Data []byte
	Err  error
}

// SettingsChanged signals that the config file was edited.
type SettingsChanged struct{}

// SettingsLoaded carries freshly read settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
