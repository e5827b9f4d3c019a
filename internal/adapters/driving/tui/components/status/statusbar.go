// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
)

// State represents the lookup state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateResult  State = "result"
)

// Bar displays lookup status, the cache indicator, the upstream endpoint
// and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	cached   bool
	endpoint string
	backend  string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string

	switch s.state {
	case StateLoading:
		parts = append(parts, s.styles.Muted.Render("Loading..."))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render(s.message))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateResult:
		if s.cached {
			parts = append(parts, s.styles.Success.Render("cache hit"))
		} else {
			parts = append(parts, s.styles.Warning.Render("fetched"))
		}
	case StateReady:
		parts = append(parts, s.styles.Muted.Render("Ready"))
	}

	if s.endpoint != "" {
		parts = append(parts, s.styles.Muted.Render(s.endpoint))
	}
	if s.backend != "" {
		parts = append(parts, s.styles.Muted.Render("cache: "+s.backend))
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message shown in StateError.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCached records whether the shown result came from the cache.
func (s *Bar) SetCached(cached bool) {
	s.cached = cached
}

// Cached reports the cache indicator.
func (s *Bar) Cached() bool {
	return s.cached
}

// SetEndpoint sets the upstream host label.
func (s *Bar) SetEndpoint(endpoint string) {
	s.endpoint = endpoint
}

// SetBackend sets the cache backend label.
func (s *Bar) SetBackend(backend string) {
	s.backend = backend
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the lookup part of the bar. Endpoint and backend stay.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.cached = false
}
