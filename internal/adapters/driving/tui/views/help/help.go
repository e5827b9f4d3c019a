// Package help provides the keybinding reference view.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
)

// View lists every keybinding.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model
	width  int
	height int
}

// NewView creates a help view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShowAll = true

	return &View{
		styles: s,
		keymap: km,
		help:   h,
		width:  80,
		height: 24,
	}
}

// Update returns to the lookup view on esc or ?.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	if key.Matches(keyMsg, v.keymap.Back, v.keymap.Help) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewLookup}
		}
	}
	return v, nil
}

// View renders the help text.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Help"),
		"",
		v.help.View(v.keymap),
		"",
		v.styles.Muted.Render("Results stay fresh for a while; ctrl+r fetches the current name again."),
		"",
		v.styles.Help.Render("[esc] back"),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
}
