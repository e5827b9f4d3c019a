// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
)

// MaxTermLength bounds what the user can type.
const MaxTermLength = 64

// TermInput is the single-line name field of the lookup view.
type TermInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewTermInput creates a focused name input.
func NewTermInput(s *styles.Styles) *TermInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a Pokémon name..."
	ti.Focus()
	ti.CharLimit = MaxTermLength
	ti.Width = 40

	return &TermInput{
		textinput: ti,
		styles:    s,
		width:     40,
	}
}

// Init starts the cursor blinking.
func (t *TermInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (t *TermInput) Update(msg tea.Msg) (*TermInput, tea.Cmd) {
	var cmd tea.Cmd
	t.textinput, cmd = t.textinput.Update(msg)
	return t, cmd
}

// View renders the labelled input.
func (t *TermInput) View() string {
	label := t.styles.Subtitle.Render("Name: ")
	field := t.styles.InputField.Render(t.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (t *TermInput) Value() string {
	return t.textinput.Value()
}

// SetValue sets the input value.
func (t *TermInput) SetValue(value string) {
	t.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (t *TermInput) Focus() tea.Cmd {
	return t.textinput.Focus()
}

// Blur removes focus from the input.
func (t *TermInput) Blur() {
	t.textinput.Blur()
}

// Focused returns whether the input is focused.
func (t *TermInput) Focused() bool {
	return t.textinput.Focused()
}

// SetWidth sets the width of the input, leaving room for the label.
func (t *TermInput) SetWidth(width int) {
	t.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > MaxTermLength {
		inputWidth = MaxTermLength
	}
	t.textinput.Width = inputWidth
}

// Width returns the current width.
func (t *TermInput) Width() int {
	return t.width
}

// Reset clears the input.
func (t *TermInput) Reset() {
	t.textinput.Reset()
}
