// Package lookup provides the name lookup view for the TUI.
package lookup

import (
	"context"
	"net/url"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/components/sprite"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/core/services"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// LoadingText is shown while a lookup is in flight.
const LoadingText = "Loading..."

// View is the lookup screen: a name input, one result panel and the
// status bar. The panel always shows exactly one of the pending, failed
// or succeeded renderings for the committed term.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TermInput
	spinner   spinner.Model
	statusbar *status.Bar

	lookup     driving.LookupService
	controller *services.Controller
	ctx        context.Context

	defaultTerm   string
	renderSprites bool
	sprites       map[string]string
	spriteErrs    map[string]error

	width  int
	height int
	ready  bool
}

// NewView creates a lookup view.
func NewView(s *styles.Styles, km *keymap.KeyMap, lookup driving.LookupService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	defaults := domain.DefaultAppSettings()

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewTermInput(s),
		spinner:       sp,
		statusbar:     status.NewBar(s, km),
		lookup:        lookup,
		controller:    services.NewController(lookup),
		ctx:           context.Background(),
		defaultTerm:   defaults.Lookup.DefaultTerm,
		renderSprites: defaults.UI.RenderSprites,
		sprites:       make(map[string]string),
		spriteErrs:    make(map[string]error),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context lookups run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// ApplySettings updates the default term, sprite rendering and the
// endpoint and backend shown in the status bar.
func (v *View) ApplySettings(s *domain.AppSettings) {
	if s == nil {
		return
	}
	if s.Lookup.DefaultTerm != "" {
		v.defaultTerm = s.Lookup.DefaultTerm
	}
	v.renderSprites = s.UI.RenderSprites
	v.statusbar.SetEndpoint(hostOf(s.API.URL))
	v.statusbar.SetBackend(s.Cache.Backend.String())
}

// Init starts the cursor and commits the default term.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.Commit(v.defaultTerm))
}

// Update handles messages for the lookup view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LookupFinished:
		return v, v.handleFinished(msg.Outcome)

	case messages.SpriteLoaded:
		v.handleSprite(msg)
		return v, nil

	case spinner.TickMsg:
		// Ticks stop once nothing is pending.
		if !v.controller.State().IsPending() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Commit):
		return v, v.Commit(v.input.Value())

	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Refresh()

	case key.Matches(msg, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case key.Matches(msg, v.keymap.Back):
		v.input.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// Commit makes term the current search term. Blank input is ignored.
func (v *View) Commit(term string) tea.Cmd {
	if domain.NormaliseTerm(term) == "" {
		return nil
	}
	if v.lookup == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoLookupService}
		}
	}

	req, ok := v.controller.OnCommit(term)
	return v.afterCommit(req, ok)
}

// Refresh drops the cached result for the current term and looks it up again.
// Sprites that failed to load are retried.
func (v *View) Refresh() tea.Cmd {
	if v.lookup == nil {
		return nil
	}
	clear(v.spriteErrs)
	req, ok := v.controller.Refresh(v.ctx)
	return v.afterCommit(req, ok)
}

func (v *View) afterCommit(req services.Request, ok bool) tea.Cmd {
	if ok {
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetCached(false)
		return tea.Batch(v.spinner.Tick, v.execute(req))
	}

	state := v.controller.State()
	if !state.IsSuccess() {
		return nil
	}
	v.statusbar.SetState(status.StateResult)
	v.statusbar.SetCached(true)
	return v.loadSprite(*state.Result())
}

func (v *View) execute(req services.Request) tea.Cmd {
	ctx, c := v.ctx, v.controller
	return func() tea.Msg {
		return messages.LookupFinished{Outcome: c.Execute(ctx, req)}
	}
}

func (v *View) handleFinished(o services.Outcome) tea.Cmd {
	if !v.controller.Apply(o) {
		return nil
	}

	if o.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(services.FailureReason(o.Err))
		return nil
	}

	v.statusbar.SetState(status.StateResult)
	v.statusbar.SetCached(o.Cached)
	return v.loadSprite(o.Pokemon)
}

func (v *View) loadSprite(p domain.Pokemon) tea.Cmd {
	spriteURL := p.SpriteURL()
	if !v.renderSprites || spriteURL == "" {
		return nil
	}
	if _, ok := v.sprites[spriteURL]; ok {
		return nil
	}
	if _, failed := v.spriteErrs[spriteURL]; failed {
		return nil
	}

	ctx, lookup := v.ctx, v.lookup
	return func() tea.Msg {
		data, err := lookup.Sprite(ctx, spriteURL)
		return messages.SpriteLoaded{URL: spriteURL, Data: data, Err: err}
	}
}

func (v *View) handleSprite(msg messages.SpriteLoaded) {
	if msg.Err != nil {
		logger.Debug("Sprite %s: %v", msg.URL, msg.Err)
		v.spriteErrs[msg.URL] = msg.Err
		return
	}

	rendered, err := sprite.Render(msg.Data, v.spriteColumns())
	if err != nil {
		logger.Debug("Sprite %s: %v", msg.URL, err)
		v.spriteErrs[msg.URL] = err
		return
	}
	v.sprites[msg.URL] = rendered
}

func (v *View) spriteColumns() int {
	return max(8, min(sprite.DefaultColumns, v.width-8))
}

// View renders the lookup screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render("Pokédex"), "",
		v.input.View(), "",
		v.renderPanel(), "",
		v.statusbar.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderPanel() string {
	state := v.controller.State()

	switch state.Status() {
	case domain.StatusPending:
		return v.spinner.View() + " " + v.styles.Muted.Render(LoadingText)
	case domain.StatusFailed:
		return v.styles.Error.Render(state.Reason())
	case domain.StatusSucceeded:
		return v.renderCard(*state.Result())
	case domain.StatusIdle:
		return v.styles.Muted.Render("Type a name and press enter.")
	}
	return ""
}

func (v *View) renderCard(p domain.Pokemon) string {
	header := v.styles.Tag.Render(p.Tag()) + "  " + v.styles.Name.Render(p.DisplayName())
	return v.styles.Card.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", v.renderSprite(p)),
	)
}

func (v *View) renderSprite(p domain.Pokemon) string {
	spriteURL := p.SpriteURL()
	if spriteURL == "" {
		return v.styles.Muted.Render("(no sprite)")
	}
	if rendered, ok := v.sprites[spriteURL]; ok && v.renderSprites {
		return rendered
	}
	return v.styles.Muted.Render(spriteURL)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Input returns the text currently typed.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput replaces the typed text.
func (v *View) SetInput(term string) {
	v.input.SetValue(term)
}

// State returns the retrieval state of the committed term.
func (v *View) State() domain.RetrievalState {
	return v.controller.State()
}

// Term returns the committed term.
func (v *View) Term() string {
	return v.controller.Term()
}

// DefaultTerm returns the term committed by Init.
func (v *View) DefaultTerm() string {
	return v.defaultTerm
}

// RenderSprites reports whether sprites are drawn.
func (v *View) RenderSprites() bool {
	return v.renderSprites
}

// StatusBar returns the status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
