package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/views/help"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/views/lookup"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// App is the root Bubbletea model.
// It routes messages between the lookup and help views.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	currentView messages.ViewType
	lookupView  *lookup.View
	helpView    *help.View

	width  int
	height int
	ready  bool
	err    error
}

// NewApp creates a new TUI application with the given ports.
// Returns an error if ports validation fails.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		currentView: messages.ViewLookup,
		lookupView:  lookup.NewView(s, km, ports.Lookup),
		helpView:    help.NewView(s, km),
	}

	if ports.Settings != nil {
		a.applySettings(readSettings(ports.Settings))
	}
	return a, nil
}

// WithContext sets the context for lookups.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.lookupView.WithContext(ctx)
	return a
}

// Init implements tea.Model. It commits the default term.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Pokédex"),
		a.lookupView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			a.helpView, cmd = a.helpView.Update(msg)
			return a, cmd
		}
		a.lookupView, cmd = a.lookupView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.SettingsChanged:
		return a, a.loadSettings()

	case messages.SettingsLoaded:
		a.applySettings(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	// Lookups and sprites finish while help is open too.
	a.lookupView, cmd = a.lookupView.Update(msg)
	return a, cmd
}

func (a *App) loadSettings() tea.Cmd {
	settings := a.ports.Settings
	if settings == nil {
		return nil
	}
	return func() tea.Msg {
		return readSettings(settings)
	}
}

func readSettings(settings driving.SettingsService) messages.SettingsLoaded {
	s, err := settings.Get()
	return messages.SettingsLoaded{Settings: s, Err: err}
}

func (a *App) applySettings(msg messages.SettingsLoaded) {
	if msg.Err != nil {
		logger.Warn("Loading settings: %v", msg.Err)
		a.err = msg.Err
		return
	}
	a.lookupView.ApplySettings(msg.Settings)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.helpView.View()
	}
	return a.lookupView.View()
}

// Run starts the TUI and blocks until the user quits. Config file edits
// are picked up while it runs.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.ports.Settings != nil {
		go func() {
			err := a.ports.Settings.Watch(ctx, func() {
				p.Send(messages.SettingsChanged{})
			})
			if err != nil {
				logger.Warn("Watching settings: %v", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// LookupView returns the lookup view.
func (a *App) LookupView() *lookup.View {
	return a.lookupView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.lookupView.SetDimensions(width, height)
	a.helpView.SetDimensions(width, height)
}
