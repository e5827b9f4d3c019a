package lookup

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
)

const pikachuSprite = "https://example.test/sprites/25.png"

// fakeLookup implements driving.LookupService for testing.
type fakeLookup struct {
	dex         map[string]domain.Pokemon
	fresh       map[string]domain.Pokemon
	sprite      []byte
	spriteErr   error
	lookups     []string
	invalidated []string
}

func newFakeLookup(t *testing.T) *fakeLookup {
	return &fakeLookup{
		dex: map[string]domain.Pokemon{
			"pikachu":    {ID: 25, Name: "pikachu", Sprites: domain.Sprites{FrontDefault: pikachuSprite}},
			"charmander": {ID: 4, Name: "charmander"},
			"bulbasaur":  {ID: 1, Name: "bulbasaur"},
		},
		fresh:  map[string]domain.Pokemon{},
		sprite: redSquare(t),
	}
}

func (f *fakeLookup) Lookup(_ context.Context, term string) (driving.LookupResult, error) {
	f.lookups = append(f.lookups, term)
	p, ok := f.dex[term]
	if !ok {
		return driving.LookupResult{}, domain.ErrPokemonNotFound
	}
	return driving.LookupResult{Pokemon: p}, nil
}

func (f *fakeLookup) Cached(term string) (domain.Pokemon, bool) {
	p, ok := f.fresh[term]
	return p, ok
}

func (f *fakeLookup) Invalidate(_ context.Context, term string) error {
	f.invalidated = append(f.invalidated, term)
	delete(f.fresh, term)
	return nil
}

func (f *fakeLookup) Sprite(_ context.Context, _ string) ([]byte, error) {
	return f.sprite, f.spriteErr
}

func (f *fakeLookup) Stats() driving.CacheStats {
	return driving.CacheStats{}
}

func redSquare(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// run executes cmd and flattens batches into the produced messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// drive feeds every message produced by cmd back into the view until
// no more lookup or sprite messages are produced.
func drive(v *View, cmd tea.Cmd) {
	for cmd != nil {
		var next []tea.Cmd
		for _, msg := range run(cmd) {
			switch msg.(type) {
			case messages.LookupFinished, messages.SpriteLoaded:
				_, c := v.Update(msg)
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
}

func newReadyView(t *testing.T) (*View, *fakeLookup) {
	f := newFakeLookup(t)
	v := NewView(nil, nil, f)
	v.SetDimensions(100, 30)
	return v, f
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, newFakeLookup(t))

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, domain.DefaultTerm, v.DefaultTerm())
	assert.True(t, v.RenderSprites())
	assert.Equal(t, domain.StatusIdle, v.State().Status())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_InitCommitsDefaultTerm(t *testing.T) {
	v, f := newReadyView(t)

	cmd := v.Init()

	assert.Equal(t, domain.StatusPending, v.State().Status())
	assert.Equal(t, "pikachu", v.Term())
	assert.Contains(t, v.View(), LoadingText)

	drive(v, cmd)

	state := v.State()
	require.True(t, state.IsSuccess())
	assert.Equal(t, 25, state.Result().ID)
	assert.Equal(t, []string{"pikachu"}, f.lookups)

	out := v.View()
	assert.Contains(t, out, "#25")
	assert.Contains(t, out, "PIKACHU")
	assert.Contains(t, out, "▀▀", "sprite should be drawn with half blocks")
	assert.NotContains(t, out, LoadingText)
	assert.Equal(t, status.StateResult, v.StatusBar().State())
	assert.False(t, v.StatusBar().Cached())
}

func TestView_CommitNotFound(t *testing.T) {
	v, _ := newReadyView(t)

	drive(v, v.Commit("missingno"))

	assert.True(t, v.State().IsError())
	out := v.View()
	assert.Contains(t, out, domain.NotFoundMessage)
	assert.NotContains(t, out, LoadingText)
	assert.Equal(t, status.StateError, v.StatusBar().State())
	assert.Equal(t, domain.NotFoundMessage, v.StatusBar().Message())
}

func TestView_SupersededOutcomeIsDiscarded(t *testing.T) {
	v, _ := newReadyView(t)

	first := run(v.Commit("pikachu"))
	second := run(v.Commit("charmander"))

	slow, ok := find[messages.LookupFinished](first)
	require.True(t, ok)
	fast, ok := find[messages.LookupFinished](second)
	require.True(t, ok)

	v.Update(fast)
	v.Update(slow)

	state := v.State()
	require.True(t, state.IsSuccess())
	assert.Equal(t, "charmander", state.Result().Name)
	assert.Contains(t, v.View(), "CHARMANDER")
	assert.NotContains(t, v.View(), "PIKACHU")
}

func TestView_BlankCommitIgnored(t *testing.T) {
	v, f := newReadyView(t)
	drive(v, v.Commit("bulbasaur"))

	cmd := v.Commit("   ")

	assert.Nil(t, cmd)
	assert.Equal(t, "bulbasaur", v.Term())
	assert.True(t, v.State().IsSuccess())
	assert.Len(t, f.lookups, 1)
}

func TestView_FreshCacheHitSkipsNetwork(t *testing.T) {
	v, f := newReadyView(t)
	f.fresh["charmander"] = f.dex["charmander"]

	cmd := v.Commit("Charmander")

	assert.Nil(t, cmd, "no sprite URL and no request needed")
	assert.True(t, v.State().IsSuccess())
	assert.Empty(t, f.lookups)
	assert.True(t, v.StatusBar().Cached())
}

func TestView_EnterCommitsInput(t *testing.T) {
	v, _ := newReadyView(t)
	v.SetInput("  Bulbasaur ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, "bulbasaur", v.Term())
	assert.True(t, v.State().IsPending())
	assert.Equal(t, status.StateLoading, v.StatusBar().State())
}

func TestView_TypingGoesToInput(t *testing.T) {
	v, _ := newReadyView(t)

	for _, r := range "eevee" {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "eevee", v.Input())
	assert.Equal(t, domain.StatusIdle, v.State().Status(), "typing alone must not commit")
}

func TestView_HelpKey(t *testing.T) {
	v, _ := newReadyView(t)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	msg, ok := find[messages.ViewChanged](run(cmd))
	require.True(t, ok)
	assert.Equal(t, messages.ViewHelp, msg.View)
}

func TestView_EscClearsInput(t *testing.T) {
	v, _ := newReadyView(t)
	v.SetInput("mew")

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, v.Input())
}

func TestView_RefreshRefetches(t *testing.T) {
	v, f := newReadyView(t)
	drive(v, v.Commit("bulbasaur"))
	f.fresh["bulbasaur"] = f.dex["bulbasaur"]

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, []string{"bulbasaur"}, f.invalidated)
	assert.True(t, v.State().IsPending())

	drive(v, cmd)
	assert.True(t, v.State().IsSuccess())
	assert.Equal(t, []string{"bulbasaur", "bulbasaur"}, f.lookups)
}

func TestView_RefreshWithoutTerm(t *testing.T) {
	v, f := newReadyView(t)

	assert.Nil(t, v.Refresh())
	assert.Empty(t, f.invalidated)
}

func TestView_NilLookupService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(100, 30)

	msg, ok := find[messages.ErrorOccurred](run(v.Commit("pikachu")))
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoLookupService)

	v.Update(msg)
	assert.Equal(t, status.StateError, v.StatusBar().State())
	assert.Nil(t, v.Refresh())
}

func TestView_SpriteDisabledShowsURL(t *testing.T) {
	v, _ := newReadyView(t)
	settings := domain.DefaultAppSettings()
	settings.UI.RenderSprites = false
	v.ApplySettings(&settings)

	cmd := v.Commit("pikachu")
	msgs := run(cmd)
	finished, ok := find[messages.LookupFinished](msgs)
	require.True(t, ok)

	_, spriteCmd := v.Update(finished)

	assert.Nil(t, spriteCmd)
	assert.Contains(t, v.View(), pikachuSprite)
}

func TestView_SpriteErrorFallsBackToURL(t *testing.T) {
	v, f := newReadyView(t)
	f.spriteErr = errors.New("connection reset")

	drive(v, v.Commit("pikachu"))

	assert.True(t, v.State().IsSuccess())
	assert.Contains(t, v.View(), pikachuSprite)

	// A failed sprite is not retried on the next commit.
	assert.Nil(t, v.loadSprite(f.dex["pikachu"]))
}

func TestView_RefreshRetriesFailedSprite(t *testing.T) {
	v, f := newReadyView(t)
	f.spriteErr = errors.New("connection reset")
	drive(v, v.Commit("pikachu"))
	require.Contains(t, v.View(), pikachuSprite)

	f.spriteErr = nil
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	drive(v, cmd)

	assert.True(t, v.State().IsSuccess())
	assert.NotContains(t, v.View(), pikachuSprite)
}

func TestView_SpriteUndecodableFallsBackToURL(t *testing.T) {
	v, f := newReadyView(t)
	f.sprite = []byte("<html>")

	drive(v, v.Commit("pikachu"))

	assert.Contains(t, v.View(), pikachuSprite)
}

func TestView_NoSprite(t *testing.T) {
	v, _ := newReadyView(t)

	drive(v, v.Commit("charmander"))

	assert.Contains(t, v.View(), "(no sprite)")
}

func TestView_SpinnerTicksStopWhenSettled(t *testing.T) {
	v, _ := newReadyView(t)

	_, cmd := v.Update(spinner.TickMsg{})

	assert.Nil(t, cmd)
}

func TestView_ApplySettings(t *testing.T) {
	v, _ := newReadyView(t)
	settings := domain.DefaultAppSettings()
	settings.Lookup.DefaultTerm = "eevee"
	settings.API.URL = "http://localhost:8080/v1/graphql"
	settings.Cache.Backend = domain.CacheBackendSQLite

	v.ApplySettings(&settings)
	v.ApplySettings(nil)
	v.SetDimensions(160, 30)

	assert.Equal(t, "eevee", v.DefaultTerm())
	out := v.View()
	assert.Contains(t, out, "localhost:8080")
	assert.Contains(t, out, "cache: sqlite")
}

func TestView_WithContext(t *testing.T) {
	v := NewView(nil, nil, nil)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("k"), "v")

	assert.Same(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 120, v.Width())
	assert.Equal(t, 40, v.Height())
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "beta.pokeapi.co", hostOf(domain.DefaultAPIURL))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
