package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pokedex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pokedex/internal/core/domain"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/core/services"
)

// mockLookupService implements driving.LookupService for CLI tests.
type mockLookupService struct {
	cached      bool
	err         error
	invalidated []string
}

var pikachu = domain.Pokemon{
	ID:      25,
	Name:    "pikachu",
	Sprites: domain.Sprites{FrontDefault: "https://example.test/25.png"},
}

func (m *mockLookupService) Lookup(_ context.Context, term string) (driving.LookupResult, error) {
	if m.err != nil {
		return driving.LookupResult{}, m.err
	}
	if !pikachu.Matches(term) {
		return driving.LookupResult{}, domain.ErrPokemonNotFound
	}
	return driving.LookupResult{Pokemon: pikachu, Cached: m.cached}, nil
}

func (m *mockLookupService) Cached(string) (domain.Pokemon, bool) { return domain.Pokemon{}, false }

func (m *mockLookupService) Invalidate(_ context.Context, term string) error {
	m.invalidated = append(m.invalidated, term)
	return nil
}

func (m *mockLookupService) Sprite(context.Context, string) ([]byte, error) { return nil, nil }
func (m *mockLookupService) Stats() driving.CacheStats                      { return driving.CacheStats{} }

// setupTestServices installs a mock lookup and an in-memory settings
// service, restoring the previous state when the test ends.
func setupTestServices(t *testing.T) (*mockLookupService, *services.SettingsService) {
	t.Helper()

	lookup := &mockLookupService{}
	settings := services.NewSettingsService(memory.NewConfigStore())
	install(t, &Services{
		Lookup:     lookup,
		Settings:   settings,
		ConfigPath: "/tmp/pokedex/config.toml",
	})
	return lookup, settings
}

// install swaps the package services for s until the test ends.
func install(t *testing.T, s *Services) {
	t.Helper()

	prev := &Services{
		Lookup:     lookupService,
		LookupErr:  lookupErr,
		Settings:   settingsService,
		ConfigPath: configPath,
		Checks:     doctorChecks,
		Close:      closeServices,
	}
	prevFactory := factory
	SetServices(s)
	factory = nil

	t.Cleanup(func() {
		SetServices(prev)
		factory = prevFactory
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	prevTerminal := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() {
		isTerminal = prevTerminal
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		lookupJSON = false
		lookupRefresh = false
		verbose = false
		configDir = ""
		_ = mcpServeCmd.Flags().Set("port", "0")
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// captureOutput runs fn with a detached command writing to a buffer.
func captureOutput(fn func(cmd *cobra.Command)) string {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	fn(cmd)
	return buf.String()
}
