// Package cli implements the pokedex command line on top of cobra.
//
// Commands read their collaborators from package-level ports. The binary
// installs a Factory with SetFactory; the factory runs once global flags
// are parsed so --verbose and --config-dir reach every service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/logger"
)

// Command annotations.
const (
	// annotationNoServices marks commands that run without building services.
	annotationNoServices = "pokedex/no-services"

	// annotationOwnsTerminal marks commands that take over the terminal,
	// so verbose logs must go to a file.
	annotationOwnsTerminal = "pokedex/owns-terminal"
)

// LogFile is the verbose log written while the TUI owns the terminal.
const LogFile = "pokedex.log"

// Services holds the driving ports the commands use.
type Services struct {
	Lookup   driving.LookupService
	Settings driving.SettingsService

	// LookupErr records why Lookup could not be built. Commands that only
	// need settings keep working.
	LookupErr error

	// ConfigPath is the settings file location.
	ConfigPath string

	// Checks are run by the doctor command.
	Checks []Check

	// Close releases connections held by the services.
	Close func() error
}

// Factory builds Services after global flags are parsed.
type Factory func(ctx context.Context, configDir string) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	factory Factory

	lookupService   driving.LookupService
	lookupErr       error
	settingsService driving.SettingsService
	configPath      string
	doctorChecks    []Check
	closeServices   func() error
	logFile         *os.File
)

var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Look up Pokémon from the terminal",
	Long: `Pokédex looks up Pokémon through the PokeAPI GraphQL endpoint and shows
their id, name and sprite.

Run without a subcommand to open the interactive terminal UI.`,
	Annotations: map[string]string{
		annotationOwnsTerminal: "true",
	},
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
	RunE:               runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", `configuration directory (default ~/.pokedex, ":memory:" keeps nothing on disk)`)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetFactory installs the function that builds services.
func SetFactory(f Factory) {
	factory = f
}

// SetServices installs services directly, bypassing the factory.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	lookupService = s.Lookup
	lookupErr = s.LookupErr
	settingsService = s.Settings
	configPath = s.ConfigPath
	doctorChecks = s.Checks
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if verbose && cmd.Annotations[annotationOwnsTerminal] == "true" {
		if err := redirectLogs(); err != nil {
			return err
		}
	}

	if cmd.Annotations[annotationNoServices] == "true" || factory == nil {
		return nil
	}

	services, err := factory(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	var errs []error
	if closeServices != nil {
		errs = append(errs, closeServices())
		closeServices = nil
	}
	if logFile != nil {
		logger.SetOutput(os.Stderr)
		errs = append(errs, logFile.Close())
		logFile = nil
	}
	return errors.Join(errs...)
}

// redirectLogs sends verbose output to LogFile in the temp directory.
func redirectLogs() error {
	path := filepath.Join(os.TempDir(), LogFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f
	logger.SetOutput(f)
	logger.Info("Logging to %s", path)
	return nil
}

// requireLookup returns the lookup port or the reason it is missing.
func requireLookup() (driving.LookupService, error) {
	if lookupService != nil {
		return lookupService, nil
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return nil, errors.New("lookup service not configured")
}

// requireSettings returns the settings port.
func requireSettings() (driving.SettingsService, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService, nil
}
