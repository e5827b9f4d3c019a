package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The configured default term is looked up as soon as the UI opens.

Controls:
  Enter    - Look up the typed name
  Ctrl+R   - Fetch the current name again
  Esc      - Clear the input
  ?        - Toggle help
  Ctrl+C   - Quit`,
	Annotations: map[string]string{
		annotationOwnsTerminal: "true",
	},
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the application from the installed ports.
func newTUIApp() (*tui.App, error) {
	lookup, err := requireLookup()
	if err != nil {
		return nil, err
	}

	app, err := tui.NewApp(tui.NewPorts(lookup, settingsService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app, nil
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := newTUIApp()
	if err != nil {
		return err
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
