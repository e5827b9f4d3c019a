package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and edit the settings stored in config.toml.

Values are shown with defaults and the POKEDEX_API_URL override applied.
A running TUI picks up display changes without a restart.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting and write it to config.toml.

Examples:
  pokedex config set lookup.default_term eevee
  pokedex config set cache.backend sqlite
  pokedex config set api.timeout_seconds 30`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := requireSettings()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settings.Keys() {
		value, err := settings.Value(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}

		group, name, _ := strings.Cut(key, ".")
		if group != section {
			section = group
			cmd.Println()
			cmd.Printf("[%s]\n", group)
		}
		cmd.Printf("  %s = %s\n", name, value)
	}

	if err := settings.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: settings are invalid: %v\n", err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := requireSettings()
	if err != nil {
		return err
	}

	value, err := settings.Value(args[0])
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", args[0], err)
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	settings, err := requireSettings()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := settings.SetValue(key, raw); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	value, err := settings.Value(key)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return fmt.Errorf("settings file location unknown")
	}
	cmd.Println(configPath)
	return nil
}
