package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pokedex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pokedex/internal/core/ports/driving"
	"github.com/custodia-labs/pokedex/internal/core/services"
)

var (
	lookupJSON    bool
	lookupRefresh bool
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [name]",
	Short: "Look up a Pokémon by name",
	Long: `Looks up a single Pokémon and prints its id, name and sprite URL.
Names are matched case-insensitively. Results are served from the cache
while they are fresh; --refresh drops the cached entry first.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output the result as JSON")
	lookupCmd.Flags().BoolVar(&lookupRefresh, "refresh", false, "ignore any cached result")
	rootCmd.AddCommand(lookupCmd)
}

// lookupOutput is the JSON shape printed with --json.
type lookupOutput struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SpriteURL string `json:"sprite_url"`
	Cached    bool   `json:"cached"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	lookup, err := requireLookup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	name := args[0]

	if lookupRefresh {
		if err := lookup.Invalidate(ctx, name); err != nil {
			return fmt.Errorf("invalidating %q: %w", name, err)
		}
	}

	res, err := lookup.Lookup(ctx, name)
	if err != nil {
		reason := services.FailureReason(err)
		if reason == err.Error() {
			return err
		}
		return fmt.Errorf("%s: %w", reason, err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, res)
	}
	outputLookupTable(cmd, res, isTerminal())
	return nil
}

func outputLookupJSON(cmd *cobra.Command, res driving.LookupResult) error {
	data, err := json.MarshalIndent(lookupOutput{
		ID:        res.Pokemon.ID,
		Name:      res.Pokemon.Name,
		SpriteURL: res.Pokemon.SpriteURL(),
		Cached:    res.Cached,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputLookupTable(cmd *cobra.Command, res driving.LookupResult, styled bool) {
	p := res.Pokemon

	s := styles.DefaultStyles()
	tag, name := p.Tag(), p.DisplayName()
	if styled {
		tag, name = s.Tag.Render(tag), s.Name.Render(name)
	}
	cmd.Printf("%s %s\n", tag, name)

	sprite := p.SpriteURL()
	if sprite == "" {
		sprite = "(none)"
	}
	source := "network"
	if res.Cached {
		source = "cache"
	}

	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", p.ID)},
		{"Sprite", sprite},
		{"Source", source},
	}
	for _, row := range rows {
		label := fmt.Sprintf("%-8s", row[0])
		if styled {
			label = s.Muted.Render(label)
		}
		cmd.Printf("  %s%s\n", label, row[1])
	}
}
