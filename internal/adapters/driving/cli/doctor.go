package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// doctorTimeout bounds each check.
const doctorTimeout = 10 * time.Second

// ErrChecksFailed is returned by doctor when any check fails.
var ErrChecksFailed = errors.New("one or more checks failed")

// Check is a named health probe run by the doctor command.
// Run returns a short detail line on success.
type Check struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, endpoint and cache",
	Long: `Runs a series of checks and reports each result:
settings validity, GraphQL endpoint reachability and the cache backend.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	checks := doctorChecks
	if lookupErr != nil {
		failed := lookupErr
		checks = append([]Check{{
			Name: "lookup",
			Run: func(context.Context) (string, error) {
				return "", failed
			},
		}}, checks...)
	}

	if len(checks) == 0 {
		cmd.Println("No checks configured.")
		return nil
	}

	failures := 0
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
		detail, err := c.Run(ctx)
		cancel()

		if err != nil {
			failures++
			cmd.Printf("  [FAIL] %-10s %v\n", c.Name, err)
			continue
		}
		cmd.Printf("  [ OK ] %-10s %s\n", c.Name, detail)
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d", ErrChecksFailed, failures, len(checks))
	}
	return nil
}
