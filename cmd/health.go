// ABOUTME: Health command for campusctl
// ABOUTME: Checks whether the rental platform API is reachable

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth pings the health endpoint and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	health, err := env.client.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "API unreachable: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(health))
	} else {
		fmt.Fprintf(w, "API %s: %s\n", env.cfg.APIURL, health.Status)
	}
	return 0
}
