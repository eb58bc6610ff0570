// ABOUTME: Browse command for campusctl
// ABOUTME: Launches the interactive TUI for exploring rental listings

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse rentals interactively",
	Long: `Open the interactive terminal UI.

Starts at the login screen unless a stored session exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runBrowse(os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse starts the TUI and returns exit code
func runBrowse(w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := tui.Run(env.client, env.store); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}
