// ABOUTME: Whoami command for campusctl
// ABOUTME: Rehydrates the session from stored tokens and prints the profile

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current logged-in user",
	Long:  `Validate the stored session against the server and print the current user's profile.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami executes the profile fetch and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if !env.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'campusctl login' first.")
		return 1
	}

	user, err := env.store.FetchUser(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintln(w, formatUserHuman(user))
	}
	return 0
}

// formatUserHuman formats a user profile for human readability
func formatUserHuman(user *client.User) string {
	verified := "no"
	if user.IsVerified {
		verified = "yes"
	}
	return fmt.Sprintf(`Email:     %s
Name:      %s %s
Type:      %s
Phone:     %s
City:      %s
Verified:  %s`,
		user.Email,
		user.FirstName, user.LastName,
		user.UserType,
		orDash(user.PhoneNumber),
		orDash(user.City),
		verified)
}

// formatUserJSON formats a user profile as JSON
func formatUserJSON(user *client.User) string {
	data, _ := json.MarshalIndent(user, "", "  ")
	return string(data)
}

// orDash substitutes a dash for empty optional fields
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
