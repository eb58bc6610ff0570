// ABOUTME: Raw API passthrough command for campusctl
// ABOUTME: Sends an arbitrary authenticated request and prints the response body

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var apiData string

var apiCmd = &cobra.Command{
	Use:   "api <method> <path>",
	Short: "Send a raw authenticated API request",
	Long: `Send an arbitrary request through the authenticated gateway.

The bearer token and automatic token refresh apply just like for the typed
commands. The path is relative to the API base URL, e.g.:

  campusctl api GET /rentals/featured/
  campusctl api PATCH /auth/profile/ --data '{"city":"Boston"}'`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAPI(ctx, os.Stdout, args[0], args[1])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiData, "data", "", "JSON request body")
}

// runAPI sends the raw request and returns exit code
func runAPI(ctx context.Context, w io.Writer, method, path string) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	method = strings.ToUpper(method)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body any
	if apiData != "" {
		raw := json.RawMessage(apiData)
		if !json.Valid(raw) {
			fmt.Fprintln(w, "Error: --data is not valid JSON")
			return 2
		}
		body = raw
	}

	resp, err := env.client.Request(ctx, method, path, body)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if len(resp) == 0 {
		return 0
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp, "", "  "); err != nil {
		fmt.Fprintln(w, string(resp))
		return 0
	}
	fmt.Fprintln(w, pretty.String())
	return 0
}
