// ABOUTME: Root command for campusctl CLI
// ABOUTME: Handles global flags, configuration, and wiring of the session manager

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/client"
	"github.com/campusrentalfinder/campusctl/internal/config"
	"github.com/campusrentalfinder/campusctl/internal/logger"
	"github.com/campusrentalfinder/campusctl/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "campusctl",
	Short: "CLI for the CampusRentalFinder rental platform",
	Long: `campusctl is a command-line client for the CampusRentalFinder platform.

It manages your login session locally and talks to the rental platform API
for listings, reviews, and admin statistics.

Environment Variables:
  CAMPUSCTL_API_URL     API base URL (default: http://localhost:8000/api/v1)
  CAMPUSCTL_CONFIG_DIR  Session storage directory (default: ~/.config/campusctl)
  CAMPUSCTL_TIMEOUT     HTTP timeout (default: 30s)`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides CAMPUSCTL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appEnv bundles the wired session manager for a command invocation.
type appEnv struct {
	cfg     *config.Config
	client  *client.Client
	store   *session.Store
	storage *session.Storage
}

// newAppEnv loads configuration and wires storage, gateway, and session
// store. The session-expired hook prints a login hint once the teardown has
// already happened.
func newAppEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	storage := session.NewStorage(cfg.ConfigDir)
	apiClient := client.New(cfg.APIURL, storage,
		client.WithTimeout(cfg.Timeout),
		client.OnSessionExpired(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'campusctl login' to sign in again.")
		}),
	)

	return &appEnv{
		cfg:     cfg,
		client:  apiClient,
		store:   session.NewStore(apiClient, storage),
		storage: storage,
	}, nil
}
