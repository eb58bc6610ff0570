// ABOUTME: Admin statistics commands for campusctl
// ABOUTME: Fetches user, rental, and review statistics from the admin endpoints

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

var statsCmd = &cobra.Command{
	Use:   "stats <users|rentals|reviews>",
	Short: "Show platform statistics (admin only)",
	Long: `Fetch aggregate platform statistics from the admin endpoints.

Requires an admin session.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"users", "rentals", "reviews"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStats(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats fetches the requested statistics area and returns exit code
func runStats(ctx context.Context, w io.Writer, area string) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if !env.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'campusctl login' first.")
		return 1
	}

	switch area {
	case "users":
		stats, err := env.client.UserStatistics(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(stats))
		} else {
			fmt.Fprintln(w, formatUserStatsHuman(stats))
		}
	case "rentals":
		stats, err := env.client.RentalStatistics(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(stats))
		} else {
			fmt.Fprintln(w, formatRentalStatsHuman(stats))
		}
	case "reviews":
		stats, err := env.client.ReviewStatistics(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(stats))
		} else {
			fmt.Fprintln(w, formatReviewStatsHuman(stats))
		}
	default:
		fmt.Fprintf(w, "Error: unknown statistics area %q (want users, rentals, or reviews)\n", area)
		return 2
	}
	return 0
}

// formatUserStatsHuman formats user statistics for human readability
func formatUserStatsHuman(stats *client.UserStatistics) string {
	var b strings.Builder
	b.WriteString("User Statistics\n")
	fmt.Fprintf(&b, "  Total users:     %d\n", stats.TotalUsers)
	fmt.Fprintf(&b, "  Tenants:         %d\n", stats.Tenants)
	fmt.Fprintf(&b, "  Landlords:       %d\n", stats.Landlords)
	fmt.Fprintf(&b, "  Verified:        %d\n", stats.VerifiedUsers)
	fmt.Fprintf(&b, "  Active:          %d", stats.ActiveUsers)
	return b.String()
}

// formatRentalStatsHuman formats rental statistics for human readability
func formatRentalStatsHuman(stats *client.RentalStatistics) string {
	var b strings.Builder
	b.WriteString("Rental Statistics\n")
	fmt.Fprintf(&b, "  Total rentals:   %d\n", stats.TotalRentals)
	fmt.Fprintf(&b, "  Available:       %d\n", stats.AvailableRentals)
	fmt.Fprintf(&b, "  Rented:          %d\n", stats.RentedRentals)
	fmt.Fprintf(&b, "  Featured:        %d\n", stats.FeaturedRentals)
	fmt.Fprintf(&b, "  Average price:   $%.2f\n", stats.AveragePrice)
	fmt.Fprintf(&b, "  Inquiries:       %d\n", stats.TotalInquiries)
	fmt.Fprintf(&b, "  Favorites:       %d", stats.TotalFavorites)
	return b.String()
}

// formatReviewStatsHuman formats review statistics for human readability
func formatReviewStatsHuman(stats *client.ReviewStatistics) string {
	var b strings.Builder
	b.WriteString("Review Statistics\n")
	fmt.Fprintf(&b, "  Total reviews:   %d\n", stats.TotalReviews)
	fmt.Fprintf(&b, "  Approved:        %d\n", stats.ApprovedReviews)
	fmt.Fprintf(&b, "  Pending:         %d\n", stats.PendingReviews)
	fmt.Fprintf(&b, "  Reported:        %d\n", stats.ReportedReviews)
	fmt.Fprintf(&b, "  Average rating:  %.1f", stats.AverageRating)
	return b.String()
}
