// ABOUTME: Review commands for campusctl
// ABOUTME: Shows reviews per rental, recent reviews, and top-rated reviews

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Browse rental reviews",
}

var reviewsRentalCmd = &cobra.Command{
	Use:   "rental <id>",
	Short: "Show reviews for a rental",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReviewsRental(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var reviewsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent reviews",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReviewsRecent(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var reviewsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top-rated reviews",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReviewsTop(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(reviewsRentalCmd)
	reviewsCmd.AddCommand(reviewsRecentCmd)
	reviewsCmd.AddCommand(reviewsTopCmd)
}

// runReviewsRental lists reviews for one rental and returns exit code
func runReviewsRental(ctx context.Context, w io.Writer, rawID string) int {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid rental ID %q\n", rawID)
		return 2
	}

	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	page, err := env.client.RentalReviews(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(page))
	} else {
		fmt.Fprintln(w, formatReviewsHuman(page.Results))
	}
	return 0
}

// runReviewsRecent lists the newest reviews and returns exit code
func runReviewsRecent(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	reviews, err := env.client.RecentReviews(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(reviews))
	} else {
		fmt.Fprintln(w, formatReviewsHuman(reviews))
	}
	return 0
}

// runReviewsTop lists the highest rated reviews and returns exit code
func runReviewsTop(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	reviews, err := env.client.TopRatedReviews(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(reviews))
	} else {
		fmt.Fprintln(w, formatReviewsHuman(reviews))
	}
	return 0
}

// formatReviewsHuman renders reviews as star-rated blocks.
func formatReviewsHuman(reviews []client.Review) string {
	if len(reviews) == 0 {
		return "No reviews found"
	}

	var b strings.Builder
	for i, r := range reviews {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s rental #%d", stars(r.Rating), r.Rental)
		if r.Title != "" {
			fmt.Fprintf(&b, " - %s", r.Title)
		}
		b.WriteString("\n")
		if r.Tenant != nil {
			fmt.Fprintf(&b, "  by %s %s", r.Tenant.FirstName, r.Tenant.LastName)
			if r.IsVerified {
				b.WriteString(" (verified)")
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s\n", r.Comment)
		if r.LandlordResponse != "" {
			fmt.Fprintf(&b, "  Landlord: %s\n", r.LandlordResponse)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// stars renders a 1-5 rating as filled and hollow stars
func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
