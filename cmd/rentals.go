// ABOUTME: Rental listing commands for campusctl
// ABOUTME: Browses, filters, and inspects rental properties

package cmd

import (
	"context"
	"encoding/json"
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

var rentalSearch client.RentalSearch

var rentalsCmd = &cobra.Command{
	Use:   "rentals",
	Short: "Browse rental listings",
}

var rentalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rentals",
	Long: `List available rental properties, optionally filtered.

Listings are public; no login is required.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRentalsList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rentalsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single rental",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRentalsGet(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rentalsFeaturedCmd = &cobra.Command{
	Use:   "featured",
	Short: "Show featured rentals",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRentalsFeatured(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rentalsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently listed rentals",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRentalsRecent(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rentalsMyCmd = &cobra.Command{
	Use:   "my",
	Short: "Show your own listings (landlords)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRentalsMy(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(rentalsCmd)
	rentalsCmd.AddCommand(rentalsListCmd)
	rentalsCmd.AddCommand(rentalsGetCmd)
	rentalsCmd.AddCommand(rentalsFeaturedCmd)
	rentalsCmd.AddCommand(rentalsRecentCmd)
	rentalsCmd.AddCommand(rentalsMyCmd)

	rentalsListCmd.Flags().StringVar(&rentalSearch.City, "city", "", "Filter by city")
	rentalsListCmd.Flags().StringVar(&rentalSearch.PropertyType, "type", "", "Filter by property type (apartment, house, studio, shared_room, single_room)")
	rentalsListCmd.Flags().StringVar(&rentalSearch.MinPrice, "min-price", "", "Minimum monthly price")
	rentalsListCmd.Flags().StringVar(&rentalSearch.MaxPrice, "max-price", "", "Maximum monthly price")
	rentalsListCmd.Flags().IntVar(&rentalSearch.Bedrooms, "bedrooms", 0, "Minimum number of bedrooms")
	rentalsListCmd.Flags().StringVar(&rentalSearch.Search, "search", "", "Free-text search over title and description")
	rentalsListCmd.Flags().IntVar(&rentalSearch.Page, "page", 0, "Result page number")
}

// runRentalsList executes the filtered listing query and returns exit code
func runRentalsList(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	page, err := env.client.Rentals(ctx, rentalSearch)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printRentalPage(w, page)
	return 0
}

// runRentalsGet fetches a single rental by ID and returns exit code
func runRentalsGet(ctx context.Context, w io.Writer, rawID string) int {
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

	rental, err := env.client.Rental(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(rental))
	} else {
		fmt.Fprintln(w, formatRentalDetail(rental))
	}
	return 0
}

// runRentalsFeatured shows the featured listings and returns exit code
func runRentalsFeatured(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	rentals, err := env.client.FeaturedRentals(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printRentalSlice(w, rentals)
	return 0
}

// runRentalsRecent shows recently listed rentals and returns exit code
func runRentalsRecent(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	rentals, err := env.client.RecentRentals(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printRentalSlice(w, rentals)
	return 0
}

// runRentalsMy shows the caller's own listings and returns exit code
func runRentalsMy(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if !env.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'campusctl login' first.")
		return 1
	}

	page, err := env.client.MyRentals(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printRentalPage(w, page)
	return 0
}

func printRentalPage(w io.Writer, page *client.RentalPage) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(page))
		return
	}
	fmt.Fprintln(w, formatRentalsHuman(page.Results))
	if page.Count > len(page.Results) {
		fmt.Fprintf(w, "Showing %d of %d listings\n", len(page.Results), page.Count)
	}
}

func printRentalSlice(w io.Writer, rentals []client.Rental) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(rentals))
		return
	}
	fmt.Fprintln(w, formatRentalsHuman(rentals))
}

// formatRentalsHuman renders a compact one-line-per-listing table.
func formatRentalsHuman(rentals []client.Rental) string {
	if len(rentals) == 0 {
		return "No listings found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-32s %-14s %-16s %4s %8s\n", "ID", "TITLE", "TYPE", "CITY", "BEDS", "PRICE")
	for _, r := range rentals {
		title := r.Title
		if len(title) > 32 {
			title = title[:29] + "..."
		}
		fmt.Fprintf(&b, "%-6d %-32s %-14s %-16s %4d %8s\n",
			r.ID, title, r.PropertyType, r.City, r.Bedrooms, "$"+r.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRentalDetail renders the full detail view of a single listing.
func formatRentalDetail(r *client.Rental) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d)\n", r.Title, r.ID)
	fmt.Fprintf(&b, "Type:       %s\n", r.PropertyType)
	fmt.Fprintf(&b, "Price:      $%s/month", r.Price)
	if r.SecurityDeposit != "" {
		fmt.Fprintf(&b, " (deposit $%s)", r.SecurityDeposit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Address:    %s, %s, %s %s\n", r.Address, r.City, r.State, r.ZipCode)
	fmt.Fprintf(&b, "Layout:     %d bed / %d bath", r.Bedrooms, r.Bathrooms)
	if r.SquareFootage > 0 {
		fmt.Fprintf(&b, ", %d sqft", r.SquareFootage)
	}
	b.WriteString("\n")
	if r.DistanceToCampus > 0 {
		fmt.Fprintf(&b, "Campus:     %.1f miles away\n", r.DistanceToCampus)
	}
	fmt.Fprintf(&b, "Pets:       %s\n", yesNo(r.PetsAllowed))
	fmt.Fprintf(&b, "Status:     %s\n", r.Status)
	if r.AvailableFrom != "" {
		fmt.Fprintf(&b, "Available:  %s\n", r.AvailableFrom)
	}
	if r.Landlord != nil {
		fmt.Fprintf(&b, "Landlord:   %s %s\n", r.Landlord.FirstName, r.Landlord.LastName)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatJSON marshals any payload with indentation for terminal output
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// yesNo renders a boolean for human output
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
