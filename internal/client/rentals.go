// ABOUTME: Rental, review, and statistics endpoint methods for the API gateway
// ABOUTME: Typed wrappers over the listing and review feature areas

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Rentals lists rental properties, optionally filtered.
func (c *Client) Rentals(ctx context.Context, search RentalSearch) (*RentalPage, error) {
	path := "/rentals/properties/"
	if q := search.query(); q != "" {
		path += "?" + q
	}

	var page RentalPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Rental fetches a single listing by ID.
func (c *Client) Rental(ctx context.Context, id int) (*Rental, error) {
	var rental Rental
	path := fmt.Sprintf("/rentals/properties/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

// MyRentals lists the authenticated landlord's own properties.
func (c *Client) MyRentals(ctx context.Context) (*RentalPage, error) {
	var page RentalPage
	if err := c.do(ctx, http.MethodGet, "/rentals/properties/my/", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FeaturedRentals lists featured properties. Public endpoint.
func (c *Client) FeaturedRentals(ctx context.Context) ([]Rental, error) {
	var rentals []Rental
	if err := c.do(ctx, http.MethodGet, "/rentals/featured/", nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// RecentRentals lists recently posted properties. Public endpoint.
func (c *Client) RecentRentals(ctx context.Context) ([]Rental, error) {
	var rentals []Rental
	if err := c.do(ctx, http.MethodGet, "/rentals/recent/", nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// RentalReviews lists reviews for a rental.
func (c *Client) RentalReviews(ctx context.Context, rentalID int) (*ReviewPage, error) {
	var page ReviewPage
	path := fmt.Sprintf("/reviews/rental/%d/", rentalID)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RecentReviews lists the most recent reviews across the platform.
func (c *Client) RecentReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/reviews/recent/", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// TopRatedReviews lists the highest rated reviews.
func (c *Client) TopRatedReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/reviews/top-rated/", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RentalStatistics fetches the admin rental statistics.
func (c *Client) RentalStatistics(ctx context.Context) (*RentalStatistics, error) {
	var stats RentalStatistics
	if err := c.do(ctx, http.MethodGet, "/rentals/admin/statistics/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ReviewStatistics fetches the admin review statistics.
func (c *Client) ReviewStatistics(ctx context.Context) (*ReviewStatistics, error) {
	var stats ReviewStatistics
	if err := c.do(ctx, http.MethodGet, "/reviews/admin/statistics/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health calls the platform health check. Anonymous endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doNoRepair(ctx, http.MethodGet, "/health/", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// query encodes the non-zero search filters.
func (s RentalSearch) query() string {
	values := url.Values{}
	if s.City != "" {
		values.Set("city", s.City)
	}
	if s.PropertyType != "" {
		values.Set("property_type", s.PropertyType)
	}
	if s.MinPrice != "" {
		values.Set("min_price", s.MinPrice)
	}
	if s.MaxPrice != "" {
		values.Set("max_price", s.MaxPrice)
	}
	if s.Bedrooms > 0 {
		values.Set("bedrooms", strconv.Itoa(s.Bedrooms))
	}
	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}
	return values.Encode()
}
