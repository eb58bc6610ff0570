// ABOUTME: Wire types for the CampusRentalFinder API
// ABOUTME: Mirrors the JSON payloads served by the platform backend

package client

// User represents a platform account (tenant, landlord, or admin).
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	UserType    string `json:"user_type"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
	IsVerified  bool   `json:"is_verified"`
	DateJoined  string `json:"date_joined,omitempty"`
}

// Tokens is the JWT pair returned by login and registration.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the payload returned by the login and register endpoints.
// The server returns user and tokens atomically in a single body.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
	Tokens  Tokens `json:"tokens"`
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput holds the fields accepted by the registration endpoint.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	UserType        string `json:"user_type"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
}

// ProfileUpdate holds the mutable profile fields. Empty fields are omitted
// so the server treats the update as partial.
type ProfileUpdate struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// PasswordChangeInput holds the fields for the password change endpoint.
type PasswordChangeInput struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// Rental represents a rental listing.
type Rental struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	PropertyType     string  `json:"property_type"`
	Landlord         *User   `json:"landlord,omitempty"`
	Price            string  `json:"price"`
	SecurityDeposit  string  `json:"security_deposit,omitempty"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	ZipCode          string  `json:"zip_code"`
	Bedrooms         int     `json:"bedrooms"`
	Bathrooms        int     `json:"bathrooms"`
	SquareFootage    int     `json:"square_footage,omitempty"`
	FurnishingStatus string  `json:"furnishing_status,omitempty"`
	PetsAllowed      bool    `json:"pets_allowed"`
	AvailableFrom    string  `json:"available_from,omitempty"`
	Status           string  `json:"status"`
	IsFeatured       bool    `json:"is_featured"`
	DistanceToCampus float64 `json:"distance_to_campus,omitempty"`
	ViewsCount       int     `json:"views_count,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
}

// RentalPage is a paginated list of rentals.
type RentalPage struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Rental `json:"results"`
}

// RentalSearch holds optional listing filters.
type RentalSearch struct {
	City         string
	PropertyType string
	MinPrice     string
	MaxPrice     string
	Bedrooms     int
	Search       string
	Page         int
}

// Review represents a tenant review of a rental.
type Review struct {
	ID               int    `json:"id"`
	Rental           int    `json:"rental"`
	Tenant           *User  `json:"tenant,omitempty"`
	Rating           int    `json:"rating"`
	Title            string `json:"title,omitempty"`
	Comment          string `json:"comment"`
	Pros             string `json:"pros,omitempty"`
	Cons             string `json:"cons,omitempty"`
	WouldRecommend   bool   `json:"would_recommend"`
	IsVerified       bool   `json:"is_verified"`
	LandlordResponse string `json:"landlord_response,omitempty"`
	HelpfulVotes     int    `json:"helpful_votes"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// ReviewPage is a paginated list of reviews.
type ReviewPage struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Review `json:"results"`
}

// UserStatistics is the admin user statistics payload.
type UserStatistics struct {
	TotalUsers    int            `json:"total_users"`
	Tenants       int            `json:"tenants"`
	Landlords     int            `json:"landlords"`
	VerifiedUsers int            `json:"verified_users"`
	ActiveUsers   int            `json:"active_users"`
	UserTypeStats map[string]int `json:"user_type_stats,omitempty"`
}

// RentalStatistics is the admin rental statistics payload.
type RentalStatistics struct {
	TotalRentals      int            `json:"total_rentals"`
	AvailableRentals  int            `json:"available_rentals"`
	RentedRentals     int            `json:"rented_rentals"`
	FeaturedRentals   int            `json:"featured_rentals"`
	AveragePrice      float64        `json:"average_price"`
	TotalInquiries    int            `json:"total_inquiries"`
	TotalFavorites    int            `json:"total_favorites"`
	PropertyTypeStats map[string]int `json:"property_type_stats,omitempty"`
}

// ReviewStatistics is the admin review statistics payload.
type ReviewStatistics struct {
	TotalReviews    int     `json:"total_reviews"`
	ApprovedReviews int     `json:"approved_reviews"`
	PendingReviews  int     `json:"pending_reviews"`
	AverageRating   float64 `json:"average_rating"`
	ReportedReviews int     `json:"reported_reviews"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}
