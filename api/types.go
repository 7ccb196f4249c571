package api

import "encoding/json"

// envelope is the backend's transport wrapper. Callers of this package
// never see it; the gateway unwraps success responses to their payload
// and folds the message into the classified error on failure.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Credentials carries a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries a registration request. StoreName and Canteen
// are only meaningful for merchant registrations.
type RegisterRequest struct {
	Type            string `json:"type"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email,omitempty"`
	StoreName       string `json:"storeName,omitempty"`
	Canteen         string `json:"canteen,omitempty"`
}

// AuthResult is the unwrapped payload of a successful login or
// registration. Actor is kept as a loose map: the backend has shipped
// several shapes for it and the session store's extraction chain deals
// with the differences.
type AuthResult struct {
	Token string                 `json:"token"`
	Actor map[string]interface{} `json:"user"`
}

// Dish is one dish snapshot as returned by the discovery endpoints.
type Dish struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	Taste           string  `json:"taste"`
	SpiceLevel      int     `json:"spice_level"`
	Canteen         string  `json:"hall,omitempty"`
	CrowdLevel      string  `json:"crowd_level,omitempty"`
	WaitTimeMinutes int     `json:"wait_time,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	IsAvailable     bool    `json:"is_available"`
	StockQuantity   int     `json:"stock_quantity,omitempty"`
	MerchantID      int     `json:"merchant,omitempty"`
}

// DishPage is a page of dishes from search/filter endpoints.
type DishPage struct {
	Dishes []Dish `json:"dishes"`
	Total  int    `json:"total,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Profile is the authenticated user's profile payload.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Preferences is the user's stored taste profile.
type Preferences struct {
	PreferredCategories []string `json:"preferred_categories"`
	PreferredTastes     []string `json:"preferred_tastes"`
	PriceRangeMin       float64  `json:"price_range_min"`
	PriceRangeMax       float64  `json:"price_range_max"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// Favorite links an actor to a dish. At most one exists per
// (actor, dish) pair; the backend enforces uniqueness.
type Favorite struct {
	ID      int    `json:"favoriteId"`
	DishID  int    `json:"dishId"`
	ActorID string `json:"userId,omitempty"`
	Dish    *Dish  `json:"dish,omitempty"`
}

// Order is append-only from the client's perspective: once created it is
// never mutated locally, only re-read.
type Order struct {
	ID        int     `json:"id"`
	DishID    int     `json:"dishId"`
	ActorID   string  `json:"userId,omitempty"`
	Status    string  `json:"status"`
	Total     float64 `json:"total_amount,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// RecommendRequest is the AI recommendation call. Preferences is the
// free-form constraints hint forwarded verbatim to the backend.
type RecommendRequest struct {
	Query       string                 `json:"query"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

// Recommendation is the unwrapped AI recommendation payload.
type Recommendation struct {
	Reply  string `json:"reply,omitempty"`
	Dishes []Dish `json:"dishes,omitempty"`
}

// DishInput is the merchant-side dish create/update body.
type DishInput struct {
	MerchantID    int     `json:"merchant,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Taste         string  `json:"taste"`
	SpiceLevel    int     `json:"spice_level"`
	ImageURL      string  `json:"image_url,omitempty"`
	IsAvailable   bool    `json:"is_available"`
	StockQuantity int     `json:"stock_quantity"`
}

// TrafficReport is the merchant's live crowd/wait-time sample.
type TrafficReport struct {
	MerchantID     int    `json:"merchant_id"`
	Count          int    `json:"count"`
	WaitingMinutes int    `json:"waitingTime"`
	TimeSlot       string `json:"time_slot,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// TrafficStat is one live traffic reading from the stats endpoint.
type TrafficStat struct {
	MerchantID     int    `json:"merchant_id"`
	MerchantName   string `json:"merchant_name,omitempty"`
	Hall           string `json:"hall,omitempty"`
	Count          int    `json:"count"`
	WaitingMinutes int    `json:"waitingTime"`
	CrowdLevel     string `json:"crowd_level,omitempty"`
}

// Merchant is one merchant listing.
type Merchant struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Hall     string `json:"hall"`
	Location string `json:"location"`
	Status   bool   `json:"status"`
}
