package core

import "time"

// Route identifies a navigation target. Routes mirror the client's page
// names; everything except the two dashboards is public.
type Route string

const (
	RouteHome              Route = "home"
	RouteAbout             Route = "about"
	RouteUserDashboard     Route = "user-dashboard"
	RouteMerchantDashboard Route = "merchant-dashboard"
)

// ActorType distinguishes the two kinds of authenticated identity.
type ActorType string

const (
	ActorUser     ActorType = "user"
	ActorMerchant ActorType = "merchant"
)

// Durable storage keys. Only the session store writes these; every other
// component reads derived session data through the store's accessors.
const (
	StorageKeySession = "currentUser"
	StorageKeyLocale  = "locale"
)

// DefaultActorID is the last-resort actor identifier used when the
// backend payload carried no recognizable ID field. Kept for
// compatibility with inconsistent payload shapes.
const DefaultActorID = "1"

// Gateway defaults.
const (
	DefaultBaseURL        = "http://localhost:8000/api"
	DefaultRequestTimeout = 10 * time.Second
)
