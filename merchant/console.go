// Package merchant is the merchant-side console: dish listing
// management and live crowd/wait-time telemetry reporting.
package merchant

import (
	"context"

	"github.com/smartcampus/canteen-client/api"
	"github.com/smartcampus/canteen-client/core"
)

// Backend is the slice of the gateway client the console needs.
type Backend interface {
	MerchantDishes(ctx context.Context, merchantID int) ([]api.Dish, error)
	AddDish(ctx context.Context, input api.DishInput) (*api.Dish, error)
	UpdateDish(ctx context.Context, dishID int, input api.DishInput) (*api.Dish, error)
	DeleteDish(ctx context.Context, dishID int) error
	ReportTraffic(ctx context.Context, report api.TrafficReport) error
	LiveTraffic(ctx context.Context) ([]api.TrafficStat, error)
}

// Console drives a merchant's listings and telemetry. Mutations require
// a merchant session; the check is local and costs no network call.
type Console struct {
	backend  Backend
	sessions *core.SessionStore
	logger   core.Logger
}

// NewConsole creates a merchant console.
func NewConsole(backend Backend, sessions *core.SessionStore, logger core.Logger) *Console {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &Console{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
	}
}

func (c *Console) requireMerchant(op string) error {
	session := c.sessions.Current()
	if !session.Authenticated || session.ActorType != core.ActorMerchant {
		return &core.ClientError{
			Op:      op,
			Kind:    "not_authenticated",
			Message: "a merchant session is required",
			Err:     core.ErrNotAuthenticated,
		}
	}
	return nil
}

// Dishes lists the merchant's own dishes.
func (c *Console) Dishes(ctx context.Context) ([]api.Dish, error) {
	if err := c.requireMerchant("merchant.Dishes"); err != nil {
		return nil, err
	}
	return c.backend.MerchantDishes(ctx, c.merchantID())
}

// AddDish creates a listing under the merchant's own ID.
func (c *Console) AddDish(ctx context.Context, input api.DishInput) (*api.Dish, error) {
	if err := c.requireMerchant("merchant.AddDish"); err != nil {
		return nil, err
	}
	if input.MerchantID == 0 {
		input.MerchantID = c.merchantID()
	}
	return c.backend.AddDish(ctx, input)
}

// UpdateDish replaces a listing.
func (c *Console) UpdateDish(ctx context.Context, dishID int, input api.DishInput) (*api.Dish, error) {
	if err := c.requireMerchant("merchant.UpdateDish"); err != nil {
		return nil, err
	}
	return c.backend.UpdateDish(ctx, dishID, input)
}

// DeleteDish removes a listing.
func (c *Console) DeleteDish(ctx context.Context, dishID int) error {
	if err := c.requireMerchant("merchant.DeleteDish"); err != nil {
		return err
	}
	return c.backend.DeleteDish(ctx, dishID)
}

// ReportTraffic publishes a live crowd/wait-time sample for the
// merchant's window.
func (c *Console) ReportTraffic(ctx context.Context, headcount, waitingMinutes int, timeSlot string) error {
	if err := c.requireMerchant("merchant.ReportTraffic"); err != nil {
		return err
	}
	return c.backend.ReportTraffic(ctx, api.TrafficReport{
		MerchantID:     c.merchantID(),
		Count:          headcount,
		WaitingMinutes: waitingMinutes,
		TimeSlot:       timeSlot,
	})
}

// LiveTraffic reads the campus-wide live crowd readings. This one is
// public: diners use it too.
func (c *Console) LiveTraffic(ctx context.Context) ([]api.TrafficStat, error) {
	return c.backend.LiveTraffic(ctx)
}

// merchantID resolves the numeric merchant ID from the session's
// extraction chain; a non-numeric identifier degrades to zero and lets
// the backend resolve the merchant from the token.
func (c *Console) merchantID() int {
	id := 0
	for _, r := range c.sessions.CurrentActorID() {
		if r < '0' || r > '9' {
			return 0
		}
		id = id*10 + int(r-'0')
	}
	return id
}
