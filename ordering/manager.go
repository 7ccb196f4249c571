// Package ordering manages the actor's favorites and orders. Mutations
// are optimistic in intent only: nothing is inserted into the local
// mirror until the backend confirms, and the mirror is a convenience,
// never authoritative - listing always refetches.
package ordering

import (
	"context"
	"sync"

	"github.com/smartcampus/canteen-client/api"
	"github.com/smartcampus/canteen-client/core"
)

// Backend is the slice of the gateway client the manager needs.
type Backend interface {
	AddFavorite(ctx context.Context, dishID int) (*api.Favorite, error)
	ListFavorites(ctx context.Context) ([]api.Favorite, error)
	RemoveFavorite(ctx context.Context, favoriteID int) error
	CreateOrder(ctx context.Context, dishID int) (*api.Order, error)
	ListOrders(ctx context.Context) ([]api.Order, error)
}

// Manager is the favorites/orders layer. It resolves the acting
// identity through the session store and keeps a confirmed-only local
// mirror of favorites.
type Manager struct {
	backend  Backend
	sessions *core.SessionStore
	logger   core.Logger

	mu        sync.Mutex
	favorites []api.Favorite
}

// NewManager creates a favorites/orders manager.
func NewManager(backend Backend, sessions *core.SessionStore, logger core.Logger) *Manager {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &Manager{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
	}
}

// AddFavorite records a favorite for the current actor. The local
// mirror is only appended on confirmed success - a failed call leaves it
// untouched, so the mirror never holds speculative entries.
func (m *Manager) AddFavorite(ctx context.Context, dishID int) (*api.Favorite, error) {
	fav, err := m.backend.AddFavorite(ctx, dishID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.favorites = append(m.favorites, *fav)
	m.mu.Unlock()

	m.logger.Debug("Favorite added", map[string]interface{}{
		"operation":   "favorite_add",
		"dish_id":     dishID,
		"favorite_id": fav.ID,
	})
	return fav, nil
}

// RemoveFavorite deletes a favorite. The favorite must be present in
// the local mirror; it is removed from the mirror only on confirmed
// success.
func (m *Manager) RemoveFavorite(ctx context.Context, favoriteID int) error {
	m.mu.Lock()
	known := false
	for _, fav := range m.favorites {
		if fav.ID == favoriteID {
			known = true
			break
		}
	}
	m.mu.Unlock()

	if !known {
		return &core.ClientError{
			Op:      "ordering.RemoveFavorite",
			Kind:    "validation",
			Message: "favorite not present locally",
			Err:     core.ErrValidation,
		}
	}

	if err := m.backend.RemoveFavorite(ctx, favoriteID); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.favorites[:0]
	for _, fav := range m.favorites {
		if fav.ID != favoriteID {
			kept = append(kept, fav)
		}
	}
	m.favorites = kept
	m.mu.Unlock()

	return nil
}

// Favorites always refetches from the backend and refreshes the local
// mirror; there is no cache-only short-circuit.
func (m *Manager) Favorites(ctx context.Context) ([]api.Favorite, error) {
	favorites, err := m.backend.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.favorites = append([]api.Favorite(nil), favorites...)
	m.mu.Unlock()

	return favorites, nil
}

// Cached returns the confirmed-only local mirror without any network.
func (m *Manager) Cached() []api.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.Favorite(nil), m.favorites...)
}

// CreateOrder places an order for one dish. An authenticated session is
// a local precondition: its absence fails before any network call.
func (m *Manager) CreateOrder(ctx context.Context, dishID int) (*api.Order, error) {
	if !m.sessions.Current().Authenticated {
		return nil, &core.ClientError{
			Op:      "ordering.CreateOrder",
			Kind:    "not_authenticated",
			Message: "an active session is required to order",
			Err:     core.ErrNotAuthenticated,
		}
	}
	return m.backend.CreateOrder(ctx, dishID)
}

// Orders fetches the actor's order history. Orders are append-only on
// the client: they are only ever created and re-read, never mutated.
func (m *Manager) Orders(ctx context.Context) ([]api.Order, error) {
	return m.backend.ListOrders(ctx)
}

// Reset drops the local mirror. Wired to session clears.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.favorites = nil
	m.mu.Unlock()
}
