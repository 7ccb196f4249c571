package api

import (
	"context"
	"net/url"
)

// favoriteAdd is the add-favorite request body.
type favoriteAdd struct {
	DishID int    `json:"dishId"`
	UserID string `json:"userId"`
}

// AddFavorite records a favorite for the current actor. The backend
// enforces uniqueness per (actor, dish) pair.
func (c *Client) AddFavorite(ctx context.Context, dishID int) (*Favorite, error) {
	body := favoriteAdd{
		DishID: dishID,
		UserID: c.sessions.CurrentActorID(),
	}
	var fav Favorite
	if err := c.post(ctx, "AddFavorite", "/favorites/add/", body, &fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

// ListFavorites fetches the actor's favorites from the backend.
func (c *Client) ListFavorites(ctx context.Context) ([]Favorite, error) {
	query := url.Values{"userId": {c.sessions.CurrentActorID()}}

	var favorites []Favorite
	if err := c.get(ctx, "ListFavorites", "/favorites/", query, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// RemoveFavorite deletes a favorite by its ID.
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID int) error {
	query := url.Values{"userId": {c.sessions.CurrentActorID()}}
	return c.delete(ctx, "RemoveFavorite", "/favorites/"+itoa(favoriteID)+"/", query, nil)
}
