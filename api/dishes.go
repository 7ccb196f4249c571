package api

import (
	"context"
	"net/url"
)

// SearchDishes runs a text search with optional structured parameters.
// The query values are built by the discovery engine; this wrapper only
// forwards them.
func (c *Client) SearchDishes(ctx context.Context, query url.Values) (*DishPage, error) {
	var page DishPage
	if err := c.get(ctx, "SearchDishes", "/dishes/search", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FilterDishes runs a structured facet filter.
func (c *Client) FilterDishes(ctx context.Context, query url.Values) (*DishPage, error) {
	var page DishPage
	if err := c.get(ctx, "FilterDishes", "/dishes/filter", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchSuggestions fetches completion suggestions for a partial query.
func (c *Client) SearchSuggestions(ctx context.Context, q string) ([]string, error) {
	var suggestions []string
	query := url.Values{"q": {q}}
	if err := c.get(ctx, "SearchSuggestions", "/dishes/suggestions", query, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// AIRecommend asks the backend's recommendation pipeline for dishes
// matching a free-text query.
func (c *Client) AIRecommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	var rec Recommendation
	if err := c.post(ctx, "AIRecommend", "/dishes/ai-recommend", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PopularDishes fetches the popularity-ranked dish list.
func (c *Client) PopularDishes(ctx context.Context) ([]Dish, error) {
	var page DishPage
	if err := c.get(ctx, "PopularDishes", "/dishes/popular", nil, &page); err != nil {
		return nil, err
	}
	return page.Dishes, nil
}

// RandomDishes fetches up to limit random dishes.
func (c *Client) RandomDishes(ctx context.Context, limit int) ([]Dish, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", itoa(limit))
	}
	var page DishPage
	if err := c.get(ctx, "RandomDishes", "/dishes/random", query, &page); err != nil {
		return nil, err
	}
	return page.Dishes, nil
}

// DishDetail fetches one dish by ID.
func (c *Client) DishDetail(ctx context.Context, dishID int) (*Dish, error) {
	var dish Dish
	if err := c.get(ctx, "DishDetail", "/dishes/"+itoa(dishID), nil, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}
