package api

import (
	"context"
	"net/url"
)

// MerchantDishes lists a merchant's dishes. A zero merchantID lists the
// authenticated merchant's own dishes.
func (c *Client) MerchantDishes(ctx context.Context, merchantID int) ([]Dish, error) {
	query := url.Values{}
	if merchantID > 0 {
		query.Set("merchant", itoa(merchantID))
	}
	var page DishPage
	if err := c.get(ctx, "MerchantDishes", "/merchants/dishes", query, &page); err != nil {
		return nil, err
	}
	return page.Dishes, nil
}

// AddDish creates a dish listing.
func (c *Client) AddDish(ctx context.Context, input DishInput) (*Dish, error) {
	var dish Dish
	if err := c.post(ctx, "AddDish", "/merchants/dishes/add", input, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

// UpdateDish replaces a dish listing.
func (c *Client) UpdateDish(ctx context.Context, dishID int, input DishInput) (*Dish, error) {
	var dish Dish
	if err := c.put(ctx, "UpdateDish", "/merchants/dishes/"+itoa(dishID), input, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

// DeleteDish removes a dish listing.
func (c *Client) DeleteDish(ctx context.Context, dishID int) error {
	return c.delete(ctx, "DeleteDish", "/merchants/dishes/"+itoa(dishID)+"/delete", nil, nil)
}

// FindMerchants lists merchants, optionally filtered by hall.
func (c *Client) FindMerchants(ctx context.Context, hall string) ([]Merchant, error) {
	query := url.Values{}
	if hall != "" {
		query.Set("hall", hall)
	}
	var merchants []Merchant
	if err := c.get(ctx, "FindMerchants", "/merchants/", query, &merchants); err != nil {
		return nil, err
	}
	return merchants, nil
}

// ReportTraffic publishes a merchant's live crowd/wait-time sample.
func (c *Client) ReportTraffic(ctx context.Context, report TrafficReport) error {
	return c.post(ctx, "ReportTraffic", "/merchants/traffic", report, nil)
}

// LiveTraffic reads the live crowd readings across merchants.
func (c *Client) LiveTraffic(ctx context.Context) ([]TrafficStat, error) {
	var stats []TrafficStat
	if err := c.get(ctx, "LiveTraffic", "/stats/traffic/", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
