package api

import "context"

// orderCreate is the create-order request body.
type orderCreate struct {
	DishID int    `json:"dishId"`
	UserID string `json:"userId"`
}

// CreateOrder places an order for one dish on behalf of the current
// actor. Authentication preconditions are enforced by the ordering
// manager before this wrapper is reached.
func (c *Client) CreateOrder(ctx context.Context, dishID int) (*Order, error) {
	body := orderCreate{
		DishID: dishID,
		UserID: c.sessions.CurrentActorID(),
	}
	var order Order
	if err := c.post(ctx, "CreateOrder", "/orders/create/", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches the actor's order history.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "ListOrders", "/user/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
