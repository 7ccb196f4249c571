package api

import (
	"context"

	"github.com/smartcampus/canteen-client/core"
)

// UserLogin authenticates a user and, on success, establishes the
// session in the store so subsequent calls carry the token.
func (c *Client) UserLogin(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "UserLogin", "/auth/user-login/", creds, &result); err != nil {
		return nil, err
	}
	if err := c.sessions.Login(ctx, core.ActorUser, result.Actor, result.Token); err != nil {
		return nil, err
	}
	return &result, nil
}

// MerchantLogin authenticates a merchant account.
func (c *Client) MerchantLogin(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "MerchantLogin", "/auth/merchant-login/", creds, &result); err != nil {
		return nil, err
	}
	if err := c.sessions.Login(ctx, core.ActorMerchant, result.Actor, result.Token); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account. Registration does not log in; callers
// follow up with the matching login call.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "Register", "/auth/register/", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout clears the local session. There is no backend call: the token
// is stateless on the server side, so logout is purely a local act and
// is idempotent.
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Logout(ctx)
}
