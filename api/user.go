package api

import (
	"context"
	"net/url"
)

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "Profile", "/user/profile/", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// preferencesUpdate carries the userId alongside the preferences body,
// the way the backend expects it.
type preferencesUpdate struct {
	UserID      string      `json:"userId"`
	Preferences Preferences `json:"preferences"`
}

// GetPreferences fetches the actor's stored preferences. The userId
// query value comes from the session store's extraction chain.
func (c *Client) GetPreferences(ctx context.Context) (*Preferences, error) {
	query := url.Values{"userId": {c.sessions.CurrentActorID()}}

	var prefs Preferences
	if err := c.get(ctx, "GetPreferences", "/user/preferences/", query, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences replaces the actor's stored preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs Preferences) error {
	body := preferencesUpdate{
		UserID:      c.sessions.CurrentActorID(),
		Preferences: prefs,
	}
	return c.put(ctx, "UpdatePreferences", "/user/preferences/", body, nil)
}
