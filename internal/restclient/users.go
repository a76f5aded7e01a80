package restclient

import (
	"context"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// Profile выполняет GET /users/me.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile выполняет PUT /users/me.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.put(ctx, "/users/me", upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
