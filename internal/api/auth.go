package api

import (
	"context"

	"github.com/nhle/maintenance-admin/internal/model"
)

// Login exchanges credentials for a token and the user's profile.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.post(ctx, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.post(ctx, "/auth/registro", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Profile returns the profile of the token's owner.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, "/auth/perfil", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
