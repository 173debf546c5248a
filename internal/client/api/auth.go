package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
)

// Login exchanges credentials for an access token and the user record.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp, "Login failed"); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login response carries no access token")
	}
	return &resp, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &u, "Registration failed"); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the account the current access token belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u, "Could not validate credentials"); err != nil {
		return nil, err
	}
	return &u, nil
}
