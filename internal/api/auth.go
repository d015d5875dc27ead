package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalali/dalali-cli/internal/domain"
)

// Registration is the new-account payload for the public register endpoint.
type Registration struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

// Login exchanges credentials for an access token. The token is returned,
// not stored; the session guard decides whether to keep it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login/", payload, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("api: login response missing access token")
	}
	return resp.Access, nil
}

// Me fetches the profile of the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account. Duplicate usernames and weak passwords
// are rejected server-side and come back as *Error.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/register/", reg, nil)
}
