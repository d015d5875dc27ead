package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalali/dalali-cli/internal/domain"
)

// UserForm carries the editable account fields for admin create/update.
// Image is optional; when set the form is sent as multipart.
type UserForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Image     *Attachment
}

func (f UserForm) fields() map[string]string {
	return map[string]string{
		"username":   f.Username,
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"role":       string(f.Role),
	}
}

func (f UserForm) attachments() []Attachment {
	if f.Image == nil {
		return nil
	}
	return []Attachment{*f.Image}
}

// ListUsers fetches every account. Admin only; other roles get a 403.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account from the admin management view.
func (c *Client) CreateUser(ctx context.Context, form UserForm) error {
	return c.doForm(ctx, http.MethodPost, "/api/users/", form.fields(), form.attachments(), nil)
}

// UpdateUser applies a partial update to an account.
func (c *Client) UpdateUser(ctx context.Context, id int, form UserForm) error {
	path := fmt.Sprintf("/api/users/%d/", id)
	return c.doForm(ctx, http.MethodPatch, path, form.fields(), form.attachments(), nil)
}

// DeleteUser removes an account. Destructive; the UI confirms first.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d/", id), nil, nil)
}
