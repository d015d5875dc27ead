package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalali/dalali-cli/internal/domain"
)

// PropertyForm carries the editable listing fields. Images are optional
// attachments; create and update are always multipart because the API's
// listing endpoints accept files alongside scalars.
type PropertyForm struct {
	Title       string
	Address     string
	Price       string
	Description string
	Bedrooms    int
	Bathrooms   int
	Images      []Attachment
}

func (f PropertyForm) fields() map[string]string {
	return map[string]string{
		"title":       f.Title,
		"address":     f.Address,
		"price":       f.Price,
		"description": f.Description,
		"bedrooms":    strconv.Itoa(f.Bedrooms),
		"bathrooms":   strconv.Itoa(f.Bathrooms),
	}
}

// ListProperties fetches listings, optionally server-filtered by status.
// Pass "" for no filter.
func (c *Client) ListProperties(ctx context.Context, status domain.PropertyStatus) ([]domain.Property, error) {
	path := "/api/properties/"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var properties []domain.Property
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// GetProperty fetches a single listing by id.
func (c *Client) GetProperty(ctx context.Context, id int) (*domain.Property, error) {
	var property domain.Property
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/properties/%d/", id), nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// CreateProperty submits a new listing; it starts in pending status and the
// API assigns the signed-in seller as owner.
func (c *Client) CreateProperty(ctx context.Context, form PropertyForm) error {
	return c.doForm(ctx, http.MethodPost, "/api/properties/", form.fields(), form.Images, nil)
}

// UpdateProperty applies a partial update to a listing.
func (c *Client) UpdateProperty(ctx context.Context, id int, form PropertyForm) error {
	path := fmt.Sprintf("/api/properties/%d/", id)
	return c.doForm(ctx, http.MethodPatch, path, form.fields(), form.Images, nil)
}

// DeleteProperty removes a listing. Destructive; the UI confirms first.
func (c *Client) DeleteProperty(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/properties/%d/", id), nil, nil)
}

// ApproveProperty moves a pending listing to approved (admin action).
func (c *Client) ApproveProperty(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/properties/%d/approve/", id), nil, nil)
}

// PurchaseProperty initiates a purchase, creating a pending transaction
// server-side. The purchase is not final until ProcessPayment succeeds.
func (c *Client) PurchaseProperty(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/properties/%d/purchase/", id), nil, nil)
}

// ProcessPayment settles the pending transaction for a property. The
// method must be one of the known enum members; this is checked before any
// request is issued.
func (c *Client) ProcessPayment(ctx context.Context, id int, method domain.PaymentMethod) error {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return err
	}
	payload := map[string]string{"payment_method": string(method)}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/properties/%d/process_payment/", id), payload, nil)
}
