package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalali/dalali-cli/internal/domain"
)

// TransactionForm carries the raw-record fields for admin transaction CRUD.
// Property and Buyer are referenced by id; the date is a YYYY-MM-DD string
// as the form collects it.
type TransactionForm struct {
	Property        int    `json:"property"`
	Buyer           int    `json:"buyer"`
	Amount          string `json:"amount"`
	TransactionDate string `json:"transaction_date"`
}

// ListTransactions fetches transactions. The API scopes the result to the
// requesting account's role (buyers see their purchases, sellers their
// sales, admins everything).
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction creates a raw transaction record (admin CRUD).
func (c *Client) CreateTransaction(ctx context.Context, form TransactionForm) error {
	return c.doJSON(ctx, http.MethodPost, "/api/transactions/", form, nil)
}

// UpdateTransaction applies a partial update to a transaction record.
func (c *Client) UpdateTransaction(ctx context.Context, id int, form TransactionForm) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/transactions/%d/", id), form, nil)
}

// DeleteTransaction removes a record. Destructive; the UI confirms first.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/transactions/%d/", id), nil, nil)
}

// TransactionTotals fetches the count and summed amount for the requesting
// account.
func (c *Client) TransactionTotals(ctx context.Context) (domain.TransactionTotals, error) {
	var totals domain.TransactionTotals
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/total/", nil, &totals); err != nil {
		return domain.TransactionTotals{}, err
	}
	return totals, nil
}
