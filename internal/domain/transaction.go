package domain

import (
	"fmt"
	"strings"
)

// PaymentStatus tracks the payment sub-state of a transaction,
// independent of the property lifecycle.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentMethod tags how a settled payment was made.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayMobileMoney  PaymentMethod = "mobile_money"
	PayCard         PaymentMethod = "card"
)

// PaymentMethods lists the selectable methods in modal order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PayCash, PayBankTransfer, PayMobileMoney, PayCard}
}

// ParsePaymentMethod validates a method before it is sent to the API.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(value))) {
	case PayCash:
		return PayCash, nil
	case PayBankTransfer:
		return PayBankTransfer, nil
	case PayMobileMoney:
		return PayMobileMoney, nil
	case PayCard:
		return PayCard, nil
	default:
		return "", fmt.Errorf("domain: unknown payment method %q", value)
	}
}

// Label returns the display name used in method selectors and tables.
func (m PaymentMethod) Label() string {
	switch m {
	case PayCash:
		return "Cash"
	case PayBankTransfer:
		return "Bank Transfer"
	case PayMobileMoney:
		return "Mobile Money"
	case PayCard:
		return "Credit/Debit Card"
	default:
		return string(m)
	}
}

// Transaction links a buyer, a property, and an amount. The seller is
// denormalized by the API from the property's owner.
type Transaction struct {
	ID              int           `json:"id"`
	Property        Property      `json:"property"`
	Buyer           User          `json:"buyer"`
	Seller          User          `json:"seller"`
	Amount          Money         `json:"amount"`
	TransactionDate Time          `json:"transaction_date"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	PaymentDate     *Time         `json:"payment_date,omitempty"`
}

// TransactionTotals is the aggregate returned by the totals endpoint,
// already scoped server-side to the requesting account.
type TransactionTotals struct {
	TotalCount  int   `json:"total_count"`
	TotalAmount Money `json:"total_amount"`
}
