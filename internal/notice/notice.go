// Package notice derives the admin dashboard's recent-activity entries from
// already-fetched collections. Pure aggregation; nothing here talks to the
// network.
package notice

import (
	"fmt"
	"time"

	"github.com/dalali/dalali-cli/internal/domain"
)

// Kind colors a notice in the dashboard panel.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindPrimary Kind = "primary"
)

// Notice is one recent-activity entry.
type Notice struct {
	Message string
	Icon    string
	Kind    Kind
}

const (
	// maxNotices caps the panel.
	maxNotices = 6

	recentWindow = 7 * 24 * time.Hour
)

// Build assembles notices in priority order: sign-ups within the window,
// a pending-approval summary, transactions within the window, then an
// approved-listings summary if room remains. The result never exceeds the
// cap.
func Build(users []domain.User, properties []domain.Property, transactions []domain.Transaction, now time.Time) []Notice {
	var notices []Notice
	cutoff := now.Add(-recentWindow)

	for _, user := range users {
		if user.DateJoined.After(cutoff) {
			notices = append(notices, Notice{
				Message: fmt.Sprintf("%s registered as %s", user.Username, user.Role),
				Icon:    "USR",
				Kind:    KindSuccess,
			})
		}
	}

	pending := 0
	approved := 0
	for _, property := range properties {
		switch property.Status {
		case domain.PropertyPending:
			pending++
		case domain.PropertyApproved:
			approved++
		}
	}
	if pending > 0 {
		notices = append(notices, Notice{
			Message: fmt.Sprintf("%d properties waiting for approval", pending),
			Icon:    "PRP",
			Kind:    KindWarning,
		})
	}

	for _, tx := range transactions {
		if tx.TransactionDate.After(cutoff) {
			notices = append(notices, Notice{
				Message: fmt.Sprintf("New transaction: %s sold for $%s", tx.Property.Title, tx.Amount),
				Icon:    "TRX",
				Kind:    KindInfo,
			})
		}
	}

	if approved > 0 && len(notices) < maxNotices-1 {
		notices = append(notices, Notice{
			Message: fmt.Sprintf("%d properties have been approved recently", approved),
			Icon:    "OK",
			Kind:    KindPrimary,
		})
	}

	if len(notices) > maxNotices {
		notices = notices[:maxNotices]
	}
	return notices
}
