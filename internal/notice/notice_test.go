package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalali/dalali-cli/internal/domain"
)

func at(t time.Time) domain.Time { return domain.Time{Time: t} }

func TestBuildPriorityOrder(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * 24 * time.Hour)
	stale := now.Add(-10 * 24 * time.Hour)

	users := []domain.User{
		{Username: "asha", Role: domain.RoleBuyer, DateJoined: at(recent)},
		{Username: "old-timer", Role: domain.RoleSeller, DateJoined: at(stale)},
	}
	properties := []domain.Property{
		{Status: domain.PropertyPending},
		{Status: domain.PropertyPending},
		{Status: domain.PropertyApproved},
	}
	transactions := []domain.Transaction{
		{Property: domain.Property{Title: "Sunset Villa"}, Amount: "250000.00", TransactionDate: at(recent)},
		{Property: domain.Property{Title: "Forgotten Flat"}, Amount: "80000.00", TransactionDate: at(stale)},
	}

	notices := Build(users, properties, transactions, now)
	require.Len(t, notices, 4)

	assert.Equal(t, "asha registered as buyer", notices[0].Message)
	assert.Equal(t, KindSuccess, notices[0].Kind)

	assert.Equal(t, "2 properties waiting for approval", notices[1].Message)
	assert.Equal(t, KindWarning, notices[1].Kind)

	assert.Equal(t, "New transaction: Sunset Villa sold for $250000.00", notices[2].Message)
	assert.Equal(t, KindInfo, notices[2].Kind)

	assert.Equal(t, "1 properties have been approved recently", notices[3].Message)
	assert.Equal(t, KindPrimary, notices[3].Kind)
}

func TestBuildCapsAtSix(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	var users []domain.User
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		users = append(users, domain.User{Username: name, Role: domain.RoleBuyer, DateJoined: at(recent)})
	}
	properties := []domain.Property{{Status: domain.PropertyPending}, {Status: domain.PropertyApproved}}
	transactions := []domain.Transaction{
		{Property: domain.Property{Title: "One"}, Amount: "1.00", TransactionDate: at(recent)},
		{Property: domain.Property{Title: "Two"}, Amount: "2.00", TransactionDate: at(recent)},
	}

	notices := Build(users, properties, transactions, now)
	require.Len(t, notices, 6)
	// The approved summary is dropped: the panel was already full.
	for _, n := range notices {
		assert.NotEqual(t, KindPrimary, n.Kind)
	}
}

func TestBuildApprovedSummaryNeedsRoom(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	// Exactly five earlier notices: the approved summary no longer fits
	// under the reserve rule.
	var users []domain.User
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		users = append(users, domain.User{Username: name, Role: domain.RoleBuyer, DateJoined: at(recent)})
	}
	properties := []domain.Property{{Status: domain.PropertyApproved}}

	notices := Build(users, properties, nil, now)
	require.Len(t, notices, 5)
	for _, n := range notices {
		assert.NotEqual(t, KindPrimary, n.Kind)
	}

	// With four earlier notices there is room.
	notices = Build(users[:4], properties, nil, now)
	require.Len(t, notices, 5)
	assert.Equal(t, KindPrimary, notices[4].Kind)
}

func TestBuildFullDashboardScenario(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-3 * 24 * time.Hour)

	users := []domain.User{
		{Username: "amina", Role: domain.RoleBuyer, DateJoined: at(recent)},
		{Username: "baraka", Role: domain.RoleSeller, DateJoined: at(recent)},
		{Username: "chausiku", Role: domain.RoleBuyer, DateJoined: at(recent)},
	}
	properties := []domain.Property{
		{Status: domain.PropertyPending},
		{Status: domain.PropertyPending},
		{Status: domain.PropertyApproved},
		{Status: domain.PropertyApproved},
		{Status: domain.PropertyApproved},
		{Status: domain.PropertyApproved},
	}
	transactions := []domain.Transaction{
		{Property: domain.Property{Title: "Hillside House"}, Amount: "90000.00", TransactionDate: at(recent)},
	}

	notices := Build(users, properties, transactions, now)

	// Three sign-ups, the pending summary, and the transaction make five;
	// the approved summary no longer fits and the panel stays at five.
	require.Len(t, notices, 5)
	assert.Equal(t, KindSuccess, notices[0].Kind)
	assert.Equal(t, KindSuccess, notices[1].Kind)
	assert.Equal(t, KindSuccess, notices[2].Kind)
	assert.Equal(t, "2 properties waiting for approval", notices[3].Message)
	assert.Equal(t, KindInfo, notices[4].Kind)
}

func TestBuildEmptyInputs(t *testing.T) {
	now := time.Now()
	assert.Empty(t, Build(nil, nil, nil, now))
}
