package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dalali/dalali-cli/internal/domain"
)

type sellerStatsMsg struct {
	properties []domain.Property
	totals     domain.TransactionTotals
	err        error
}

// sellerHomeView is the seller dashboard: listing counts by status, sales
// totals, and the jump-off points into listing management.
type sellerHomeView struct {
	app      *App
	pending  int
	approved int
	sold     int
	totals   domain.TransactionTotals
	loading  bool
}

func newSellerHomeView(app *App) *sellerHomeView {
	return &sellerHomeView{app: app, loading: true}
}

func (v *sellerHomeView) Init() tea.Cmd {
	return v.fetch()
}

func (v *sellerHomeView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		properties, err := client.ListProperties(context.Background(), "")
		if err != nil {
			return sellerStatsMsg{err: err}
		}
		totals, err := client.TransactionTotals(context.Background())
		if err != nil {
			return sellerStatsMsg{err: err}
		}
		return sellerStatsMsg{properties: properties, totals: totals}
	}
}

func (v *sellerHomeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sellerStatsMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load dashboard", msg.err.Error())
		}
		me := v.app.guard.User()
		v.pending, v.approved, v.sold = 0, 0, 0
		for _, p := range msg.properties {
			if me == nil || p.Seller.ID != me.ID {
				continue
			}
			switch p.Status {
			case domain.PropertyPending:
				v.pending++
			case domain.PropertyApproved:
				v.approved++
			case domain.PropertySold:
				v.sold++
			}
		}
		v.totals = msg.totals
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			return gotoRoute(routeSellerProperties)
		case "t":
			return gotoRoute(routeBuyerTransactions)
		case "r":
			v.loading = true
			return v.fetch()
		case "q":
			return requestLogout()
		}
	}
	return nil
}

func (v *sellerHomeView) View() string {
	me := v.app.guard.User()
	name := ""
	if me != nil {
		name = me.FullName()
	}
	head := titleStyle.Render("Seller dashboard") + "  " + mutedStyle.Render(name)
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading dashboard…")
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		kpiCard("Pending", fmt.Sprintf("%d", v.pending)),
		kpiCard("Approved", fmt.Sprintf("%d", v.approved)),
		kpiCard("Sold", fmt.Sprintf("%d", v.sold)),
		kpiCard("Sales", fmt.Sprintf("%d · $%s", v.totals.TotalCount, v.totals.TotalAmount)),
	)
	hint := hintStyle.Render("p my listings · t my sales · r refresh · q sign out")
	return head + "\n\n" + cards + "\n\n" + hint
}

func kpiCard(label, value string) string {
	return kpiCardStyle.Render(labelStyle.Render(label) + "\n" + successStyle.Render(value))
}
