package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dalali/dalali-cli/internal/domain"
	"github.com/dalali/dalali-cli/internal/notice"
)

type adminStatsMsg struct {
	users        []domain.User
	properties   []domain.Property
	transactions []domain.Transaction
	totals       domain.TransactionTotals
	err          error
}

type approveResultMsg struct {
	title string
	err   error
}

// adminHomeView is the admin dashboard: platform-wide counts, the recent
// activity notices, and the pending-approval queue with inline approve.
type adminHomeView struct {
	app     *App
	loading bool

	users   int
	buyers  int
	sellers int

	pending  []domain.Property
	approved int
	sold     int

	totals  domain.TransactionTotals
	notices []notice.Notice

	queue table.Model
}

func newAdminHomeView(app *App) *adminHomeView {
	q := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 26},
			{Title: "Address", Width: 22},
			{Title: "Price", Width: 12},
			{Title: "Seller", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	return &adminHomeView{app: app, queue: q, loading: true}
}

func (v *adminHomeView) Init() tea.Cmd {
	return v.fetch()
}

func (v *adminHomeView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		if err != nil {
			return adminStatsMsg{err: err}
		}
		properties, err := client.ListProperties(context.Background(), "")
		if err != nil {
			return adminStatsMsg{err: err}
		}
		transactions, err := client.ListTransactions(context.Background())
		if err != nil {
			return adminStatsMsg{err: err}
		}
		totals, err := client.TransactionTotals(context.Background())
		if err != nil {
			return adminStatsMsg{err: err}
		}
		return adminStatsMsg{
			users:        users,
			properties:   properties,
			transactions: transactions,
			totals:       totals,
		}
	}
}

func (v *adminHomeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case adminStatsMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load dashboard", msg.err.Error())
		}
		v.users = len(msg.users)
		v.buyers, v.sellers = 0, 0
		for _, u := range msg.users {
			switch u.Role {
			case domain.RoleBuyer:
				v.buyers++
			case domain.RoleSeller:
				v.sellers++
			}
		}
		v.pending = v.pending[:0]
		v.approved, v.sold = 0, 0
		for _, p := range msg.properties {
			switch p.Status {
			case domain.PropertyPending:
				v.pending = append(v.pending, p)
			case domain.PropertyApproved:
				v.approved++
			case domain.PropertySold:
				v.sold++
			}
		}
		rows := make([]table.Row, 0, len(v.pending))
		for _, p := range v.pending {
			rows = append(rows, table.Row{p.Title, p.Address, "$" + string(p.Price), p.Seller.Username})
		}
		v.queue.SetRows(rows)
		v.totals = msg.totals
		v.notices = notice.Build(msg.users, msg.properties, msg.transactions, time.Now())
		return nil

	case approveResultMsg:
		if msg.err != nil {
			return notify(noticeError, "Approval failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus(fmt.Sprintf("Approved %q", msg.title))
		return tea.Batch(
			notify(noticeSuccess, "Property approved", fmt.Sprintf("%q is now visible to buyers.", msg.title)),
			v.fetch(),
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "u":
			return gotoRoute(routeManageUsers)
		case "p":
			return gotoRoute(routeManageProperties)
		case "t":
			return gotoRoute(routeManageTransactions)
		case "a":
			idx := v.queue.Cursor()
			if idx < 0 || idx >= len(v.pending) {
				return nil
			}
			p := v.pending[idx]
			client := v.app.client
			return confirm(
				fmt.Sprintf("Approve %q for listing?", p.Title),
				func() tea.Msg {
					return approveResultMsg{title: p.Title, err: client.ApproveProperty(context.Background(), p.ID)}
				},
			)
		case "r":
			v.loading = true
			return v.fetch()
		case "q":
			return requestLogout()
		}
	}
	var cmd tea.Cmd
	v.queue, cmd = v.queue.Update(msg)
	return cmd
}

func (v *adminHomeView) View() string {
	head := titleStyle.Render("Admin dashboard")
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading dashboard…")
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		kpiCard("Users", fmt.Sprintf("%d (%db/%ds)", v.users, v.buyers, v.sellers)),
		kpiCard("Pending", fmt.Sprintf("%d", len(v.pending))),
		kpiCard("Approved", fmt.Sprintf("%d", v.approved)),
		kpiCard("Sold", fmt.Sprintf("%d", v.sold)),
		kpiCard("Revenue", fmt.Sprintf("%d · $%s", v.totals.TotalCount, v.totals.TotalAmount)),
	)

	queue := mutedStyle.Render("No properties waiting for approval.")
	if len(v.pending) > 0 {
		queue = v.queue.View()
	}
	queuePanel := titleStyle.Render("Pending approval") + "\n" + queue

	hint := hintStyle.Render("a approve · u users · p properties · t transactions · r refresh · q sign out")
	return strings.Join([]string{head, cards, queuePanel, v.renderNotices(), hint}, "\n\n")
}

func (v *adminHomeView) renderNotices() string {
	if len(v.notices) == 0 {
		return titleStyle.Render("Recent activity") + "\n" + mutedStyle.Render("Nothing new this week.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent activity"))
	for _, n := range v.notices {
		b.WriteString("\n")
		b.WriteString(noticeStyleFor(n.Kind).Render(fmt.Sprintf("[%s] %s", n.Icon, n.Message)))
	}
	return b.String()
}

func noticeStyleFor(kind notice.Kind) lipgloss.Style {
	switch kind {
	case notice.KindSuccess:
		return successStyle
	case notice.KindWarning:
		return warningStyle
	case notice.KindPrimary:
		return focusedStyle
	default:
		return infoStyle
	}
}
