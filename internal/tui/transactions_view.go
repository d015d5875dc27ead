package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/domain"
)

// transactionsScope picks whose side of the ledger this screen shows.
type transactionsScope int

const (
	transactionsForBuyer transactionsScope = iota
	transactionsForSeller
)

type transactionsLoadedMsg struct {
	transactions []domain.Transaction
	err          error
}

// transactionsView lists the signed-in user's transactions: purchases for
// buyers, sales for sellers. The API returns the full set the user may
// see; the scope filter keeps only the rows on the user's own side.
type transactionsView struct {
	app          *App
	scope        transactionsScope
	table        table.Model
	transactions []domain.Transaction
	loading      bool
}

func newTransactionsView(app *App, scope transactionsScope) *transactionsView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Property", Width: 26},
			{Title: "Counterparty", Width: 18},
			{Title: "Amount", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Method", Width: 16},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &transactionsView{app: app, scope: scope, table: t, loading: true}
}

func (v *transactionsView) Init() tea.Cmd {
	return v.fetch()
}

func (v *transactionsView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		transactions, err := client.ListTransactions(context.Background())
		return transactionsLoadedMsg{transactions: transactions, err: err}
	}
}

func (v *transactionsView) mine(all []domain.Transaction) []domain.Transaction {
	me := v.app.guard.User()
	if me == nil {
		return nil
	}
	var out []domain.Transaction
	for _, tx := range all {
		switch v.scope {
		case transactionsForBuyer:
			if tx.Buyer.ID == me.ID {
				out = append(out, tx)
			}
		case transactionsForSeller:
			if tx.Seller.ID == me.ID {
				out = append(out, tx)
			}
		}
	}
	return out
}

func (v *transactionsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case transactionsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load transactions", msg.err.Error())
		}
		v.transactions = v.mine(msg.transactions)
		rows := make([]table.Row, 0, len(v.transactions))
		for _, tx := range v.transactions {
			counterparty := tx.Seller.Username
			if v.scope == transactionsForSeller {
				counterparty = tx.Buyer.Username
			}
			method := "—"
			if tx.PaymentMethod != "" {
				method = tx.PaymentMethod.Label()
			}
			rows = append(rows, table.Row{
				tx.Property.Title,
				counterparty,
				"$" + string(tx.Amount),
				tx.TransactionDate.Format("2006-01-02"),
				method,
				string(tx.PaymentStatus),
			})
		}
		v.table.SetRows(rows)
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return gotoRoute(routeDashboard)
		case "r":
			v.loading = true
			return v.fetch()
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *transactionsView) View() string {
	title := "My purchases"
	if v.scope == transactionsForSeller {
		title = "My sales"
	}
	head := titleStyle.Render(title)
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading transactions…")
	}
	body := v.table.View()
	if len(v.transactions) == 0 {
		body = mutedStyle.Render("No transactions yet.")
	}
	var completed int
	var total float64
	for _, tx := range v.transactions {
		if tx.PaymentStatus == domain.PaymentCompleted {
			completed++
			total += tx.Amount.Float()
		}
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d completed · $%.2f total", completed, total))
	hint := hintStyle.Render("r refresh · esc back")
	return head + "\n\n" + body + "\n\n" + summary + "\n" + hint
}
