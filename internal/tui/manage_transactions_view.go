package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/domain"
)

// txMode walks the create flow: the record needs a property and a buyer
// before the amount form makes sense, so creation is pick, pick, fill.
type txMode int

const (
	txList txMode = iota
	txPickProperty
	txPickBuyer
	txForm
)

type adminTxLoadedMsg struct {
	transactions []domain.Transaction
	totals       domain.TransactionTotals
	properties   []domain.Property
	buyers       []domain.User
	err          error
}

type adminTxSavedMsg struct {
	created bool
	err     error
}

type adminTxDeletedMsg struct {
	err error
}

// manageTransactionsView is the admin's full transaction ledger with
// manual create, edit and delete for offline or corrected sales.
type manageTransactionsView struct {
	app     *App
	table   table.Model
	loading bool

	transactions []domain.Transaction
	totals       domain.TransactionTotals
	properties   []domain.Property
	buyers       []domain.User

	mode       txMode
	pickIdx    int
	pickedProp *domain.Property
	pickedUser *domain.User
	form       *form
	editing    *domain.Transaction
	saving     bool
}

func newManageTransactionsView(app *App) *manageTransactionsView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Property", Width: 24},
			{Title: "Buyer", Width: 14},
			{Title: "Seller", Width: 14},
			{Title: "Amount", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return &manageTransactionsView{app: app, table: t, loading: true}
}

func (v *manageTransactionsView) Init() tea.Cmd {
	return v.fetch()
}

func (v *manageTransactionsView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		transactions, err := client.ListTransactions(context.Background())
		if err != nil {
			return adminTxLoadedMsg{err: err}
		}
		totals, err := client.TransactionTotals(context.Background())
		if err != nil {
			return adminTxLoadedMsg{err: err}
		}
		properties, err := client.ListProperties(context.Background(), domain.PropertyApproved)
		if err != nil {
			return adminTxLoadedMsg{err: err}
		}
		users, err := client.ListUsers(context.Background())
		if err != nil {
			return adminTxLoadedMsg{err: err}
		}
		var buyers []domain.User
		for _, u := range users {
			if u.Role == domain.RoleBuyer {
				buyers = append(buyers, u)
			}
		}
		return adminTxLoadedMsg{
			transactions: transactions,
			totals:       totals,
			properties:   properties,
			buyers:       buyers,
		}
	}
}

func (v *manageTransactionsView) selected() *domain.Transaction {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.transactions) {
		return nil
	}
	return &v.transactions[idx]
}

func (v *manageTransactionsView) openForm(tx *domain.Transaction) {
	v.form = newForm([]formField{
		{key: "amount", label: "Amount", placeholder: "e.g. 150000.00", required: true},
		{key: "date", label: "Date (YYYY-MM-DD)", required: true},
	})
	v.editing = tx
	v.mode = txForm
	if tx != nil {
		v.form.setValue("amount", string(tx.Amount))
		v.form.setValue("date", tx.TransactionDate.Format("2006-01-02"))
		return
	}
	if v.pickedProp != nil {
		v.form.setValue("amount", string(v.pickedProp.Price))
	}
	v.form.setValue("date", time.Now().Format("2006-01-02"))
}

func (v *manageTransactionsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case adminTxLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load transactions", msg.err.Error())
		}
		v.transactions = msg.transactions
		v.totals = msg.totals
		v.properties = msg.properties
		v.buyers = msg.buyers
		rows := make([]table.Row, 0, len(v.transactions))
		for _, tx := range v.transactions {
			rows = append(rows, table.Row{
				strconv.Itoa(tx.ID),
				tx.Property.Title,
				tx.Buyer.Username,
				tx.Seller.Username,
				"$" + string(tx.Amount),
				tx.TransactionDate.Format("2006-01-02"),
				string(tx.PaymentStatus),
			})
		}
		v.table.SetRows(rows)
		return nil

	case adminTxSavedMsg:
		v.saving = false
		if msg.err != nil {
			return notify(noticeError, "Save failed", msg.err.Error())
		}
		v.mode = txList
		v.loading = true
		title := "Transaction updated"
		if msg.created {
			title = "Transaction recorded"
		}
		v.app.setStatus(title)
		return tea.Batch(notify(noticeSuccess, title, "The ledger has been refreshed."), v.fetch())

	case adminTxDeletedMsg:
		if msg.err != nil {
			return notify(noticeError, "Delete failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus("Transaction deleted")
		return tea.Batch(notify(noticeSuccess, "Transaction deleted", "The record has been removed."), v.fetch())

	case tea.KeyMsg:
		switch v.mode {
		case txList:
			return v.handleListKey(msg)
		case txPickProperty, txPickBuyer:
			return v.handlePickKey(msg)
		case txForm:
			return v.handleFormKey(msg)
		}
	}
	if v.mode == txList {
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return cmd
	}
	return nil
}

func (v *manageTransactionsView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return gotoRoute(routeDashboard)
	case "c":
		if len(v.properties) == 0 {
			return notify(noticeWarning, "No approved listings", "A transaction needs an approved property.")
		}
		if len(v.buyers) == 0 {
			return notify(noticeWarning, "No buyers", "A transaction needs a buyer account.")
		}
		v.mode = txPickProperty
		v.pickIdx = 0
		v.pickedProp, v.pickedUser = nil, nil
		return nil
	case "e":
		if tx := v.selected(); tx != nil {
			v.openForm(tx)
		}
		return nil
	case "d":
		tx := v.selected()
		if tx == nil {
			return nil
		}
		client := v.app.client
		id := tx.ID
		return confirm(
			fmt.Sprintf("Delete transaction #%d? This cannot be undone.", id),
			func() tea.Msg {
				return adminTxDeletedMsg{err: client.DeleteTransaction(context.Background(), id)}
			},
		)
	case "r":
		v.loading = true
		return v.fetch()
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *manageTransactionsView) handlePickKey(msg tea.KeyMsg) tea.Cmd {
	count := len(v.properties)
	if v.mode == txPickBuyer {
		count = len(v.buyers)
	}
	switch msg.String() {
	case "esc":
		v.mode = txList
		return nil
	case "up", "k":
		if v.pickIdx > 0 {
			v.pickIdx--
		}
		return nil
	case "down", "j":
		if v.pickIdx < count-1 {
			v.pickIdx++
		}
		return nil
	case "enter":
		if v.mode == txPickProperty {
			v.pickedProp = &v.properties[v.pickIdx]
			v.mode = txPickBuyer
			v.pickIdx = 0
			return nil
		}
		v.pickedUser = &v.buyers[v.pickIdx]
		v.openForm(nil)
		return nil
	}
	return nil
}

func (v *manageTransactionsView) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	if msg.String() == "esc" {
		v.mode = txList
		return nil
	}
	submit, cmd := v.form.handleKey(msg)
	if !submit {
		return cmd
	}
	if missing := v.form.missing(); missing != "" {
		return notify(noticeWarning, "Missing field", missing+" is required.")
	}
	amount := v.form.value("amount")
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		return notify(noticeWarning, "Invalid form", "Amount must be a number.")
	}
	date := v.form.value("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return notify(noticeWarning, "Invalid form", "Date must look like 2026-08-28.")
	}

	tf := api.TransactionForm{Amount: amount, TransactionDate: date}
	if v.editing != nil {
		tf.Property = v.editing.Property.ID
		tf.Buyer = v.editing.Buyer.ID
	} else {
		tf.Property = v.pickedProp.ID
		tf.Buyer = v.pickedUser.ID
	}

	v.saving = true
	client := v.app.client
	editing := v.editing
	return func() tea.Msg {
		if editing == nil {
			return adminTxSavedMsg{created: true, err: client.CreateTransaction(context.Background(), tf)}
		}
		return adminTxSavedMsg{err: client.UpdateTransaction(context.Background(), editing.ID, tf)}
	}
}

func (v *manageTransactionsView) View() string {
	switch v.mode {
	case txPickProperty:
		return v.renderPicker("Pick a property", v.propertyLabels())
	case txPickBuyer:
		return v.renderPicker("Pick a buyer", v.buyerLabels())
	case txForm:
		title := "New transaction"
		if v.editing != nil {
			title = fmt.Sprintf("Edit transaction #%d", v.editing.ID)
		}
		hint := hintStyle.Render("enter on last field submits · esc cancel")
		if v.saving {
			hint = mutedStyle.Render("Saving…")
		}
		return titleStyle.Render(title) + "\n\n" + v.form.render() + "\n\n" + hint
	}

	head := titleStyle.Render("Manage transactions")
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading transactions…")
	}
	totals := mutedStyle.Render(fmt.Sprintf("%d completed sales · $%s total", v.totals.TotalCount, v.totals.TotalAmount))
	body := v.table.View()
	if len(v.transactions) == 0 {
		body = mutedStyle.Render("No transactions recorded.")
	}
	hint := hintStyle.Render("c create · e edit · d delete · r refresh · esc back")
	return head + "\n" + totals + "\n\n" + body + "\n\n" + hint
}

func (v *manageTransactionsView) propertyLabels() []string {
	labels := make([]string, len(v.properties))
	for i, p := range v.properties {
		labels[i] = fmt.Sprintf("%s · %s · $%s", p.Title, p.Seller.Username, p.Price)
	}
	return labels
}

func (v *manageTransactionsView) buyerLabels() []string {
	labels := make([]string, len(v.buyers))
	for i, u := range v.buyers {
		labels[i] = fmt.Sprintf("%s · %s", u.Username, u.Email)
	}
	return labels
}

func (v *manageTransactionsView) renderPicker(title string, labels []string) string {
	out := titleStyle.Render(title) + "\n"
	for i, label := range labels {
		cursor := "  "
		if i == v.pickIdx {
			cursor = "> "
			label = focusedStyle.Render(label)
		}
		out += cursor + label + "\n"
	}
	return out + "\n" + hintStyle.Render("↑/↓ choose · enter select · esc cancel")
}
