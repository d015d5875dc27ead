package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/domain"
)

type listingsLoadedMsg struct {
	properties []domain.Property
	err        error
}

// buyerBrowseView is the buyer's home screen: the approved listings the
// marketplace is currently offering.
type buyerBrowseView struct {
	app        *App
	table      table.Model
	properties []domain.Property
	loading    bool
}

func newBuyerBrowseView(app *App) *buyerBrowseView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 28},
			{Title: "Address", Width: 26},
			{Title: "Price", Width: 12},
			{Title: "Bed", Width: 4},
			{Title: "Bath", Width: 4},
			{Title: "Seller", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &buyerBrowseView{app: app, table: t, loading: true}
}

func (v *buyerBrowseView) Init() tea.Cmd {
	return v.fetch()
}

func (v *buyerBrowseView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		properties, err := client.ListProperties(context.Background(), domain.PropertyApproved)
		return listingsLoadedMsg{properties: properties, err: err}
	}
}

func (v *buyerBrowseView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listingsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load listings", msg.err.Error())
		}
		v.properties = msg.properties
		rows := make([]table.Row, 0, len(v.properties))
		for _, p := range v.properties {
			rows = append(rows, table.Row{
				p.Title,
				p.Address,
				"$" + string(p.Price),
				fmt.Sprintf("%d", p.Bedrooms),
				fmt.Sprintf("%d", p.Bathrooms),
				p.Seller.Username,
			})
		}
		v.table.SetRows(rows)
		v.app.setStatus(fmt.Sprintf("%d listings available", len(rows)))
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if idx := v.table.Cursor(); idx >= 0 && idx < len(v.properties) {
				return gotoProperty(v.properties[idx].ID)
			}
			return nil
		case "t":
			return gotoRoute(routeBuyerTransactions)
		case "r":
			v.loading = true
			return v.fetch()
		case "q":
			return requestLogout()
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *buyerBrowseView) View() string {
	title := titleStyle.Render("Available properties")
	body := v.table.View()
	if v.loading {
		body = mutedStyle.Render("Loading listings…")
	} else if len(v.properties) == 0 {
		body = mutedStyle.Render("No approved listings right now. Check back later.")
	}
	hint := hintStyle.Render("enter view · t my purchases · r refresh · q sign out")
	return title + "\n\n" + body + "\n\n" + hint
}
