package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/domain"
)

type adminPropertiesLoadedMsg struct {
	properties []domain.Property
	err        error
}

type adminApproveMsg struct {
	title string
	err   error
}

type adminPropertyDeletedMsg struct {
	err error
}

// managePropertiesView is the admin's listing ledger across all sellers
// and statuses, with approve and delete.
type managePropertiesView struct {
	app        *App
	table      table.Model
	properties []domain.Property
	loading    bool
}

func newManagePropertiesView(app *App) *managePropertiesView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Title", Width: 24},
			{Title: "Address", Width: 22},
			{Title: "Price", Width: 12},
			{Title: "Seller", Width: 14},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &managePropertiesView{app: app, table: t, loading: true}
}

func (v *managePropertiesView) Init() tea.Cmd {
	return v.fetch()
}

func (v *managePropertiesView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		properties, err := client.ListProperties(context.Background(), "")
		return adminPropertiesLoadedMsg{properties: properties, err: err}
	}
}

func (v *managePropertiesView) selected() *domain.Property {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.properties) {
		return nil
	}
	return &v.properties[idx]
}

func (v *managePropertiesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case adminPropertiesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load properties", msg.err.Error())
		}
		v.properties = msg.properties
		rows := make([]table.Row, 0, len(v.properties))
		for _, p := range v.properties {
			rows = append(rows, table.Row{
				strconv.Itoa(p.ID),
				p.Title,
				p.Address,
				"$" + string(p.Price),
				p.Seller.Username,
				string(p.Status),
			})
		}
		v.table.SetRows(rows)
		return nil

	case adminApproveMsg:
		if msg.err != nil {
			return notify(noticeError, "Approval failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus(fmt.Sprintf("Approved %q", msg.title))
		return tea.Batch(
			notify(noticeSuccess, "Property approved", fmt.Sprintf("%q is now visible to buyers.", msg.title)),
			v.fetch(),
		)

	case adminPropertyDeletedMsg:
		if msg.err != nil {
			return notify(noticeError, "Delete failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus("Property deleted")
		return tea.Batch(notify(noticeSuccess, "Property deleted", "The listing has been removed."), v.fetch())

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return gotoRoute(routeDashboard)
		case "a":
			p := v.selected()
			if p == nil {
				return nil
			}
			if p.Status != domain.PropertyPending {
				return notify(noticeWarning, "Nothing to approve", "Only pending listings can be approved.")
			}
			client := v.app.client
			id, title := p.ID, p.Title
			return confirm(
				fmt.Sprintf("Approve %q for listing?", title),
				func() tea.Msg {
					return adminApproveMsg{title: title, err: client.ApproveProperty(context.Background(), id)}
				},
			)
		case "d":
			p := v.selected()
			if p == nil {
				return nil
			}
			client := v.app.client
			id := p.ID
			return confirm(
				fmt.Sprintf("Delete property %q? This cannot be undone.", p.Title),
				func() tea.Msg {
					return adminPropertyDeletedMsg{err: client.DeleteProperty(context.Background(), id)}
				},
			)
		case "r":
			v.loading = true
			return v.fetch()
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *managePropertiesView) View() string {
	head := titleStyle.Render("Manage properties")
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading properties…")
	}
	body := v.table.View()
	if len(v.properties) == 0 {
		body = mutedStyle.Render("No properties found.")
	}
	hint := hintStyle.Render("a approve · d delete · r refresh · esc back")
	return head + "\n\n" + body + "\n\n" + hint
}
