package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/domain"
)

type sellerPropertiesLoadedMsg struct {
	properties []domain.Property
	err        error
}

type propertySavedMsg struct {
	created bool
	err     error
}

type propertyDeletedMsg struct {
	err error
}

// sellerPropertiesView manages the seller's own listings. Sold listings
// are shown for reference but cannot be edited or deleted, and every
// mutation re-lists so the table never shows stale rows.
type sellerPropertiesView struct {
	app        *App
	table      table.Model
	properties []domain.Property
	loading    bool

	form    *form
	editing *domain.Property // nil while creating
	inForm  bool
	saving  bool
}

func newSellerPropertiesView(app *App) *sellerPropertiesView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 26},
			{Title: "Address", Width: 24},
			{Title: "Price", Width: 12},
			{Title: "Bed", Width: 4},
			{Title: "Bath", Width: 4},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return &sellerPropertiesView{app: app, table: t, loading: true}
}

func (v *sellerPropertiesView) Init() tea.Cmd {
	return v.fetch()
}

func (v *sellerPropertiesView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		properties, err := client.ListProperties(context.Background(), "")
		return sellerPropertiesLoadedMsg{properties: properties, err: err}
	}
}

func propertyFormFields() []formField {
	return []formField{
		{key: "title", label: "Title", required: true},
		{key: "address", label: "Address", required: true},
		{key: "price", label: "Price", placeholder: "e.g. 150000.00", required: true},
		{key: "description", label: "Description"},
		{key: "bedrooms", label: "Bedrooms", placeholder: "0", required: true},
		{key: "bathrooms", label: "Bathrooms", placeholder: "0", required: true},
		{key: "image1", label: "Image 1 (file path)", kind: fieldFilePath},
		{key: "image2", label: "Image 2 (file path)", kind: fieldFilePath},
		{key: "image3", label: "Image 3 (file path)", kind: fieldFilePath},
	}
}

func (v *sellerPropertiesView) openForm(p *domain.Property) {
	v.form = newForm(propertyFormFields())
	v.editing = p
	v.inForm = true
	if p != nil {
		v.form.setValue("title", p.Title)
		v.form.setValue("address", p.Address)
		v.form.setValue("price", string(p.Price))
		v.form.setValue("description", p.Description)
		v.form.setValue("bedrooms", strconv.Itoa(p.Bedrooms))
		v.form.setValue("bathrooms", strconv.Itoa(p.Bathrooms))
	}
}

func (v *sellerPropertiesView) buildForm() (api.PropertyForm, error) {
	bedrooms, err := strconv.Atoi(v.form.value("bedrooms"))
	if err != nil {
		return api.PropertyForm{}, fmt.Errorf("bedrooms must be a number")
	}
	bathrooms, err := strconv.Atoi(v.form.value("bathrooms"))
	if err != nil {
		return api.PropertyForm{}, fmt.Errorf("bathrooms must be a number")
	}
	if _, err := strconv.ParseFloat(v.form.value("price"), 64); err != nil {
		return api.PropertyForm{}, fmt.Errorf("price must be a number")
	}
	pf := api.PropertyForm{
		Title:       v.form.value("title"),
		Address:     v.form.value("address"),
		Price:       v.form.value("price"),
		Description: v.form.value("description"),
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
	}
	for _, key := range []string{"image1", "image2", "image3"} {
		att, err := v.form.attachment(key)
		if err != nil {
			return api.PropertyForm{}, err
		}
		if att != nil {
			pf.Images = append(pf.Images, *att)
		}
	}
	return pf, nil
}

func (v *sellerPropertiesView) selected() *domain.Property {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.properties) {
		return nil
	}
	return &v.properties[idx]
}

func (v *sellerPropertiesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sellerPropertiesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load listings", msg.err.Error())
		}
		me := v.app.guard.User()
		v.properties = v.properties[:0]
		for _, p := range msg.properties {
			if me != nil && p.Seller.ID == me.ID {
				v.properties = append(v.properties, p)
			}
		}
		rows := make([]table.Row, 0, len(v.properties))
		for _, p := range v.properties {
			rows = append(rows, table.Row{
				p.Title,
				p.Address,
				"$" + string(p.Price),
				strconv.Itoa(p.Bedrooms),
				strconv.Itoa(p.Bathrooms),
				string(p.Status),
			})
		}
		v.table.SetRows(rows)
		return nil

	case propertySavedMsg:
		v.saving = false
		if msg.err != nil {
			return notify(noticeError, "Save failed", msg.err.Error())
		}
		v.inForm = false
		v.loading = true
		title, text := "Listing updated", "Your changes have been saved."
		if msg.created {
			title, text = "Listing submitted", "Your listing is awaiting admin approval."
		}
		v.app.setStatus(title)
		return tea.Batch(notify(noticeSuccess, title, text), v.fetch())

	case propertyDeletedMsg:
		if msg.err != nil {
			return notify(noticeError, "Delete failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus("Listing deleted")
		return tea.Batch(notify(noticeSuccess, "Listing deleted", "The listing has been removed."), v.fetch())

	case tea.KeyMsg:
		if v.inForm {
			return v.handleFormKey(msg)
		}
		return v.handleListKey(msg)
	}
	if !v.inForm {
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return cmd
	}
	return nil
}

func (v *sellerPropertiesView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return gotoRoute(routeDashboard)
	case "c":
		v.openForm(nil)
		return nil
	case "e":
		p := v.selected()
		if p == nil {
			return nil
		}
		if p.Status == domain.PropertySold {
			return notify(noticeWarning, "Already sold", "Sold listings cannot be edited.")
		}
		v.openForm(p)
		return nil
	case "d":
		p := v.selected()
		if p == nil {
			return nil
		}
		if p.Status == domain.PropertySold {
			return notify(noticeWarning, "Already sold", "Sold listings cannot be deleted.")
		}
		client := v.app.client
		id := p.ID
		return confirm(
			fmt.Sprintf("Delete listing %q? This cannot be undone.", p.Title),
			func() tea.Msg {
				return propertyDeletedMsg{err: client.DeleteProperty(context.Background(), id)}
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

func (v *sellerPropertiesView) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	if msg.String() == "esc" {
		v.inForm = false
		return nil
	}
	submit, cmd := v.form.handleKey(msg)
	if !submit {
		return cmd
	}
	if missing := v.form.missing(); missing != "" {
		return notify(noticeWarning, "Missing field", missing+" is required.")
	}
	pf, err := v.buildForm()
	if err != nil {
		return notify(noticeWarning, "Invalid form", err.Error())
	}
	v.saving = true
	client := v.app.client
	editing := v.editing
	return func() tea.Msg {
		if editing == nil {
			return propertySavedMsg{created: true, err: client.CreateProperty(context.Background(), pf)}
		}
		return propertySavedMsg{err: client.UpdateProperty(context.Background(), editing.ID, pf)}
	}
}

func (v *sellerPropertiesView) View() string {
	if v.inForm {
		title := "New listing"
		if v.editing != nil {
			title = "Edit listing"
		}
		hint := hintStyle.Render("enter on last field submits · esc cancel")
		if v.saving {
			hint = mutedStyle.Render("Saving…")
		}
		return titleStyle.Render(title) + "\n\n" + v.form.render() + "\n\n" + hint
	}
	head := titleStyle.Render("My listings")
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading listings…")
	}
	body := v.table.View()
	if len(v.properties) == 0 {
		body = mutedStyle.Render("No listings yet. Press c to create your first one.")
	}
	hint := hintStyle.Render("c create · e edit · d delete · r refresh · esc back")
	return head + "\n\n" + body + "\n\n" + hint
}
