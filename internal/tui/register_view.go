package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/domain"
)

type registerResultMsg struct {
	ok bool
}

// registerView creates an account as buyer or seller. Admin accounts are
// provisioned server-side, so the role picker only cycles the public pair.
type registerView struct {
	app        *App
	form       *form
	roles      []domain.Role
	roleIdx    int
	submitting bool
}

func newRegisterView(app *App) *registerView {
	return &registerView{
		app: app,
		form: newForm([]formField{
			{key: "username", label: "Username", required: true},
			{key: "email", label: "Email", required: true},
			{key: "first_name", label: "First name"},
			{key: "last_name", label: "Last name"},
			{key: "password", label: "Password", kind: fieldPassword, required: true},
		}),
		roles: []domain.Role{domain.RoleBuyer, domain.RoleSeller},
	}
}

func (v *registerView) Init() tea.Cmd { return nil }

func (v *registerView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case registerResultMsg:
		v.submitting = false
		if !msg.ok {
			return notify(noticeError, "Registration failed", "The account could not be created. The username or email may already be taken.")
		}
		v.app.setStatus("Account created · please sign in")
		return tea.Batch(
			notify(noticeSuccess, "Account created", "You can sign in with your new credentials now."),
			gotoRoute(routeLogin),
		)

	case tea.KeyMsg:
		if v.submitting {
			return nil
		}
		switch msg.String() {
		case "esc":
			return gotoRoute(routeLogin)
		case "ctrl+t":
			v.roleIdx = (v.roleIdx + 1) % len(v.roles)
			return nil
		}
		submit, cmd := v.form.handleKey(msg)
		if !submit {
			return cmd
		}
		if missing := v.form.missing(); missing != "" {
			return notify(noticeWarning, "Missing field", missing+" is required.")
		}
		v.submitting = true
		reg := api.Registration{
			Username:  v.form.value("username"),
			Email:     v.form.value("email"),
			Password:  v.form.value("password"),
			FirstName: v.form.value("first_name"),
			LastName:  v.form.value("last_name"),
			Role:      v.roles[v.roleIdx],
		}
		return func() tea.Msg {
			return registerResultMsg{ok: v.app.guard.Register(context.Background(), reg)}
		}
	}
	return nil
}

func (v *registerView) View() string {
	title := titleStyle.Render("Create account")
	role := labelStyle.Render("Role") + "\n" + successStyle.Render(v.roles[v.roleIdx].Label())
	hint := hintStyle.Render("enter submit · ctrl+t switch role · esc back to sign in")
	if v.submitting {
		hint = mutedStyle.Render("Creating account…")
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, v.form.render(), role, hint)
}
