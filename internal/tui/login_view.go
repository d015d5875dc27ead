package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type loginResultMsg struct {
	ok bool
}

// loginView is the sign-in screen. A failed attempt never leaves a token
// behind, so retrying is always safe.
type loginView struct {
	app        *App
	form       *form
	submitting bool
}

func newLoginView(app *App) *loginView {
	return &loginView{
		app: app,
		form: newForm([]formField{
			{key: "username", label: "Username", required: true},
			{key: "password", label: "Password", kind: fieldPassword, required: true},
		}),
	}
}

func (v *loginView) Init() tea.Cmd { return nil }

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.submitting = false
		if !msg.ok {
			return notify(noticeWarning, "Sign in failed", "Check your username and password, then try again.")
		}
		v.app.setStatus("Signed in as " + v.app.guard.User().Username)
		return gotoRoute(routeDashboard)

	case tea.KeyMsg:
		if v.submitting {
			return nil
		}
		if msg.String() == "ctrl+r" {
			return gotoRoute(routeRegister)
		}
		submit, cmd := v.form.handleKey(msg)
		if !submit {
			return cmd
		}
		if missing := v.form.missing(); missing != "" {
			return notify(noticeWarning, "Missing field", missing+" is required.")
		}
		v.submitting = true
		username := v.form.value("username")
		password := v.form.value("password")
		return func() tea.Msg {
			return loginResultMsg{ok: v.app.guard.Login(context.Background(), username, password)}
		}
	}
	return nil
}

func (v *loginView) View() string {
	title := titleStyle.Render("Sign in")
	hint := hintStyle.Render("enter submit · ctrl+r create account · ctrl+c quit")
	if v.submitting {
		hint = mutedStyle.Render("Signing in…")
	}
	return title + "\n\n" + v.form.render() + "\n\n" + hint
}
