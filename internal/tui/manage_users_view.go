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

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

type userSavedMsg struct {
	created bool
	err     error
}

type userDeletedMsg struct {
	err error
}

// manageUsersView is the admin's account directory with create, edit and
// delete. The signed-in admin cannot delete their own account from here.
type manageUsersView struct {
	app     *App
	table   table.Model
	users   []domain.User
	loading bool

	form    *form
	editing *domain.User
	roles   []domain.Role
	roleIdx int
	inForm  bool
	saving  bool
}

func newManageUsersView(app *App) *manageUsersView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Username", Width: 16},
			{Title: "Name", Width: 22},
			{Title: "Email", Width: 24},
			{Title: "Role", Width: 8},
			{Title: "Joined", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &manageUsersView{app: app, table: t, roles: domain.Roles(), loading: true}
}

func (v *manageUsersView) Init() tea.Cmd {
	return v.fetch()
}

func (v *manageUsersView) fetch() tea.Cmd {
	client := v.app.client
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (v *manageUsersView) openForm(u *domain.User) {
	v.form = newForm([]formField{
		{key: "username", label: "Username", required: true},
		{key: "email", label: "Email", required: true},
		{key: "first_name", label: "First name"},
		{key: "last_name", label: "Last name"},
		{key: "image", label: "Avatar (file path)", kind: fieldFilePath},
	})
	v.editing = u
	v.roleIdx = 0
	v.inForm = true
	if u != nil {
		v.form.setValue("username", u.Username)
		v.form.setValue("email", u.Email)
		v.form.setValue("first_name", u.FirstName)
		v.form.setValue("last_name", u.LastName)
		for i, r := range v.roles {
			if r == u.Role {
				v.roleIdx = i
			}
		}
	}
}

func (v *manageUsersView) selected() *domain.User {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.users) {
		return nil
	}
	return &v.users[idx]
}

func (v *manageUsersView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return notify(noticeError, "Could not load users", msg.err.Error())
		}
		v.users = msg.users
		rows := make([]table.Row, 0, len(v.users))
		for _, u := range v.users {
			rows = append(rows, table.Row{
				strconv.Itoa(u.ID),
				u.Username,
				u.FullName(),
				u.Email,
				string(u.Role),
				u.DateJoined.Format("2006-01-02"),
			})
		}
		v.table.SetRows(rows)
		return nil

	case userSavedMsg:
		v.saving = false
		if msg.err != nil {
			return notify(noticeError, "Save failed", msg.err.Error())
		}
		v.inForm = false
		v.loading = true
		title := "User updated"
		if msg.created {
			title = "User created"
		}
		v.app.setStatus(title)
		return tea.Batch(notify(noticeSuccess, title, "The account list has been refreshed."), v.fetch())

	case userDeletedMsg:
		if msg.err != nil {
			return notify(noticeError, "Delete failed", msg.err.Error())
		}
		v.loading = true
		v.app.setStatus("User deleted")
		return tea.Batch(notify(noticeSuccess, "User deleted", "The account has been removed."), v.fetch())

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

func (v *manageUsersView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return gotoRoute(routeDashboard)
	case "c":
		v.openForm(nil)
		return nil
	case "e":
		if u := v.selected(); u != nil {
			v.openForm(u)
		}
		return nil
	case "d":
		u := v.selected()
		if u == nil {
			return nil
		}
		if me := v.app.guard.User(); me != nil && me.ID == u.ID {
			return notify(noticeWarning, "Not allowed", "You cannot delete the account you are signed in with.")
		}
		client := v.app.client
		id := u.ID
		return confirm(
			fmt.Sprintf("Delete user %q? This cannot be undone.", u.Username),
			func() tea.Msg {
				return userDeletedMsg{err: client.DeleteUser(context.Background(), id)}
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

func (v *manageUsersView) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.inForm = false
		return nil
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
	image, err := v.form.attachment("image")
	if err != nil {
		return notify(noticeWarning, "Invalid form", err.Error())
	}
	uf := api.UserForm{
		Username:  v.form.value("username"),
		Email:     v.form.value("email"),
		FirstName: v.form.value("first_name"),
		LastName:  v.form.value("last_name"),
		Role:      v.roles[v.roleIdx],
		Image:     image,
	}
	v.saving = true
	client := v.app.client
	editing := v.editing
	return func() tea.Msg {
		if editing == nil {
			return userSavedMsg{created: true, err: client.CreateUser(context.Background(), uf)}
		}
		return userSavedMsg{err: client.UpdateUser(context.Background(), editing.ID, uf)}
	}
}

func (v *manageUsersView) View() string {
	if v.inForm {
		title := "New user"
		if v.editing != nil {
			title = "Edit user"
		}
		role := labelStyle.Render("Role") + "\n" + successStyle.Render(v.roles[v.roleIdx].Label())
		hint := hintStyle.Render("enter on last field submits · ctrl+t switch role · esc cancel")
		if v.saving {
			hint = mutedStyle.Render("Saving…")
		}
		return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", titleStyle.Render(title), v.form.render(), role, hint)
	}
	head := titleStyle.Render("Manage users")
	if v.loading {
		return head + "\n\n" + mutedStyle.Render("Loading users…")
	}
	body := v.table.View()
	if len(v.users) == 0 {
		body = mutedStyle.Render("No users found.")
	}
	hint := hintStyle.Render("c create · e edit · d delete · r refresh · esc back")
	return head + "\n\n" + body + "\n\n" + hint
}
