// internal/tui/app.go
//
// Root model of the marketplace terminal client, built on bubbletea's
// model/update/view loop. The App owns the session guard, the active
// screen, and the modal overlay; screens never talk to each other
// directly, they emit messages the App routes.

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/config"
	"github.com/dalali/dalali-cli/internal/domain"
	"github.com/dalali/dalali-cli/internal/logbook"
	"github.com/dalali/dalali-cli/internal/session"
)

// route identifies which "screen" we're on.
type route int

const (
	routeLogin route = iota
	routeRegister
	routeDashboard
	routePropertyDetail
	routeBuyerTransactions
	routeSellerProperties
	routeManageUsers
	routeManageProperties
	routeManageTransactions
)

// view is one screen: it owns its fetches and its local state, and hands
// key and result messages back as commands, the same shape as the app.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// bootstrapDoneMsg reports the result of startup token validation.
type bootstrapDoneMsg struct {
	status session.Status
}

// navigateMsg moves the app to another screen. propertyID is only set for
// the detail route.
type navigateMsg struct {
	route      route
	propertyID int
}

// logoutMsg is raised by any view's logout action.
type logoutMsg struct{}

func gotoRoute(r route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r} }
}

func gotoProperty(id int) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: routePropertyDetail, propertyID: id} }
}

func requestLogout() tea.Cmd {
	return func() tea.Msg { return logoutMsg{} }
}

// App is the main application model. In bubbletea, this holds ALL state:
// the session guard, the active screen, and the modal overlay.
type App struct {
	cfg     *config.Config
	client  *api.Client
	guard   *session.Guard
	logbook *logbook.Logbook

	booting bool
	spin    spinner.Model
	route   route
	current view
	overlay overlay

	statusMsg     string
	lastLogStatus string

	width  int
	height int
}

// NewApp wires the client stack and returns the root model. baseDir is the
// directory that holds (or will hold) the .dalali folder.
func NewApp(baseDir string) (*App, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}
	logPath := cfg.LogPath()
	lb, err := logbook.New(logPath)
	if err != nil {
		return nil, err
	}
	client := api.New(api.Config{
		BaseURL: cfg.APIURL(),
		Timeout: cfg.Timeout(),
		Logbook: lb,
	})
	guard := session.New(client, cfg, lb)
	lb.Info("Session opened · API %s", cfg.APIURL())

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = focusedStyle

	return &App{
		cfg:     cfg,
		client:  client,
		guard:   guard,
		logbook: lb,
		booting: true,
		spin:    spin,
		route:   routeLogin,
	}, nil
}

// Guard exposes the session guard to views.
func (a *App) Guard() *session.Guard { return a.guard }

// Init kicks off startup token validation. Route guards defer their
// decision until it lands, so an expiring token never flashes a redirect.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spin.Tick,
		func() tea.Msg {
			return bootstrapDoneMsg{status: a.guard.Bootstrap(context.Background())}
		},
	)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.current != nil {
			return a, a.current.Update(msg)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.booting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case bootstrapDoneMsg:
		a.booting = false
		if msg.status == session.StatusAuthenticated {
			return a, a.navigate(routeDashboard, 0)
		}
		return a, a.navigate(routeLogin, 0)

	case navigateMsg:
		return a, a.navigate(msg.route, msg.propertyID)

	case logoutMsg:
		a.guard.Logout()
		a.setStatus("Signed out")
		return a, a.navigate(routeLogin, 0)

	case showNoticeMsg:
		m := msg
		a.overlay.notice = &m
		return a, nil

	case showConfirmMsg:
		m := msg
		a.overlay.confirm = &m
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.overlay.active() {
			return a, a.overlay.handleKey(msg)
		}
	}

	if a.current != nil {
		return a, a.current.Update(msg)
	}
	return a, nil
}

// navigate applies the route-guard policy and mounts the target view.
func (a *App) navigate(target route, propertyID int) tea.Cmd {
	if a.booting {
		// Guard decision deferred until bootstrap lands.
		return nil
	}
	resolved := a.guardRoute(target)
	a.route = resolved
	a.current = a.buildView(resolved, propertyID)
	if a.current == nil {
		return nil
	}
	return a.current.Init()
}

// guardRoute resolves where a navigation request actually lands:
// anonymous users go to login, signed-in users skip the auth screens, and
// a role mismatch falls back to the role's own dashboard.
func (a *App) guardRoute(target route) route {
	authenticated := a.guard.Status() == session.StatusAuthenticated
	if !authenticated {
		switch target {
		case routeLogin, routeRegister:
			return target
		default:
			return routeLogin
		}
	}
	switch target {
	case routeLogin, routeRegister:
		return routeDashboard
	case routeManageUsers, routeManageProperties, routeManageTransactions:
		if a.guard.Role() != domain.RoleAdmin {
			return routeDashboard
		}
	case routePropertyDetail:
		if a.guard.Role() != domain.RoleBuyer {
			return routeDashboard
		}
	case routeSellerProperties:
		if a.guard.Role() != domain.RoleSeller {
			return routeDashboard
		}
	case routeBuyerTransactions:
		if a.guard.Role() == domain.RoleAdmin {
			// Admins read the full ledger through management instead.
			return routeManageTransactions
		}
	}
	return target
}

func (a *App) buildView(r route, propertyID int) view {
	switch r {
	case routeLogin:
		return newLoginView(a)
	case routeRegister:
		return newRegisterView(a)
	case routeDashboard:
		return a.dashboardView()
	case routePropertyDetail:
		return newPropertyDetailView(a, propertyID)
	case routeBuyerTransactions:
		scope := transactionsForBuyer
		if a.guard.Role() == domain.RoleSeller {
			scope = transactionsForSeller
		}
		return newTransactionsView(a, scope)
	case routeSellerProperties:
		return newSellerPropertiesView(a)
	case routeManageUsers:
		return newManageUsersView(a)
	case routeManageProperties:
		return newManagePropertiesView(a)
	case routeManageTransactions:
		return newManageTransactionsView(a)
	}
	return newLoginView(a)
}

// dashboardView dispatches on the closed role set. Adding a role without a
// dashboard is a compile-visible gap here, not a silent default screen.
func (a *App) dashboardView() view {
	switch a.guard.Role() {
	case domain.RoleAdmin:
		return newAdminHomeView(a)
	case domain.RoleSeller:
		return newSellerHomeView(a)
	case domain.RoleBuyer:
		return newBuyerBrowseView(a)
	}
	// Unknown role on the wire: treat the session as unusable.
	a.guard.Logout()
	return newLoginView(a)
}

func (a *App) setStatus(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	a.statusMsg = message
	a.logProgress(message)
}

func (a *App) logProgress(status string) {
	if status == "" || status == a.lastLogStatus {
		return
	}
	a.lastLogStatus = status
	a.logbook.Info("%s", status)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := headerStyle.Render("⌂ DALALI · House Marketplace")
	var body string
	switch {
	case a.overlay.active():
		body = a.overlay.render(width)
	case a.booting:
		body = a.spin.View() + " " + mutedStyle.Render("Validating session…")
	case a.current != nil:
		body = a.current.View()
	default:
		body = mutedStyle.Render("Loading…")
	}
	boxed := panelStyle.Width(max(40, width-2)).Render(body)
	sections := []string{header, boxed}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}
