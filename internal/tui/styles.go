package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0AEC0"))

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7B801")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)

	badgePending = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7B801"))

	badgeApproved = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50"))

	badgeSold = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	kpiCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2).
			MarginRight(1)
)
