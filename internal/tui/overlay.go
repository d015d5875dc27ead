package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// noticeKind mirrors the alert flavors the views raise.
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeWarning
	noticeError
)

// showNoticeMsg asks the app to display a blocking acknowledgment. Views
// return it as a tea.Msg; the app swallows all input until dismissed.
type showNoticeMsg struct {
	kind  noticeKind
	title string
	text  string
}

// showConfirmMsg asks the app to display a yes/no dialog. confirmed runs
// only when the user accepts.
type showConfirmMsg struct {
	prompt    string
	confirmed tea.Cmd
}

func notify(kind noticeKind, title, text string) tea.Cmd {
	return func() tea.Msg {
		return showNoticeMsg{kind: kind, title: title, text: text}
	}
}

func confirm(prompt string, confirmed tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return showConfirmMsg{prompt: prompt, confirmed: confirmed}
	}
}

// overlay is the modal layer: at most one notice or confirm is active at a
// time, rendered instead of the body so it blocks everything behind it.
type overlay struct {
	notice  *showNoticeMsg
	confirm *showConfirmMsg
}

func (o *overlay) active() bool {
	return o.notice != nil || o.confirm != nil
}

// handleKey consumes a key press while the overlay is up. The returned cmd
// is non-nil only when a confirm dialog was accepted.
func (o *overlay) handleKey(msg tea.KeyMsg) tea.Cmd {
	if o.notice != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			o.notice = nil
		}
		return nil
	}
	if o.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := o.confirm.confirmed
			o.confirm = nil
			return cmd
		case "n", "N", "esc":
			o.confirm = nil
		}
		return nil
	}
	return nil
}

func (o *overlay) render(width int) string {
	if o.notice != nil {
		return o.renderNotice(width)
	}
	if o.confirm != nil {
		return o.renderConfirm(width)
	}
	return ""
}

func (o *overlay) renderNotice(width int) string {
	var head string
	switch o.notice.kind {
	case noticeSuccess:
		head = successStyle.Render("✔ " + o.notice.title)
	case noticeWarning:
		head = warningStyle.Render("⚠ " + o.notice.title)
	case noticeError:
		head = errorTextStyle.Render("✖ " + o.notice.title)
	default:
		head = infoStyle.Render("ℹ " + o.notice.title)
	}
	body := lipgloss.NewStyle().Width(max(24, min(60, width-8))).Render(o.notice.text)
	hint := hintStyle.Render("Enter → dismiss")
	return panelStyle.Render(strings.Join([]string{head, body, hint}, "\n"))
}

func (o *overlay) renderConfirm(width int) string {
	head := warningStyle.Render("Confirm")
	body := lipgloss.NewStyle().Width(max(24, min(60, width-8))).Render(o.confirm.prompt)
	hint := hintStyle.Render("y → yes    n → no")
	return panelStyle.Render(strings.Join([]string{head, body, hint}, "\n"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
