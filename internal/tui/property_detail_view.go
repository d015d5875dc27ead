package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/domain"
)

// detailState tracks where the buyer is in the purchase flow.
type detailState int

const (
	// detailBrowsing shows the listing with a buy action.
	detailBrowsing detailState = iota
	// detailPaying shows the payment-method selector after a purchase was
	// initiated server-side.
	detailPaying
	// detailSubmitting is the in-flight window for either request; all
	// controls, including cancel, are locked until the response lands.
	detailSubmitting
)

type propertyLoadedMsg struct {
	property *domain.Property
	err      error
}

type purchaseResultMsg struct {
	err error
}

type paymentResultMsg struct {
	err error
}

// propertyDetailView is the buyer's detail screen with the two-step
// buy flow: POST purchase creates the pending transaction, then POST
// process_payment completes it with the chosen method.
type propertyDetailView struct {
	app        *App
	propertyID int
	property   *domain.Property
	state      detailState
	// resume points at the state to restore when an in-flight request
	// finishes or fails.
	resume     detailState
	paymentIdx int
	methods    []domain.PaymentMethod
	loading    bool
}

func newPropertyDetailView(app *App, propertyID int) *propertyDetailView {
	return &propertyDetailView{
		app:        app,
		propertyID: propertyID,
		state:      detailBrowsing,
		paymentIdx: -1,
		methods:    domain.PaymentMethods(),
		loading:    true,
	}
}

func (v *propertyDetailView) Init() tea.Cmd {
	return v.fetch()
}

func (v *propertyDetailView) fetch() tea.Cmd {
	client := v.app.client
	id := v.propertyID
	return func() tea.Msg {
		property, err := client.GetProperty(context.Background(), id)
		return propertyLoadedMsg{property: property, err: err}
	}
}

func (v *propertyDetailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case propertyLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return tea.Batch(
				notify(noticeError, "Could not load property", msg.err.Error()),
				gotoRoute(routeDashboard),
			)
		}
		v.property = msg.property
		return nil

	case purchaseResultMsg:
		if msg.err != nil {
			v.state = detailBrowsing
			return notify(noticeError, "Purchase failed", msg.err.Error())
		}
		// Pending transaction exists; nothing is pre-selected on purpose.
		v.state = detailPaying
		v.paymentIdx = -1
		v.app.setStatus("Purchase initiated · choose a payment method")
		return notify(noticeInfo, "Purchase initiated", "The purchase is not final until payment completes. Select a payment method.")

	case paymentResultMsg:
		if msg.err != nil {
			v.state = detailPaying
			return notify(noticeError, "Payment failed", msg.err.Error())
		}
		v.state = detailBrowsing
		v.app.setStatus("Payment completed")
		// Status changed server-side; re-fetch so the sold badge shows.
		return tea.Batch(
			notify(noticeSuccess, "Payment successful", "The property is now yours. See it under your purchases."),
			v.fetch(),
		)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *propertyDetailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Re-entrancy guard: nothing is accepted while a request is in flight,
	// so double-pressing buy or pay can never fire twice.
	if v.state == detailSubmitting {
		return nil
	}

	switch v.state {
	case detailBrowsing:
		switch msg.String() {
		case "esc":
			return gotoRoute(routeDashboard)
		case "b":
			if v.property == nil || v.property.Status != domain.PropertyApproved {
				return notify(noticeWarning, "Not for sale", "This property is not available for purchase.")
			}
			v.resume = detailBrowsing
			v.state = detailSubmitting
			client := v.app.client
			id := v.propertyID
			return func() tea.Msg {
				return purchaseResultMsg{err: client.PurchaseProperty(context.Background(), id)}
			}
		}

	case detailPaying:
		switch msg.String() {
		case "esc":
			// The pending transaction stays on the server; the admin ledger
			// shows it until it is completed or cleaned up there.
			v.state = detailBrowsing
			v.paymentIdx = -1
			return nil
		case "up", "k":
			if v.paymentIdx <= 0 {
				v.paymentIdx = 0
			} else {
				v.paymentIdx--
			}
			return nil
		case "down", "j":
			if v.paymentIdx < len(v.methods)-1 {
				v.paymentIdx++
			}
			return nil
		case "enter":
			if v.paymentIdx < 0 {
				return notify(noticeWarning, "No payment method", "Select a payment method before confirming.")
			}
			method := v.methods[v.paymentIdx]
			v.resume = detailPaying
			v.state = detailSubmitting
			client := v.app.client
			id := v.propertyID
			return func() tea.Msg {
				return paymentResultMsg{err: client.ProcessPayment(context.Background(), id, method)}
			}
		}
	}
	return nil
}

func (v *propertyDetailView) View() string {
	if v.loading || v.property == nil {
		return mutedStyle.Render("Loading property…")
	}
	p := v.property

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("  ")
	b.WriteString(renderStatusBadge(p.Status))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Address: ") + p.Address + "\n")
	b.WriteString(labelStyle.Render("Price:   ") + successStyle.Render("$"+string(p.Price)) + "\n")
	b.WriteString(labelStyle.Render("Rooms:   ") + fmt.Sprintf("%d bed · %d bath", p.Bedrooms, p.Bathrooms) + "\n")
	b.WriteString(labelStyle.Render("Seller:  ") + p.Seller.FullName() + " · " + p.Seller.Contact() + "\n")
	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}
	if images := p.Images(); len(images) > 0 {
		b.WriteString("\n" + labelStyle.Render("Photos:") + "\n")
		for _, img := range images {
			b.WriteString("  " + mutedStyle.Render(v.app.client.ResolveMediaURL(img)) + "\n")
		}
	}

	switch v.state {
	case detailPaying:
		b.WriteString("\n" + v.renderMethodPicker())
		b.WriteString("\n" + hintStyle.Render("↑/↓ choose · enter confirm payment · esc cancel"))
	case detailSubmitting:
		if v.resume == detailPaying {
			b.WriteString("\n" + v.renderMethodPicker())
			b.WriteString("\n" + warningStyle.Render("Processing payment…"))
		} else {
			b.WriteString("\n" + warningStyle.Render("Initiating purchase…"))
		}
	default:
		if p.Status == domain.PropertyApproved {
			b.WriteString("\n" + hintStyle.Render("b buy this property · esc back"))
		} else {
			b.WriteString("\n" + hintStyle.Render("esc back"))
		}
	}
	return b.String()
}

func (v *propertyDetailView) renderMethodPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Payment method"))
	b.WriteString("\n")
	for i, m := range v.methods {
		cursor := "  "
		line := m.Label()
		if i == v.paymentIdx {
			cursor = "> "
			line = focusedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	if v.paymentIdx < 0 {
		b.WriteString(mutedStyle.Render("Nothing selected yet"))
	}
	return b.String()
}

func renderStatusBadge(status domain.PropertyStatus) string {
	switch status {
	case domain.PropertyApproved:
		return badgeApproved.Render("APPROVED")
	case domain.PropertySold:
		return badgeSold.Render("SOLD")
	default:
		return badgePending.Render("PENDING")
	}
}
