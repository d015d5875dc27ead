package domain

import "strings"

// User is the client-side copy of an account record. The API owns the
// authoritative version; this struct only mirrors what list and profile
// endpoints return.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	Image      string `json:"image,omitempty"`
	DateJoined Time   `json:"date_joined"`
}

// FullName joins the optional name parts, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// Contact returns the best reachable detail for display: phone, then email.
func (u User) Contact() string {
	if u.Phone != "" {
		return u.Phone
	}
	if u.Email != "" {
		return u.Email
	}
	return "N/A"
}
