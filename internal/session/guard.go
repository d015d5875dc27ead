// Package session holds the signed-in user and the stored access token.
// It is the single writer of auth state; every view reads through it.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/config"
	"github.com/dalali/dalali-cli/internal/domain"
	"github.com/dalali/dalali-cli/internal/logbook"
)

// Status is the auth state machine: a fresh process starts loading, then
// lands in exactly one of authenticated or anonymous. The only way back to
// loading is a new process.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusAnonymous
)

// Guard validates, stores, and clears the session. Not safe for concurrent
// mutation; the UI goroutine is the sole writer, which is why there is no
// lock here.
type Guard struct {
	client *api.Client
	cfg    *config.Config
	log    *logbook.Logbook

	status Status
	user   *domain.User
}

// New creates a guard in the loading state. Call Bootstrap before routing.
func New(client *api.Client, cfg *config.Config, log *logbook.Logbook) *Guard {
	return &Guard{client: client, cfg: cfg, log: log, status: StatusLoading}
}

// Status reports the current auth state.
func (g *Guard) Status() Status { return g.status }

// User returns the signed-in user, or nil when anonymous or loading.
func (g *Guard) User() *domain.User { return g.user }

// Role returns the signed-in user's role, or "" when there is none.
func (g *Guard) Role() domain.Role {
	if g.user == nil {
		return ""
	}
	return g.user.Role
}

// Bootstrap validates any stored token by fetching the current user. An
// invalid or expired token is cleared and the session lands anonymous;
// repeating bootstrap with a bad token always ends in the same place.
func (g *Guard) Bootstrap(ctx context.Context) Status {
	token := g.cfg.ReadToken()
	if token == "" {
		g.demote()
		return g.status
	}
	if tokenExpired(token, time.Now()) {
		g.log.Info("Stored token expired · clearing session")
		g.clearToken()
		g.demote()
		return g.status
	}
	g.client.SetToken(token)
	user, err := g.client.Me(ctx)
	if err != nil {
		// Expected when the token was revoked server-side; not surfaced
		// to the user.
		g.log.Info("Token validation failed · clearing session")
		g.clearToken()
		g.demote()
		return g.status
	}
	g.user = user
	g.status = StatusAuthenticated
	g.log.Info("Session restored · %s (%s)", user.Username, user.Role)
	return g.status
}

// Login exchanges credentials for a token and fetches the profile. It
// reports success or failure and never returns an error; a failed attempt
// leaves the session anonymous with nothing persisted.
func (g *Guard) Login(ctx context.Context, username, password string) bool {
	token, err := g.client.Login(ctx, username, password)
	if err != nil {
		g.log.Warn("Login failed for %s", username)
		g.demote()
		return false
	}
	g.client.SetToken(token)
	user, err := g.client.Me(ctx)
	if err != nil {
		g.log.Warn("Profile fetch after login failed: %v", err)
		g.clearToken()
		g.demote()
		return false
	}
	if err := g.cfg.SaveToken(token); err != nil {
		// The session still works for this run; only persistence failed.
		g.log.Warn("Token not persisted: %v", err)
	}
	g.user = user
	g.status = StatusAuthenticated
	g.log.Info("Signed in · %s (%s)", user.Username, user.Role)
	return true
}

// Register sends a new-account payload and reports success or failure.
func (g *Guard) Register(ctx context.Context, reg api.Registration) bool {
	if err := g.client.Register(ctx, reg); err != nil {
		g.log.Warn("Registration failed for %s: %v", reg.Username, err)
		return false
	}
	g.log.Info("Registered · %s (%s)", reg.Username, reg.Role)
	return true
}

// Logout clears the token and user state.
func (g *Guard) Logout() {
	if g.user != nil {
		g.log.Info("Signed out · %s", g.user.Username)
	}
	g.clearToken()
	g.demote()
}

func (g *Guard) demote() {
	g.user = nil
	g.status = StatusAnonymous
}

func (g *Guard) clearToken() {
	g.client.ClearToken()
	_ = g.cfg.ClearToken()
}

// tokenExpired reports whether the JWT's exp claim is already past. The
// signature is never checked here; the server remains the authority and a
// token without a readable exp claim goes through normal validation.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(now)
}
