package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalali/dalali-cli/internal/api"
	"github.com/dalali/dalali-cli/internal/config"
)

const meBody = `{"id":1,"username":"asha","email":"asha@example.com","role":"buyer","date_joined":"2026-08-01T09:00:00Z"}`

func newGuard(t *testing.T, handler http.HandlerFunc) (*Guard, *config.Config) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	baseDir := t.TempDir()
	require.NoError(t, config.Init(baseDir))
	cfg, err := config.Load(baseDir)
	require.NoError(t, err)

	client := api.New(api.Config{BaseURL: server.URL})
	return New(client, cfg, nil), cfg
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestGuardStartsLoading(t *testing.T) {
	g, _ := newGuard(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, StatusLoading, g.Status())
	assert.Nil(t, g.User())
	assert.Empty(t, g.Role())
}

func TestBootstrapWithoutTokenIsAnonymous(t *testing.T) {
	var hits int
	g, _ := newGuard(t, func(w http.ResponseWriter, r *http.Request) { hits++ })

	status := g.Bootstrap(context.Background())
	assert.Equal(t, StatusAnonymous, status)
	assert.Zero(t, hits, "no token means no validation request")
}

func TestBootstrapExpiredTokenClearsAndStaysAnonymous(t *testing.T) {
	var hits int
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) { hits++ })
	require.NoError(t, cfg.SaveToken(signedToken(t, time.Now().Add(-time.Hour))))

	assert.Equal(t, StatusAnonymous, g.Bootstrap(context.Background()))
	assert.Zero(t, hits, "expired token is dropped before any request")
	assert.Empty(t, cfg.ReadToken())

	// Running bootstrap again lands in the same place.
	assert.Equal(t, StatusAnonymous, g.Bootstrap(context.Background()))
}

func TestBootstrapRevokedTokenClearsAndStaysAnonymous(t *testing.T) {
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid token"}`))
	})
	require.NoError(t, cfg.SaveToken(signedToken(t, time.Now().Add(time.Hour))))

	assert.Equal(t, StatusAnonymous, g.Bootstrap(context.Background()))
	assert.Empty(t, cfg.ReadToken(), "revoked token must not be kept")
	assert.Nil(t, g.User())
}

func TestBootstrapValidTokenRestoresSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me/", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(meBody))
	})
	require.NoError(t, cfg.SaveToken(token))

	assert.Equal(t, StatusAuthenticated, g.Bootstrap(context.Background()))
	require.NotNil(t, g.User())
	assert.Equal(t, "asha", g.User().Username)
	assert.Equal(t, token, cfg.ReadToken())
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			_, _ = w.Write([]byte(`{"access":"fresh-token"}`))
		case "/api/users/me/":
			_, _ = w.Write([]byte(meBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.True(t, g.Login(context.Background(), "asha", "secret"))
	assert.Equal(t, StatusAuthenticated, g.Status())
	assert.Equal(t, "fresh-token", cfg.ReadToken())
	assert.Equal(t, "asha", g.User().Username)
}

func TestLoginFailurePersistsNothing(t *testing.T) {
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found"}`))
	})

	assert.False(t, g.Login(context.Background(), "asha", "wrong"))
	assert.Equal(t, StatusAnonymous, g.Status())
	assert.Nil(t, g.User())
	assert.Empty(t, cfg.ReadToken())
}

func TestLoginProfileFetchFailureRollsBack(t *testing.T) {
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login/" {
			_, _ = w.Write([]byte(`{"access":"half-token"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.False(t, g.Login(context.Background(), "asha", "secret"))
	assert.Equal(t, StatusAnonymous, g.Status())
	assert.Empty(t, cfg.ReadToken(), "a half-completed login must not keep a token")
}

func TestLogoutClearsEverything(t *testing.T) {
	g, cfg := newGuard(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			_, _ = w.Write([]byte(`{"access":"tok"}`))
		case "/api/users/me/":
			_, _ = w.Write([]byte(meBody))
		}
	})
	require.True(t, g.Login(context.Background(), "asha", "secret"))

	g.Logout()
	assert.Equal(t, StatusAnonymous, g.Status())
	assert.Nil(t, g.User())
	assert.Empty(t, cfg.ReadToken())
}

func TestTokenExpired(t *testing.T) {
	assert.True(t, tokenExpired(signedToken(t, time.Now().Add(-time.Minute)), time.Now()))
	assert.False(t, tokenExpired(signedToken(t, time.Now().Add(time.Minute)), time.Now()))
	// Unparseable tokens defer to server-side validation.
	assert.False(t, tokenExpired("not-a-jwt", time.Now()))
}
