package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/tradepost/client"
)

func signTestToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
	})
	raw, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

// fakeServer answers login with a token and echoes auth state everywhere
// else.
func fakeServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if payload["password"] != "secret-password-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials provided"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})

	mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"transactions": []any{}})
	})

	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLogin(t *testing.T) {
	ctx := context.Background()
	token := signTestToken(t, "margo")
	srv := fakeServer(t, token)

	t.Run("login persists the token and flips the gate", func(t *testing.T) {
		storage := client.NewMemoryStorage()
		c, err := client.New(srv.URL, storage)
		require.NoError(t, err)
		assert.Equal(t, client.StateAnonymous, c.Gate().State())

		require.NoError(t, c.Login(ctx, "margo@example.com", "secret-password-1"))

		assert.Equal(t, client.StateAuthenticated, c.Gate().State())
		assert.Equal(t, "margo", c.Gate().Subject())

		stored, ok, err := storage.ReadString("session_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, token, stored)
	})

	t.Run("failed login stays anonymous", func(t *testing.T) {
		c, err := client.New(srv.URL, client.NewMemoryStorage())
		require.NoError(t, err)

		err = c.Login(ctx, "margo@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, client.StateAnonymous, c.Gate().State())
	})

	t.Run("failed re-login keeps the existing session", func(t *testing.T) {
		storage := client.NewMemoryStorage()
		require.NoError(t, storage.WriteString("session_token", token))

		c, err := client.New(srv.URL, storage)
		require.NoError(t, err)
		require.Equal(t, client.StateAuthenticated, c.Gate().State())

		err = c.Login(ctx, "margo@example.com", "wrong")
		require.Error(t, err)
		assert.NotErrorIs(t, err, client.ErrSessionExpired, "bad credentials are not session expiry")

		assert.Equal(t, client.StateAuthenticated, c.Gate().State(), "the old session survives")
		stored, ok, err := storage.ReadString("session_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, token, stored)
	})

	t.Run("a new client picks up a persisted session", func(t *testing.T) {
		storage := client.NewMemoryStorage()
		require.NoError(t, storage.WriteString("session_token", token))

		c, err := client.New(srv.URL, storage)
		require.NoError(t, err)

		assert.Equal(t, client.StateAuthenticated, c.Gate().State())
		assert.Equal(t, "margo", c.Gate().Subject())

		// and the persisted token actually works against the API
		_, err = c.Transactions(ctx)
		assert.NoError(t, err)
	})
}

func TestClientSessionExpiry(t *testing.T) {
	ctx := context.Background()
	token := signTestToken(t, "margo")
	srv := fakeServer(t, token)

	storage := client.NewMemoryStorage()
	require.NoError(t, storage.WriteString("session_token", "stale-token"))

	c, err := client.New(srv.URL, storage)
	require.NoError(t, err)
	require.Equal(t, client.StateAuthenticated, c.Gate().State())

	_, err = c.Transactions(ctx)
	assert.ErrorIs(t, err, client.ErrSessionExpired)

	assert.Equal(t, client.StateAnonymous, c.Gate().State(), "rejection drops the session")
	_, ok, err := storage.ReadString("session_token")
	require.NoError(t, err)
	assert.False(t, ok, "the stale token is removed from storage")

	// anonymous requests to public endpoints still work
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClientLogout(t *testing.T) {
	token := signTestToken(t, "margo")
	srv := fakeServer(t, token)

	storage := client.NewMemoryStorage()
	require.NoError(t, storage.WriteString("session_token", token))

	c, err := client.New(srv.URL, storage)
	require.NoError(t, err)
	require.Equal(t, client.StateAuthenticated, c.Gate().State())

	require.NoError(t, c.Logout())
	assert.Equal(t, client.StateAnonymous, c.Gate().State())

	_, ok, err := storage.ReadString("session_token")
	require.NoError(t, err)
	assert.False(t, ok)
}
