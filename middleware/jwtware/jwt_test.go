package jwtware_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/tradepost/middleware/jwtware"
)

type stubClaims struct {
	subject string
	userID  string
	role    string
}

func (s stubClaims) Subject() string { return s.subject }
func (s stubClaims) UserID() string  { return s.userID }
func (s stubClaims) Role() string    { return s.role }

// stubValidator accepts exactly one token
type stubValidator struct {
	accept string
	claims stubClaims
}

func (v stubValidator) Validate(raw string) (jwtware.AuthClaims, error) {
	if raw == v.accept {
		return v.claims, nil
	}
	return nil, errors.New("token validation failed")
}

func newGuardedApp(validator jwtware.TokenValidator) *fiber.App {
	app := fiber.New()

	app.Get("/protected", jwtware.New(jwtware.Config{
		TokenValidator: validator,
	}), func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(jwtware.AuthClaims)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(claims.Subject())
	})

	return app
}

func TestGuard(t *testing.T) {
	validator := stubValidator{
		accept: "good-token",
		claims: stubClaims{subject: "margo", userID: "uid-1", role: "member"},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic good-token",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer nonsense",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "valid token reaches the handler with claims",
			header:     "Bearer good-token",
			wantStatus: fiber.StatusOK,
			wantBody:   "margo",
		},
	}

	app := newGuardedApp(validator)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatus, res.StatusCode)

			if tt.wantBody != "" {
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestGuardFilter(t *testing.T) {
	app := fiber.New()

	app.Get("/maybe", jwtware.New(jwtware.Config{
		TokenValidator: stubValidator{accept: "good-token"},
		Filter: func(c *fiber.Ctx) bool {
			return c.Query("skip") == "1"
		},
	}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	res, err := app.Test(httptest.NewRequest("GET", "/maybe?skip=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGetExtractors(t *testing.T) {
	app := fiber.New()

	app.Get("/q", jwtware.New(jwtware.Config{
		TokenValidator: stubValidator{accept: "good-token", claims: stubClaims{subject: "margo"}},
		TokenLookup:    "query:auth_token",
	}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	res, err := app.Test(httptest.NewRequest("GET", "/q?auth_token=good-token", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/q", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGetDefaultConfigPanicsWithoutValidator(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.GetDefaultConfig(jwtware.Config{})
	})
}
