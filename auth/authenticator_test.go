package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/tradepost/auth"
)

func newTestConfig() MockConfig {
	return MockConfig{
		SigningKey: "test-signing-key",
		Issuer:     "tradepost-test",
		Audience:   []string{"tradepost-test"},
	}
}

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a usable token", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("3f6f3e5c-1f2a-4b52-93b6-55c7b9a4a111")
		identity.On("Username").Return("margo")
		identity.On("Role").Return("member")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "margo@example.com", "secret").Return(identity, nil)

		auther := auth.NewAuthenticator(provider, newTestConfig())

		token, err := auther.Login(ctx, "margo@example.com", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "3f6f3e5c-1f2a-4b52-93b6-55c7b9a4a111", session.GetUserID())
	})

	t.Run("provider error propagates", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "margo@example.com", "wrong").
			Return(nil, auth.ErrMismatchedHashAndPassword)

		auther := auth.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Login(ctx, "margo@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("nil identity maps to not found", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "margo@example.com", "secret").Return(nil, nil)

		auther := auth.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Login(ctx, "margo@example.com", "secret")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}

func TestAutherRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("without a registerer registration fails", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		auther := auth.NewAuthenticator(provider, newTestConfig())

		_, err := auther.Register(ctx, auth.RegisterUserMessage{
			Email:    "margo@example.com",
			Password: "secret-password-1",
		})
		assert.Error(t, err)
	})

	t.Run("invalid payload fails before hitting the store", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		auther := auth.NewAuthenticator(provider, newTestConfig()).
			WithAccountRegisterer(auth.NewAccountRegisterer(nil))

		_, err := auther.Register(ctx, auth.RegisterUserMessage{
			Email:    "not-an-email",
			Password: "secret-password-1",
		})
		assert.Error(t, err)
	})
}

func TestSessionFromToken(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := auth.NewAuthenticator(provider, newTestConfig())

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := auther.SessionFromToken("garbage")
		assert.Error(t, err)
	})

	t.Run("token from another key fails", func(t *testing.T) {
		other := auth.NewAuthenticator(provider, MockConfig{
			SigningKey: "different-key",
			Issuer:     "tradepost-test",
			Audience:   []string{"tradepost-test"},
		})

		identity := &MockIdentity{}
		identity.On("ID").Return("3f6f3e5c-1f2a-4b52-93b6-55c7b9a4a111")
		identity.On("Username").Return("margo")
		identity.On("Role").Return("member")

		token, err := other.TokenService().Generate(identity)
		require.NoError(t, err)

		_, err = auther.SessionFromToken(token)
		assert.Error(t, err)
	})
}
