package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tradepost/tradepost/auth"
)

// MockIdentity implements auth.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockConfig implements auth.Config
type MockConfig struct {
	SigningKey      string
	ContextKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
}

func (m MockConfig) GetSigningKey() string    { return m.SigningKey }
func (m MockConfig) GetSigningMethod() string { return "HS256" }
func (m MockConfig) GetContextKey() string {
	if m.ContextKey == "" {
		return "user"
	}
	return m.ContextKey
}
func (m MockConfig) GetTokenExpiration() int {
	if m.TokenExpiration == 0 {
		return 24
	}
	return m.TokenExpiration
}
func (m MockConfig) GetTokenLookup() string { return "header:Authorization" }
func (m MockConfig) GetAuthScheme() string  { return "Bearer" }
func (m MockConfig) GetIssuer() string      { return m.Issuer }
func (m MockConfig) GetAudience() []string  { return m.Audience }

// MockUserTracker implements auth.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
