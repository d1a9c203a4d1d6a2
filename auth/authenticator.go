package auth

import (
	"context"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
)

// Auther issues tokens for verified credentials. It holds no per-request
// state and never persists sessions server side; a token is the only
// artifact of a successful login.
type Auther struct {
	provider        IdentityProvider
	registry        AccountRegisterer
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithAccountRegisterer enables Register by providing the persistence hook.
func (s *Auther) WithAccountRegisterer(registry AccountRegisterer) *Auther {
	s.registry = registry
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, identifier, password); err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

// Register persists a new user and issues a token for it exactly as login
// would. Duplicate identifiers surface as ErrDuplicateIdentifier.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (string, error) {
	if s.registry == nil {
		return "", goerrors.New("account registerer not configured", goerrors.CategoryInternal)
	}

	if err := msg.Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	user, err := s.registry.RegisterUser(ctx, msg)
	if err != nil {
		s.logger.Error("Register user error", "error", err)
		return "", err
	}

	identity := authIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		username: user.Username,
		role:     string(user.Role),
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Register token generation error", "error", err)
		return "", err
	}

	return token, nil
}

func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, session.GetUserID())
	if err != nil {
		s.logger.Error("IdentityFromSession find identity by identifier", "error", err)
		return nil, err
	}

	return identity, nil
}

func (s Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}
