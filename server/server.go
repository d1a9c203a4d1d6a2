// Package server exposes the tradepost HTTP surface: public auth and
// listing routes, and guard-protected marketplace writes.
package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/tradepost/tradepost/auth"
	"github.com/tradepost/tradepost/market"
	"github.com/tradepost/tradepost/middleware/jwtware"
)

type Server struct {
	app    *fiber.App
	log    *slog.Logger
	auther *auth.Auther
	cfg    auth.Config
	market market.RepositoryManager
}

func New(auther *auth.Auther, cfg auth.Config, repo market.RepositoryManager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		log:    logger,
		auther: auther,
		cfg:    cfg,
		market: repo,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "tradepost",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// registerRoutes mounts the HTTP surface. Public routes bypass the guard
// entirely; protected routes are wrapped, never "soft-passed".
func (s *Server) registerRoutes() {
	guard := jwtware.New(jwtware.Config{
		TokenValidator: guardValidator{ts: s.auther.TokenService()},
		ContextKey:     s.cfg.GetContextKey(),
		TokenLookup:    s.cfg.GetTokenLookup(),
		AuthScheme:     s.cfg.GetAuthScheme(),
		ErrorHandler:   s.guardErrorHandler,
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(auth.AuthClaims); ok {
				return auth.WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})

	s.app.Post("/auth/login", s.LoginPost)
	s.app.Post("/auth/register", s.RegisterPost)

	s.app.Get("/items", s.ItemsList)
	s.app.Get("/items/:id", s.ItemShow)
	s.app.Post("/items", guard, s.ItemCreate)
	s.app.Put("/items/:id", guard, s.ItemUpdate)
	s.app.Delete("/items/:id", guard, s.ItemDelete)

	s.app.Get("/posts", s.PostsList)
	s.app.Post("/posts", guard, s.PostCreate)

	s.app.Get("/transactions", guard, s.TransactionsList)
	s.app.Post("/transactions", guard, s.TransactionCreate)
}

// guardValidator bridges auth.TokenService to the middleware's validator
// interface.
type guardValidator struct {
	ts auth.TokenService
}

func (v guardValidator) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := v.ts.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// currentClaims returns the verified identity the guard stored for this
// request. Handlers trust only this value, never a client-held flag.
func (s *Server) currentClaims(c *fiber.Ctx) (jwtware.AuthClaims, error) {
	claims, ok := c.Locals(s.cfg.GetContextKey()).(jwtware.AuthClaims)
	if !ok || claims == nil {
		return nil, auth.ErrUnableToFindSession
	}
	return claims, nil
}
