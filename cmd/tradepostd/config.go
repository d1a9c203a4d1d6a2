package main

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config is the daemon configuration, populated from TRADEPOST_* environment
// variables. It satisfies auth.Config so the same value drives the token
// service and the guard.
type Config struct {
	Addr            string   `env:"TRADEPOST_ADDR" envDefault:":3000"`
	DSN             string   `env:"TRADEPOST_DSN" envDefault:"file:tradepost.db?cache=shared&mode=rwc"`
	SigningKey      string   `env:"TRADEPOST_SIGNING_KEY"`
	SigningMethod   string   `env:"TRADEPOST_SIGNING_METHOD" envDefault:"HS256"`
	ContextKey      string   `env:"TRADEPOST_CONTEXT_KEY" envDefault:"user"`
	TokenExpiration int      `env:"TRADEPOST_TOKEN_EXPIRATION" envDefault:"24"`
	TokenLookup     string   `env:"TRADEPOST_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string   `env:"TRADEPOST_AUTH_SCHEME" envDefault:"Bearer"`
	Issuer          string   `env:"TRADEPOST_ISSUER" envDefault:"tradepost"`
	Audience        []string `env:"TRADEPOST_AUDIENCE" envDefault:"tradepost"`
	LogLevel        string   `env:"TRADEPOST_LOG_LEVEL" envDefault:"info"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to parse environment")
	}

	if cfg.SigningKey == "" {
		return nil, goerrors.New("TRADEPOST_SIGNING_KEY is required", goerrors.CategoryValidation)
	}

	return cfg, nil
}

func (c *Config) GetSigningKey() string    { return c.SigningKey }
func (c *Config) GetSigningMethod() string { return c.SigningMethod }
func (c *Config) GetContextKey() string    { return c.ContextKey }
func (c *Config) GetTokenExpiration() int  { return c.TokenExpiration }
func (c *Config) GetTokenLookup() string   { return c.TokenLookup }
func (c *Config) GetAuthScheme() string    { return c.AuthScheme }
func (c *Config) GetIssuer() string        { return c.Issuer }
func (c *Config) GetAudience() []string    { return c.Audience }
