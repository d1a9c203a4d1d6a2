package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tradepost/tradepost/auth"
	"github.com/tradepost/tradepost/market"
	"github.com/tradepost/tradepost/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("tradepostd exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := createSchema(ctx, db); err != nil {
		return err
	}

	repo := auth.NewRepositoryManager(db)
	provider := auth.NewUserProvider(auth.NewUserTracker(repo.Users()))

	auther := auth.NewAuthenticator(provider, cfg).
		WithLogger(slogAdapter{logger}).
		WithAccountRegisterer(auth.NewAccountRegisterer(repo))

	marketRepo := market.NewRepositoryManager(db)

	srv := server.New(auther, cfg, marketRepo, logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*market.Item)(nil),
		(*market.Post)(nil),
		(*market.Transaction)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogAdapter lets the authenticator log through the daemon's handler.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Debug(msg string, args ...any) { a.log.Debug(msg, args...) }
func (a slogAdapter) Info(msg string, args ...any)  { a.log.Info(msg, args...) }
func (a slogAdapter) Warn(msg string, args ...any)  { a.log.Warn(msg, args...) }
func (a slogAdapter) Error(msg string, args ...any) { a.log.Error(msg, args...) }
