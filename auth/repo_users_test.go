package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tradepost/tradepost/auth"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// one shared-cache memory db per test so pooled connections see the
	// same data without leaking state between tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().Model((*auth.User)(nil)).Exec(context.Background())
	require.NoError(t, err)

	return db
}

func TestUsersRegister(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := auth.NewUsersRepository(db)

	t.Run("persists a new user", func(t *testing.T) {
		user, err := repo.Register(ctx, &auth.User{
			Username:     "margo",
			Email:        "Margo@Example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)

		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, "margo@example.com", user.Email, "email is normalized")
		assert.Equal(t, auth.RoleMember, user.Role, "role defaults to member")
	})

	t.Run("duplicate email is rejected and the original survives", func(t *testing.T) {
		_, err := repo.Register(ctx, &auth.User{
			Username:     "impostor",
			Email:        "margo@example.com",
			PasswordHash: "other-hash",
		})
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentifier)

		original, err := repo.GetByIdentifier(ctx, "margo@example.com")
		require.NoError(t, err)
		assert.Equal(t, "margo", original.Username)
		assert.Equal(t, "hash", original.PasswordHash)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := repo.Register(ctx, &auth.User{
			Username:     "margo",
			Email:        "second@example.com",
			PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentifier)
	})
}

func TestUsersGetByIdentifier(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := auth.NewUsersRepository(db)

	seeded, err := repo.Register(ctx, &auth.User{
		Username:     "margo",
		Email:        "margo@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{name: "by email", identifier: "margo@example.com"},
		{name: "by username", identifier: "margo"},
		{name: "by id", identifier: seeded.ID.String()},
		{name: "unknown identifier", identifier: "nobody", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.GetByIdentifier(ctx, tt.identifier)
			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, seeded.ID, user.ID)
		})
	}

	t.Run("applies select criteria", func(t *testing.T) {
		user, err := repo.GetByIdentifier(ctx, "margo@example.com",
			repository.SelectColumns("id", "email"))
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		assert.Empty(t, user.Username, "unselected columns stay zero")
	})
}

func TestUsersTrackerAdapter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := auth.NewUsersRepository(db)

	seeded, err := repo.Register(ctx, &auth.User{
		Username:     "margo",
		Email:        "margo@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	tracker := auth.NewUserTracker(repo)

	user, err := tracker.GetByIdentifier(ctx, "margo@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	require.NoError(t, tracker.TrackAttemptedLogin(ctx, user))

	stored, err := tracker.GetByIdentifier(ctx, "margo")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LoginAttempts)
}

func TestUsersTrackLogins(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := auth.NewUsersRepository(db)

	user, err := repo.Register(ctx, &auth.User{
		Username:     "margo",
		Email:        "margo@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	require.NoError(t, repo.TrackAttemptedLogin(ctx, user))
	require.NoError(t, repo.TrackAttemptedLogin(ctx, user))

	stored, err := repo.GetByIdentifier(ctx, "margo")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LoginAttempts)
	assert.NotNil(t, stored.LoginAttemptAt)

	require.NoError(t, repo.TrackSuccessfulLogin(ctx, user))

	stored, err = repo.GetByIdentifier(ctx, "margo")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LoginAttempts)
	assert.NotNil(t, stored.LoggedInAt)
}
