package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts the record relying on the unique indexes over email and
// username to reject duplicates. There is deliberately no existence check
// first; two concurrent registrations for the same identifier race at the
// constraint and exactly one wins.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = RoleMember
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)

	record, err := a.CreateTx(ctx, tx, user)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist user")
	}

	return record, nil
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	for _, opt := range resolveUserIdentifier(identifier) {
		record := &User{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed")
		}

		return record, nil
	}

	return nil, ErrIdentityNotFound
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	now := time.Now()
	user.LoginAttempts = user.LoginAttempts + 1
	user.LoginAttemptAt = &now

	_, err := tx.NewUpdate().
		Model(user).
		Column("login_attempts", "login_attempt_at").
		WherePK().
		Exec(ctx)
	return err
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	now := time.Now()
	user.LoginAttempts = 0
	user.LoginAttemptAt = nil
	user.LoggedInAt = &now

	_, err := tx.NewUpdate().
		Model(user).
		Column("login_attempts", "login_attempt_at", "loggedin_at").
		WherePK().
		Exec(ctx)
	return err
}

type identifierOption struct {
	column string
	value  string
}

// resolveUserIdentifier maps an opaque identifier to the columns it can
// match: an email address, a record id, or a username.
func resolveUserIdentifier(identifier string) []identifierOption {
	identifier = strings.TrimSpace(identifier)
	options := []identifierOption{}

	if _, err := mail.ParseAddress(identifier); err == nil {
		options = append(options, identifierOption{column: "email", value: strings.ToLower(identifier)})
	}

	if _, err := uuid.Parse(identifier); err == nil {
		options = append(options, identifierOption{column: "id", value: identifier})
	}

	options = append(options, identifierOption{column: "username", value: identifier})

	return options
}
