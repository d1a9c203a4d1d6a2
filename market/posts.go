package market

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostsRepository persists posts using Bun.
type PostsRepository struct {
	db *bun.DB
}

func NewPostsRepository(db *bun.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

func (r *PostsRepository) List(ctx context.Context) ([]*Post, error) {
	var models []*Post
	err := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Post{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "post listing failed")
	}

	if models == nil {
		models = []*Post{}
	}
	return models, nil
}

func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post := &Post{}
	err := r.db.NewSelect().
		Model(post).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "post lookup failed")
	}
	return post, nil
}

func (r *PostsRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(post).
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist post")
	}
	return post, nil
}
