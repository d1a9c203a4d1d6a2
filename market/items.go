package market

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemsRepository persists listings using Bun.
type ItemsRepository struct {
	db *bun.DB
}

func NewItemsRepository(db *bun.DB) *ItemsRepository {
	return &ItemsRepository{db: db}
}

// List returns listings newest first. When activeOnly is set, sold and
// removed items are filtered out.
func (r *ItemsRepository) List(ctx context.Context, activeOnly bool) ([]*Item, error) {
	var models []*Item
	q := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC")

	if activeOnly {
		q = q.Where("status = ?", ItemStatusActive)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Item{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "item listing failed")
	}

	if models == nil {
		models = []*Item{}
	}
	return models, nil
}

func (r *ItemsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *ItemsRepository) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Item, error) {
	item := &Item{}
	err := tx.NewSelect().
		Model(item).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "item lookup failed")
	}
	return item, nil
}

func (r *ItemsRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = ItemStatusActive
	}

	_, err := r.db.NewInsert().
		Model(item).
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist item")
	}
	return item, nil
}

// Update rewrites the mutable listing fields.
func (r *ItemsRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	item.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(item).
		Column("title", "description", "price_cents", "currency", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update item")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrItemNotFound
	}

	return item, nil
}

func (r *ItemsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Item)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete item")
	}
	return nil
}

// MarkSoldTx flips an active listing to sold inside the purchase tx. The
// status predicate makes the transition safe under concurrent purchases:
// only one update can observe the active row.
func (r *ItemsRepository) MarkSoldTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewUpdate().
		Model((*Item)(nil)).
		Set("status = ?", ItemStatusSold).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("status = ?", ItemStatusActive).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not mark item sold")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrItemUnavailable
	}

	return nil
}
