package market

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TransactionsRepository persists purchase records using Bun.
type TransactionsRepository struct {
	db *bun.DB
}

func NewTransactionsRepository(db *bun.DB) *TransactionsRepository {
	return &TransactionsRepository{db: db}
}

// ListByUser returns transactions the user took part in, as buyer or
// seller, newest first.
func (r *TransactionsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error) {
	var models []*Transaction
	err := r.db.NewSelect().
		Model(&models).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Transaction{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "transaction listing failed")
	}

	if models == nil {
		models = []*Transaction{}
	}
	return models, nil
}

func (r *TransactionsRepository) CreateTx(ctx context.Context, tx bun.IDB, trx *Transaction) error {
	if trx.ID == uuid.Nil {
		trx.ID = uuid.New()
	}
	if trx.Status == "" {
		trx.Status = TransactionStatusCompleted
	}

	_, err := tx.NewInsert().
		Model(trx).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist transaction")
	}
	return nil
}
