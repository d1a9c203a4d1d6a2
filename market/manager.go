package market

import (
	"context"
	"database/sql"
	"errors"
	"log"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all marketplace repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Items() *ItemsRepository
	Posts() *PostsRepository
	Transactions() *TransactionsRepository

	PurchaseItem(ctx context.Context, buyerID, itemID uuid.UUID) (*Transaction, error)
}

type mngr struct {
	db           *bun.DB
	items        *ItemsRepository
	posts        *PostsRepository
	transactions *TransactionsRepository
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:           db,
		items:        NewItemsRepository(db),
		posts:        NewPostsRepository(db),
		transactions: NewTransactionsRepository(db),
	}
}

func (m *mngr) Validate() error {
	if m.items == nil {
		return errors.New("repository items should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	if m.transactions == nil {
		return errors.New("repository transactions should be initialized")
	}

	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Items() *ItemsRepository {
	return m.items
}

func (m *mngr) Posts() *PostsRepository {
	return m.posts
}

func (m *mngr) Transactions() *TransactionsRepository {
	return m.transactions
}

// PurchaseItem settles a purchase in one transaction: record the
// transaction, then flip the listing to sold. The sold-flip carries a
// status predicate, so a concurrent purchase of the same item rolls back
// here instead of double selling.
func (m *mngr) PurchaseItem(ctx context.Context, buyerID, itemID uuid.UUID) (*Transaction, error) {
	var trx *Transaction

	err := m.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		item, err := m.items.GetByIDTx(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if item.Status != ItemStatusActive {
			return ErrItemUnavailable
		}

		if item.SellerID == buyerID {
			return ErrOwnItemPurchase
		}

		trx = &Transaction{
			ItemID:      item.ID,
			BuyerID:     buyerID,
			SellerID:    item.SellerID,
			AmountCents: item.PriceCents,
			Currency:    item.Currency,
			Status:      TransactionStatusCompleted,
		}

		if err := m.transactions.CreateTx(ctx, tx, trx); err != nil {
			return err
		}

		return m.items.MarkSoldTx(ctx, tx, item.ID)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "purchase transaction failed")
	}

	return trx, nil
}
