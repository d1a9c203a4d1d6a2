package market_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tradepost/tradepost/market"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*market.Item)(nil),
		(*market.Post)(nil),
		(*market.Transaction)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func seedItem(t *testing.T, repo market.RepositoryManager, sellerID uuid.UUID) *market.Item {
	t.Helper()

	item, err := repo.Items().Create(context.Background(), &market.Item{
		SellerID:    sellerID,
		Title:       "vintage synth",
		Description: "works, needs new sliders",
		PriceCents:  45000,
		Currency:    "USD",
	})
	require.NoError(t, err)
	return item
}

func TestPurchaseItem(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()

	t.Run("completes and copies the price", func(t *testing.T) {
		repo := market.NewRepositoryManager(setupTestDB(t))
		item := seedItem(t, repo, seller)

		trx, err := repo.PurchaseItem(ctx, buyer, item.ID)
		require.NoError(t, err)

		assert.Equal(t, item.ID, trx.ItemID)
		assert.Equal(t, buyer, trx.BuyerID)
		assert.Equal(t, seller, trx.SellerID)
		assert.Equal(t, int64(45000), trx.AmountCents)
		assert.Equal(t, market.TransactionStatusCompleted, trx.Status)

		sold, err := repo.Items().GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, market.ItemStatusSold, sold.Status)
	})

	t.Run("a sold item cannot sell twice", func(t *testing.T) {
		repo := market.NewRepositoryManager(setupTestDB(t))
		item := seedItem(t, repo, seller)

		_, err := repo.PurchaseItem(ctx, buyer, item.ID)
		require.NoError(t, err)

		_, err = repo.PurchaseItem(ctx, uuid.New(), item.ID)
		assert.ErrorIs(t, err, market.ErrItemUnavailable)

		// the losing purchase leaves no transaction behind
		transactions, err := repo.Transactions().ListByUser(ctx, seller)
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("sellers cannot buy their own item", func(t *testing.T) {
		repo := market.NewRepositoryManager(setupTestDB(t))
		item := seedItem(t, repo, seller)

		_, err := repo.PurchaseItem(ctx, seller, item.ID)
		assert.ErrorIs(t, err, market.ErrOwnItemPurchase)
	})

	t.Run("missing item fails", func(t *testing.T) {
		repo := market.NewRepositoryManager(setupTestDB(t))

		_, err := repo.PurchaseItem(ctx, buyer, uuid.New())
		assert.ErrorIs(t, err, market.ErrItemNotFound)
	})

	t.Run("later price edits never rewrite history", func(t *testing.T) {
		repo := market.NewRepositoryManager(setupTestDB(t))
		item := seedItem(t, repo, seller)

		trx, err := repo.PurchaseItem(ctx, buyer, item.ID)
		require.NoError(t, err)

		item.PriceCents = 99999
		item.Status = market.ItemStatusSold
		_, err = repo.Items().Update(ctx, item)
		require.NoError(t, err)

		stored, err := repo.Transactions().ListByUser(ctx, buyer)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, int64(45000), stored[0].AmountCents)
		assert.Equal(t, trx.ID, stored[0].ID)
	})
}

func TestItemsList(t *testing.T) {
	ctx := context.Background()
	repo := market.NewRepositoryManager(setupTestDB(t))
	seller := uuid.New()

	active := seedItem(t, repo, seller)
	sold := seedItem(t, repo, seller)

	_, err := repo.PurchaseItem(ctx, uuid.New(), sold.ID)
	require.NoError(t, err)

	onlyActive, err := repo.Items().List(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	everything, err := repo.Items().List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, everything, 2)
}

func TestPostsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := market.NewRepositoryManager(setupTestDB(t))
	author := uuid.New()

	created, err := repo.Posts().Create(ctx, &market.Post{
		AuthorID: author,
		Title:    "selling a synth",
		Body:     "see my listing",
	})
	require.NoError(t, err)

	posts, err := repo.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
	assert.Equal(t, author, posts[0].AuthorID)
}
