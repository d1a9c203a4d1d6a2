// Package market holds the marketplace entities and their persistence. Each
// entity is a closed record type validated at the API boundary; handlers
// never pass untyped payloads through.
package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemStatus is the lifecycle state of a listing
type ItemStatus string

const (
	ItemStatusActive  ItemStatus = "active"
	ItemStatusSold    ItemStatus = "sold"
	ItemStatusRemoved ItemStatus = "removed"
)

// Item is a listing offered by a seller
type Item struct {
	bun.BaseModel `bun:"table:items,alias:itm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SellerID      uuid.UUID  `bun:"seller_id,notnull,type:uuid" json:"seller_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	PriceCents    int64      `bun:"price_cents,notnull" json:"price_cents,omitempty"`
	Currency      string     `bun:"currency,notnull" json:"currency,omitempty"`
	Status        ItemStatus `bun:"status,notnull" json:"status,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is a message published by a user
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AuthorID      uuid.UUID `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Title         string    `bun:"title,notnull" json:"title,omitempty"`
	Body          string    `bun:"body,notnull" json:"body,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// TransactionStatus is the settlement state of a purchase
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction records a purchase of an Item. Amount and currency are copied
// from the listing at purchase time so later edits never rewrite history.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:trx"`
	ID            uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ItemID        uuid.UUID         `bun:"item_id,notnull,type:uuid" json:"item_id,omitempty"`
	BuyerID       uuid.UUID         `bun:"buyer_id,notnull,type:uuid" json:"buyer_id,omitempty"`
	SellerID      uuid.UUID         `bun:"seller_id,notnull,type:uuid" json:"seller_id,omitempty"`
	AmountCents   int64             `bun:"amount_cents,notnull" json:"amount_cents,omitempty"`
	Currency      string            `bun:"currency,notnull" json:"currency,omitempty"`
	Status        TransactionStatus `bun:"status,notnull" json:"status,omitempty"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
