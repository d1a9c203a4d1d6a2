package market

import goerrors "github.com/goliatone/go-errors"

var ErrItemNotFound = goerrors.New("item not found", goerrors.CategoryNotFound).
	WithTextCode("ITEM_NOT_FOUND")

var ErrPostNotFound = goerrors.New("post not found", goerrors.CategoryNotFound).
	WithTextCode("POST_NOT_FOUND")

// ErrItemUnavailable means the listing was already sold or removed.
var ErrItemUnavailable = goerrors.New("item is no longer available", goerrors.CategoryConflict).
	WithTextCode("ITEM_UNAVAILABLE")

// ErrNotItemSeller rejects writes against another seller's listing.
var ErrNotItemSeller = goerrors.New("item belongs to another seller", goerrors.CategoryAuth).
	WithTextCode("FORBIDDEN")

var ErrOwnItemPurchase = goerrors.New("cannot purchase your own item", goerrors.CategoryValidation).
	WithTextCode("OWN_ITEM_PURCHASE")
