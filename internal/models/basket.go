package models

// BasketItem is an ephemeral, in-memory line of the current basket. It
// snapshots the offer so a later price edit does not change a basket already
// being checked out. Never persisted.
type BasketItem struct {
	Offer    Offer
	Quantity int64
}
