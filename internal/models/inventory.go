package models

// Ledger reasons. ReasonSale is written by the checkout engine; the others
// come from manual stock corrections.
const (
	ReasonSale       = "SALE"
	ReasonRestock    = "RESTOCK"
	ReasonCorrection = "CORRECTION"
)

// InventoryTransaction is one signed, append-only ledger row recording a
// single stock movement and its cause. The ledger, not the offer counter, is
// the source of truth for stock movement.
type InventoryTransaction struct {
	TransactionID string `json:"transactionId"`
	OfferID       string `json:"offerId"`
	ChangeAmount  int64  `json:"changeAmount"`
	Reason        string `json:"reason"`
	Timestamp     string `json:"timestamp"`
	EventID       string `json:"eventId,omitempty"`
}
