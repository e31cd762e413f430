package models

// PaymentStatus is the settlement state of a single payment part. The raw
// string read from storage or a payment provider is validated once at the
// boundary with ParsePaymentStatus; the literals are compared case-sensitively.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
)

// ParsePaymentStatus maps a raw status string onto the closed enum. Unknown
// values pass through unchanged so that a foreign status is preserved on
// round trip, but it will never count as settled.
func ParsePaymentStatus(raw string) PaymentStatus {
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentCompleted, PaymentSuccess, PaymentFailed:
		return PaymentStatus(raw)
	}
	return PaymentStatus(raw)
}

// Settled reports whether the part counts as paid.
func (s PaymentStatus) Settled() bool {
	return s == PaymentCompleted || s == PaymentSuccess
}

// PaymentPart is one slice of how a sale was paid.
type PaymentPart struct {
	Method     string        `json:"method"`
	Amount     float64       `json:"amount"`
	QRCodeData string        `json:"qrCodeData,omitempty"`
	Status     PaymentStatus `json:"status"`
	Note       string        `json:"note,omitempty"`
}

// SaleItem is the snapshot of an offer at sale time. TotalPrice is computed
// at checkout and frozen; it is never recomputed from UnitPrice*Quantity.
type SaleItem struct {
	OfferID           string  `json:"offerId"`
	Description       string  `json:"description,omitempty"`
	Quantity          int64   `json:"quantity"`
	UnitPrice         float64 `json:"unitPrice"`
	TotalPrice        float64 `json:"totalPrice"`
	TaxPercentage     float64 `json:"taxPercentage"`
	InventoryAdjusted bool    `json:"inventoryAdjusted"`
}

// Sale is the immutable record of a completed checkout. Once persisted it is
// never updated, only deleted (singly or in bulk by a snapshot import).
type Sale struct {
	SaleID    string        `json:"saleId"`
	Timestamp string        `json:"timestamp"`
	EventID   string        `json:"eventId,omitempty"`
	Items     []SaleItem    `json:"items"`
	Payments  []PaymentPart `json:"payments"`
}
