package models

// OfferTypeStandard is the default offer type; "bundle" is also used.
const OfferTypeStandard = "standard"

// UnlimitedInventory marks offers whose stock is not tracked.
const UnlimitedInventory = int64(1<<63 - 1)

// Offer is a priced, purchasable variant of a product. AmountInInventory is a
// mutable counter maintained alongside the append-only inventory ledger; the
// ledger is the source of truth for stock movement.
type Offer struct {
	OfferID           string  `json:"offerId"`
	ProductID         string  `json:"productId"`
	Title             string  `json:"title"`
	Image             string  `json:"image,omitempty"`
	AmountInInventory int64   `json:"amountInInventory"`
	Type              string  `json:"type"`
	Price             float64 `json:"price"`
	UOM               string  `json:"uom"`
	TaxPercentage     float64 `json:"taxPercentage"`
}

// WithImage returns a copy of the offer pointing at the given image file.
func (o Offer) WithImage(image string) Offer {
	o.Image = image
	return o
}
