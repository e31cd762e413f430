// Package checkout turns the in-memory basket into a persisted Sale plus
// matching inventory ledger rows, and owns the payment-method registry.
package checkout

import (
	"sync"

	"github.com/bsobat/inventra/internal/models"
)

// Basket is the ephemeral selection for the checkout in progress. It is owned
// by one process and guarded by a mutex so a concurrent "add" cannot race a
// checkout reading an inconsistent snapshot. Never persisted.
type Basket struct {
	mu    sync.Mutex
	items []models.BasketItem
}

func NewBasket() *Basket {
	return &Basket{}
}

// Add sets the quantity for an offer, inserting it if absent. A quantity
// below one removes the offer from the basket.
func (b *Basket) Add(offer models.Offer, quantity int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if quantity < 1 {
		b.remove(offer.OfferID)
		return
	}
	for i, item := range b.items {
		if item.Offer.OfferID == offer.OfferID {
			b.items[i] = models.BasketItem{Offer: offer, Quantity: quantity}
			return
		}
	}
	b.items = append(b.items, models.BasketItem{Offer: offer, Quantity: quantity})
}

// Update changes the quantity of an offer already in the basket. Zero or
// negative removes it; unknown offers are ignored.
func (b *Basket) Update(offerID string, quantity int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if quantity <= 0 {
		b.remove(offerID)
		return
	}
	for i, item := range b.items {
		if item.Offer.OfferID == offerID {
			b.items[i].Quantity = quantity
			return
		}
	}
}

// Remove drops an offer from the basket.
func (b *Basket) Remove(offerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remove(offerID)
}

func (b *Basket) remove(offerID string) {
	for i, item := range b.items {
		if item.Offer.OfferID == offerID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Clear empties the basket. Called by the UI after a successful checkout.
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
}

// Items returns a copy of the basket lines in insertion order.
func (b *Basket) Items() []models.BasketItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.BasketItem(nil), b.items...)
}

// Total is the amount the customer pays, the same figure ProcessCheckout
// validates against. Prices are tax-inclusive.
func (b *Basket) Total() float64 {
	return CalculateTotal(b.Items())
}

// Tax is the tax portion included in Total, for display on the receipt.
func (b *Basket) Tax() float64 {
	var tax float64
	for _, item := range b.Items() {
		line := item.Offer.Price * float64(item.Quantity)
		rate := item.Offer.TaxPercentage
		if rate > 0 {
			tax += line * rate / (100 + rate)
		}
	}
	return tax
}

// Subtotal is Total minus the included tax.
func (b *Basket) Subtotal() float64 {
	return b.Total() - b.Tax()
}
