package models

// Product is a sellable good. Offers reference a product and add pricing.
type Product struct {
	ProductID   string `json:"productId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SKUCode     string `json:"skuCode,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
}

// WithImage returns a copy of the product pointing at the given image file.
func (p Product) WithImage(image string) Product {
	p.Image = image
	return p
}
