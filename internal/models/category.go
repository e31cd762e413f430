// Package models defines the immutable domain entities of the Inventra store.
// Entities are plain values; anything that looks like a mutation returns a new
// value instead of changing the receiver.
package models

// Category groups products for presentation and carries the default tax rate
// applied to offers shown under it.
type Category struct {
	CategoryID    string  `json:"categoryId"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	TaxPercentage float64 `json:"taxPercentage"`
}

// WithImage returns a copy of the category pointing at the given image file.
func (c Category) WithImage(image string) Category {
	c.Image = image
	return c
}

// CategoryProduct links a product into a category. Pure join row.
type CategoryProduct struct {
	CategoryID string `json:"categoryId"`
	ProductID  string `json:"productId"`
}
