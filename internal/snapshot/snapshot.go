// Package snapshot builds self-contained backups of the whole store and
// restores them. A snapshot is a single manifest plus the image files the
// entities reference; it travels as one zip archive and is never partially
// applied.
package snapshot

import "github.com/bsobat/inventra/internal/models"

// SchemaVersion is bumped when the manifest layout changes incompatibly.
const SchemaVersion = 1

// ManifestName is the manifest file at the archive root.
const ManifestName = "data.json"

// ImagesDir is the archive subdirectory holding referenced image files.
const ImagesDir = "images"

// ExportSnapshot is the versioned bundle of every domain table plus the
// deduplicated set of image file names referenced by any entity.
type ExportSnapshot struct {
	SchemaVersion         int                           `json:"schemaVersion"`
	ExportTimestamp       string                        `json:"exportTimestamp"`
	Categories            []models.Category             `json:"categories"`
	Products              []models.Product              `json:"products"`
	CategoryProducts      []models.CategoryProduct      `json:"categoryProducts"`
	Offers                []models.Offer                `json:"offers"`
	Events                []models.Event                `json:"events"`
	Sales                 []models.Sale                 `json:"sales"`
	InventoryTransactions []models.InventoryTransaction `json:"inventoryTransactions"`
	PaymentMethods        []models.PaymentMethodConfig  `json:"paymentMethods"`
	Configurations        []models.Configuration        `json:"configurations"`
	ImageFiles            []string                      `json:"imageFiles"`
}
