// Package store defines the capability interface every catalog origin
// implements, plus the sink the download pipeline writes into. Origin
// backends share the catalog-entry shape; store-specific fetch logic
// lives behind this interface.
package store

import (
	"context"
	"io"

	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
)

// Sink receives the bytes and metadata produced by a download. The
// pipeline holds no files open across operations; each call hands over
// one complete artifact stream.
type Sink interface {
	// SavePackage stores the primary package of the entry.
	SavePackage(entry models.CatalogEntry, r io.Reader) error
	// SaveSplit stores one split package under its delivered name.
	SaveSplit(entry models.CatalogEntry, name string, r io.Reader) error
	// SaveAuxFile stores one auxiliary data file under its composed name.
	SaveAuxFile(entry models.CatalogEntry, name string, r io.Reader) error
	// SaveMetadata records the catalog entry itself.
	SaveMetadata(entry models.CatalogEntry) error
}

// Client is the per-origin catalog capability.
type Client interface {
	// Store names the origin backend.
	Store() models.Store
	// Categories lists the top-level catalog categories.
	Categories(ctx context.Context) ([]models.Category, error)
	// Subcategories lists the groupings within a category.
	Subcategories(ctx context.Context, category models.Category, freeOnly bool) ([]models.SubCategory, error)
	// Discover builds or extends a listing for a subcategory.
	Discover(ctx context.Context, sub *models.SubCategory, existing *models.ResourceList) (*models.ResourceList, error)
	// More extends a listing from its continuation cursor.
	More(ctx context.Context, list *models.ResourceList) (*models.ResourceList, error)
	// Download acquires an entry and writes all its artifacts to sink.
	Download(ctx context.Context, entry models.CatalogEntry, sink Sink) error
}
