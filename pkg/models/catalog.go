package models

// Store tags the origin backend a catalog record was obtained from.
type Store string

const (
	StorePlay   Store = "Google Play"
	StoreFDroid Store = "F-Droid"
)

// Category represents a top-level catalog category.
type Category struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	DataURL string `yaml:"data_url"` // continuation locator for the first page
}

// SubCategory is a category grouping within a parent Category, such as
// "Top Free". The parent reference is read-only.
type SubCategory struct {
	Category
	Parent *Category `yaml:"parent,omitempty"`
}

// CatalogEntry is an immutable snapshot of one application as reported
// by its origin store. It is constructed fresh from each server
// response and never mutated afterwards.
type CatalogEntry struct {
	PackageID     string   `yaml:"package_id"`
	Title         string   `yaml:"title"`
	Creator       string   `yaml:"creator"`
	VersionCode   int32    `yaml:"version_code"` // opaque ordering key, not a counter
	VersionString string   `yaml:"version_string"`
	StarRating    float32  `yaml:"star_rating"`
	RatingsCount  uint64   `yaml:"ratings_count"`
	Permissions   []string `yaml:"permissions,omitempty"`
	NumDownloads  string   `yaml:"num_downloads,omitempty"`
	OfferType     int32    `yaml:"offer_type"`
	Origin        Store    `yaml:"origin"`
}

// ResourceList is an ordered sequence of catalog entries plus the
// opaque cursor for the next page. Extension only ever appends.
type ResourceList struct {
	Entries     []CatalogEntry
	NextPageURL string
	Subcategory *SubCategory
}

// Append adds entries and repoints the continuation cursor. Existing
// entries are never removed or reordered.
func (l *ResourceList) Append(entries []CatalogEntry, nextPageURL string) {
	l.Entries = append(l.Entries, entries...)
	l.NextPageURL = nextPageURL
}

// Len returns the number of entries obtained so far.
func (l *ResourceList) Len() int {
	return len(l.Entries)
}
