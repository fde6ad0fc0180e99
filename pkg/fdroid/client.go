// Package fdroid implements the authentication-free catalog origin.
// The repository serves packages directly by name and version, so
// there is no login, purchase, or pagination protocol. HTML scraping
// of the catalog pages stays outside this package; a CatalogSource
// collaborator supplies parsed records.
package fdroid

import (
	"context"
	"fmt"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/store"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending"
)

// ServerURL is the public repository endpoint.
const ServerURL = "https://f-droid.org"

// CatalogSource supplies parsed catalog records. Implementations
// scrape or mirror the repository index.
type CatalogSource interface {
	// Subcategories lists the groupings of the package index.
	Subcategories(ctx context.Context) ([]models.Category, error)
	// Entries lists every package of one grouping. The repository
	// index is not paginated; one call returns the whole grouping.
	Entries(ctx context.Context, sub models.SubCategory) ([]models.CatalogEntry, error)
	// Details returns the record for a single package.
	Details(ctx context.Context, packageID string) (*models.CatalogEntry, error)
}

// ClientOptions configures an F-Droid client.
type ClientOptions struct {
	Source    CatalogSource
	Transport *vending.Transport
	Logger    utils.Logger

	// BaseURL overrides the production endpoint in tests.
	BaseURL string
}

// Client serves the catalog capability for the F-Droid origin.
type Client struct {
	source    CatalogSource
	transport *vending.Transport
	log       utils.Logger
	baseURL   string
}

// NewClient validates the options and builds the client. No credential
// is needed; the repository is open.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Source == nil {
		return nil, errors.NewConfiguration("no catalog source configured", nil)
	}
	if opts.Transport == nil {
		return nil, errors.NewConfiguration("no transport configured", nil)
	}
	log := opts.Logger
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = ServerURL
	}
	return &Client{
		source:    opts.Source,
		transport: opts.Transport,
		log:       log,
		baseURL:   baseURL,
	}, nil
}

// Store names the origin backend.
func (c *Client) Store() models.Store {
	return models.StoreFDroid
}

// Categories returns the single root category. The repository has only
// one level of grouping, so the root is a stand-in parent.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "F-Droid", Name: "F-Droid"}}, nil
}

// Subcategories lists the groupings of the package index. Everything
// in the repository is free, so freeOnly changes nothing.
func (c *Client) Subcategories(ctx context.Context, category models.Category, freeOnly bool) ([]models.SubCategory, error) {
	groupings, err := c.source.Subcategories(ctx)
	if err != nil {
		return nil, err
	}
	parent := category
	subcategories := make([]models.SubCategory, 0, len(groupings))
	for _, g := range groupings {
		subcategories = append(subcategories, models.SubCategory{Category: g, Parent: &parent})
	}
	return subcategories, nil
}

// Discover builds the full listing for a grouping in one call. The
// index has no continuation cursor, so any extension attempt is
// already past the end of the data.
func (c *Client) Discover(ctx context.Context, sub *models.SubCategory, existing *models.ResourceList) (*models.ResourceList, error) {
	if existing != nil {
		return nil, errors.NewExhausted(fmt.Sprintf("no more entries for %s", sub.Name))
	}
	entries, err := c.source.Entries(ctx, *sub)
	if err != nil {
		return nil, err
	}
	list := &models.ResourceList{Subcategory: sub}
	list.Append(entries, "")
	return list, nil
}

// More always reports exhaustion; listings arrive complete.
func (c *Client) More(ctx context.Context, list *models.ResourceList) (*models.ResourceList, error) {
	name := "listing"
	if list.Subcategory != nil {
		name = list.Subcategory.Name
	}
	return nil, errors.NewExhausted(fmt.Sprintf("no more entries for %s", name))
}

// Details returns the record for a single package.
func (c *Client) Details(ctx context.Context, packageID string) (*models.CatalogEntry, error) {
	return c.source.Details(ctx, packageID)
}

// Download fetches the package directly from the repository. There is
// no purchase step, no cookie, and no split or auxiliary artifacts.
func (c *Client) Download(ctx context.Context, entry models.CatalogEntry, sink store.Sink) error {
	c.log.Info("downloading %s", entry.PackageID)
	if err := sink.SaveMetadata(entry); err != nil {
		return err
	}
	rawURL := fmt.Sprintf("%s/repo/%s_%d.apk", c.baseURL, entry.PackageID, entry.VersionCode)
	body, _, err := c.transport.Stream(ctx, rawURL, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return sink.SavePackage(entry, body)
}
