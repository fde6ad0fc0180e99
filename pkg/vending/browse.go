package vending

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
)

// Categories retrieves all top-level catalog categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("c", "3")
	wrapper, err := c.getWrapper(ctx, c.baseURL+"fdfe/browse", query)
	if err != nil {
		return nil, err
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("server rejected the category query: %s", msg)
	}
	if wrapper.Payload == nil || wrapper.Payload.BrowseResponse == nil {
		return nil, fmt.Errorf("category query returned no browse payload")
	}

	var categories []models.Category
	for _, link := range wrapper.Payload.BrowseResponse.Category {
		categories = append(categories, models.Category{
			ID:      categoryID(link.DataURL),
			Name:    link.Name,
			DataURL: link.DataURL,
		})
	}
	return categories, nil
}

// Subcategories retrieves the groupings within a category, such as top
// selling or top grossing. With freeOnly set, groupings whose
// identifier marks them as paid are excluded.
func (c *Client) Subcategories(ctx context.Context, category models.Category, freeOnly bool) ([]models.SubCategory, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("c", "3")
	query.Set("cat", category.ID)
	wrapper, err := c.getWrapper(ctx, c.baseURL+"fdfe/browse", query)
	if err != nil {
		return nil, err
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("server rejected the subcategory query for %s: %s", category.Name, msg)
	}

	parent := category
	var subcategories []models.SubCategory
	for _, pf := range wrapper.PreFetch {
		// Only prefetch entries carrying a click-through marker name a
		// listing; the rest are decoration.
		if !strings.Contains(pf.URL, "ctr=") {
			continue
		}
		head := firstListChild(pf.Response)
		if head == nil {
			continue
		}
		if freeOnly && strings.Contains(head.DocID, "paid") {
			continue
		}
		subcategories = append(subcategories, models.SubCategory{
			Category: models.Category{
				ID:      head.DocID,
				Name:    head.Title,
				DataURL: pf.URL,
			},
			Parent: &parent,
		})
	}
	return subcategories, nil
}

// Discover fetches the subcategory's current cursor location. With a
// nil existing list a new ResourceList is built from the first page;
// otherwise the list is extended in place. Extension that yields no
// new entries is terminal.
func (c *Client) Discover(ctx context.Context, sub *models.SubCategory, existing *models.ResourceList) (*models.ResourceList, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	resp, err := c.transport.Get(ctx, c.baseURL+"fdfe/"+sub.DataURL, c.baseHeaders())
	if err != nil {
		return nil, err
	}

	var wrapper wire.ResponseWrapper
	if err := wrapper.Unmarshal(resp.Body); err != nil {
		if existing != nil {
			// A malformed extension page signals the end of the data,
			// not a transient failure.
			return nil, errors.NewExhausted(fmt.Sprintf("listing for %s ended with undecodable page", sub.Name))
		}
		return nil, errors.NewTransport(fmt.Sprintf("failed to decode listing for %s", sub.Name), err)
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("server rejected the listing query for %s: %s", sub.Name, msg)
	}

	entries, nextPageURL, parseErr := c.entriesFromList(&wrapper)

	if existing == nil {
		if parseErr != nil {
			return nil, errors.NewTransport(fmt.Sprintf("listing for %s carried no documents", sub.Name), parseErr)
		}
		list := &models.ResourceList{Subcategory: sub}
		list.Append(entries, nextPageURL)
		return list, nil
	}

	before := existing.Len()
	if parseErr == nil {
		existing.Append(entries, nextPageURL)
	}
	if existing.Len() == before {
		c.log.Debug("listing for %s maxed out at %d entries", sub.Name, before)
		return nil, errors.NewExhausted(fmt.Sprintf("no more entries for %s", sub.Name))
	}
	return existing, nil
}

// More repoints the subcategory's cursor to the list's continuation
// and extends the list. A terminal condition means "no more pages",
// not an error aborting the browse session.
func (c *Client) More(ctx context.Context, list *models.ResourceList) (*models.ResourceList, error) {
	if list.Subcategory == nil {
		return nil, errors.NewExhausted("list has no owning subcategory")
	}
	if list.NextPageURL == "" {
		return nil, errors.NewExhausted(fmt.Sprintf("no continuation for %s", list.Subcategory.Name))
	}
	list.Subcategory.DataURL = list.NextPageURL
	return c.Discover(ctx, list.Subcategory, list)
}

// Details retrieves the catalog entry for a single package.
func (c *Client) Details(ctx context.Context, packageID string) (*models.CatalogEntry, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("doc", packageID)
	wrapper, err := c.getWrapper(ctx, c.baseURL+"fdfe/details", query)
	if err != nil {
		return nil, err
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("server rejected the details query for %s: %s", packageID, msg)
	}
	if wrapper.Payload == nil || wrapper.Payload.DetailsResponse == nil || wrapper.Payload.DetailsResponse.DocV2 == nil {
		return nil, fmt.Errorf("details query for %s returned no document", packageID)
	}
	entry := c.entryFromDoc(wrapper.Payload.DetailsResponse.DocV2)
	return &entry, nil
}

// entriesFromList extracts the catalog entries and continuation cursor
// from one listing page.
func (c *Client) entriesFromList(wrapper *wire.ResponseWrapper) ([]models.CatalogEntry, string, error) {
	head := firstListChild(wrapper)
	if head == nil {
		return nil, "", fmt.Errorf("listing page carried no document tree")
	}
	entries := make([]models.CatalogEntry, 0, len(head.Child))
	for _, child := range head.Child {
		entries = append(entries, c.entryFromDoc(child))
	}
	var next string
	if head.ContainerMetadata != nil {
		next = head.ContainerMetadata.NextPageURL
	}
	return entries, next, nil
}

func (c *Client) entryFromDoc(doc *wire.DocV2) models.CatalogEntry {
	entry := models.CatalogEntry{
		PackageID: doc.DocID,
		Title:     doc.Title,
		Creator:   doc.Creator,
		Origin:    models.StorePlay,
	}
	if len(doc.Offer) > 0 {
		entry.OfferType = doc.Offer[0].OfferType
	}
	if doc.Details != nil && doc.Details.AppDetails != nil {
		entry.VersionCode = doc.Details.AppDetails.VersionCode
		entry.VersionString = doc.Details.AppDetails.VersionString
		entry.Permissions = doc.Details.AppDetails.Permission
		entry.NumDownloads = doc.Details.AppDetails.NumDownloads
	}
	if doc.AggregateRating != nil {
		entry.StarRating = doc.AggregateRating.StarRating
		entry.RatingsCount = doc.AggregateRating.RatingsCount
	}
	return entry
}

// firstListChild returns doc[0].child[0] of a listing envelope, the
// node carrying the page's entries and continuation cursor.
func firstListChild(wrapper *wire.ResponseWrapper) *wire.DocV2 {
	if wrapper == nil || wrapper.Payload == nil || wrapper.Payload.ListResponse == nil {
		return nil
	}
	docs := wrapper.Payload.ListResponse.Doc
	if len(docs) == 0 || len(docs[0].Child) == 0 {
		return nil
	}
	return docs[0].Child[0]
}

// categoryID recovers the category identifier from its data locator.
// The backend carries it as the cat query parameter.
func categoryID(dataURL string) string {
	idx := strings.Index(dataURL, "?")
	if idx < 0 {
		return dataURL
	}
	values, err := url.ParseQuery(dataURL[idx+1:])
	if err != nil {
		return dataURL
	}
	if id := values.Get("cat"); id != "" {
		return id
	}
	return dataURL
}
