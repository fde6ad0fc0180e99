package fdroid_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/fdroid"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	groupings []models.Category
	entries   map[string][]models.CatalogEntry
}

func (s *fakeSource) Subcategories(ctx context.Context) ([]models.Category, error) {
	return s.groupings, nil
}

func (s *fakeSource) Entries(ctx context.Context, sub models.SubCategory) ([]models.CatalogEntry, error) {
	return s.entries[sub.ID], nil
}

func (s *fakeSource) Details(ctx context.Context, packageID string) (*models.CatalogEntry, error) {
	for _, entries := range s.entries {
		for _, e := range entries {
			if e.PackageID == packageID {
				return &e, nil
			}
		}
	}
	return nil, errors.NewConfiguration("unknown package "+packageID, nil)
}

type memorySink struct {
	packages map[string][]byte
	metadata []models.CatalogEntry
}

func (s *memorySink) SavePackage(entry models.CatalogEntry, r io.Reader) error {
	data, err := io.ReadAll(r)
	if s.packages == nil {
		s.packages = map[string][]byte{}
	}
	s.packages[entry.PackageID] = data
	return err
}

func (s *memorySink) SaveSplit(models.CatalogEntry, string, io.Reader) error { return nil }

func (s *memorySink) SaveAuxFile(models.CatalogEntry, string, io.Reader) error { return nil }

func (s *memorySink) SaveMetadata(entry models.CatalogEntry) error {
	s.metadata = append(s.metadata, entry)
	return nil
}

func newTestClient(t *testing.T, source fdroid.CatalogSource, baseURL string) *fdroid.Client {
	t.Helper()
	client, err := fdroid.NewClient(fdroid.ClientOptions{
		Source:    source,
		Transport: vending.NewTransport(models.NetworkConfig{}, utils.NewLogger(io.Discard, utils.LogLevelError)),
		Logger:    utils.NewLogger(io.Discard, utils.LogLevelError),
		BaseURL:   baseURL,
	})
	require.NoError(t, err)
	return client
}

func TestRootCategory(t *testing.T) {
	client := newTestClient(t, &fakeSource{}, "http://unused")

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "F-Droid", categories[0].ID)
	assert.Equal(t, models.StoreFDroid, client.Store())
}

func TestSubcategoriesAreParented(t *testing.T) {
	source := &fakeSource{groupings: []models.Category{
		{ID: "Internet", Name: "Internet", DataURL: "/en/categories/internet/"},
		{ID: "Games", Name: "Games", DataURL: "/en/categories/games/"},
	}}
	client := newTestClient(t, source, "http://unused")

	root := models.Category{ID: "F-Droid", Name: "F-Droid"}
	subs, err := client.Subcategories(context.Background(), root, true)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Internet", subs[0].ID)
	require.NotNil(t, subs[0].Parent)
	assert.Equal(t, "F-Droid", subs[0].Parent.Name)
}

func TestDiscoverIsSinglePage(t *testing.T) {
	source := &fakeSource{
		groupings: []models.Category{{ID: "Internet", Name: "Internet"}},
		entries: map[string][]models.CatalogEntry{
			"Internet": {
				{PackageID: "org.example.browser", VersionCode: 7, Origin: models.StoreFDroid},
				{PackageID: "org.example.mail", VersionCode: 3, Origin: models.StoreFDroid},
			},
		},
	}
	client := newTestClient(t, source, "http://unused")

	sub := &models.SubCategory{Category: models.Category{ID: "Internet", Name: "Internet"}}
	list, err := client.Discover(context.Background(), sub, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Len())
	assert.Empty(t, list.NextPageURL)

	_, err = client.Discover(context.Background(), sub, list)
	assert.ErrorIs(t, err, errors.ErrExhausted)

	_, err = client.More(context.Background(), list)
	assert.ErrorIs(t, err, errors.ErrExhausted)
	assert.Equal(t, 2, list.Len())
}

func TestDownloadFetchesFromRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repo/org.example.browser_7.apk", r.URL.Path)
		w.Write([]byte("apk-bytes"))
	}))
	defer srv.Close()

	client := newTestClient(t, &fakeSource{}, srv.URL)
	entry := models.CatalogEntry{PackageID: "org.example.browser", VersionCode: 7, Origin: models.StoreFDroid}

	sink := &memorySink{}
	require.NoError(t, client.Download(context.Background(), entry, sink))
	assert.Equal(t, []byte("apk-bytes"), sink.packages["org.example.browser"])
	require.Len(t, sink.metadata, 1)
}

func TestDownloadMissingPackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, &fakeSource{}, srv.URL)
	entry := models.CatalogEntry{PackageID: "org.example.gone", VersionCode: 1}

	err := client.Download(context.Background(), entry, &memorySink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
}
