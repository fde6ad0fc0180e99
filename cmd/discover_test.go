package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkcrawl/apkcrawl-cli/pkg/device"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
)

func listingBody(packages []string, nextPageURL string) []byte {
	children := make([]*wire.DocV2, 0, len(packages))
	for _, pkg := range packages {
		children = append(children, &wire.DocV2{DocID: pkg, Title: pkg})
	}
	wrapper := wire.ResponseWrapper{
		Payload: &wire.Payload{ListResponse: &wire.ListResponse{Doc: []*wire.DocV2{{
			Child: []*wire.DocV2{{
				Child:             children,
				ContainerMetadata: &wire.ContainerMetadata{NextPageURL: nextPageURL},
			}},
		}}}},
	}
	return wrapper.Marshal()
}

func newListingClient(t *testing.T, mux *http.ServeMux) *vending.Client {
	t.Helper()
	mux.HandleFunc("/fdfe/homeV2", func(w http.ResponseWriter, r *http.Request) {
		var empty wire.ResponseWrapper
		w.Write(empty.Marshal())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	identity, err := device.Load("bacon")
	require.NoError(t, err)

	log := utils.NewLogger(io.Discard, utils.LogLevelError)
	client, err := vending.NewClient(vending.ClientOptions{
		Device: identity,
		Credential: &models.Credential{
			Mail:      "user@example.com",
			Password:  "hunter2",
			AndroidID: 0xD,
			AuthToken: "stored-token",
		},
		Transport: vending.NewTransport(models.NetworkConfig{}, log),
		Logger:    log,
		BaseURL:   srv.URL + "/",
	})
	require.NoError(t, err)
	return client
}

func TestWalkListingHonorsLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fdfe/list", func(w http.ResponseWriter, r *http.Request) {
		// Pages of two entries each; the third page would start at 4.
		switch r.URL.Query().Get("o") {
		case "":
			w.Write(listingBody([]string{"com.example.a", "com.example.b"}, "list?o=2"))
		case "2":
			w.Write(listingBody([]string{"com.example.c", "com.example.d"}, "list?o=4"))
		default:
			t.Errorf("page past the limit was requested: %s", r.URL.String())
		}
	})
	client := newListingClient(t, mux)

	sub := &models.SubCategory{Category: models.Category{ID: "apps_topselling_free", Name: "Top Free", DataURL: "list"}}
	list, err := walkListing(context.Background(), client, sub, 3)
	require.NoError(t, err)

	// The second page carries the total past the limit; the walk must
	// hand back no more than asked for.
	require.Equal(t, 3, list.Len())
	assert.Equal(t, "com.example.c", list.Entries[2].PackageID)
}

func TestWalkListingRunsToExhaustion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fdfe/list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("o") == "" {
			w.Write(listingBody([]string{"com.example.a", "com.example.b"}, "list?o=2"))
			return
		}
		w.Write(listingBody(nil, ""))
	})
	client := newListingClient(t, mux)

	sub := &models.SubCategory{Category: models.Category{ID: "apps_topselling_free", Name: "Top Free", DataURL: "list"}}
	list, err := walkListing(context.Background(), client, sub, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Len())
}

func TestFilterSubcategory(t *testing.T) {
	subs := []models.SubCategory{
		{Category: models.Category{ID: "apps_topselling_free", Name: "Top Free"}},
		{Category: models.Category{ID: "apps_movers_shakers", Name: "Movers & Shakers"}},
	}

	got, err := filterSubcategory(subs, "apps_movers_shakers")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Movers & Shakers", got[0].Name)

	_, err = filterSubcategory(subs, "missing")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("unknown subcategory %q", "missing"), err.Error())
}
