package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mlhubhttp "github.com/dataJSA/radiant-mlhub/internal/http"
)

func newTestClient() *mlhubhttp.Client {
	opts := mlhubhttp.DefaultOptions()
	opts.RetryAttempts = 1
	opts.RetryBackoff = time.Millisecond
	return mlhubhttp.NewClient(opts)
}

func TestItemAssetsOrderMatchesKeys(t *testing.T) {
	item := &Item{
		ID: "tile_1",
		Assets: map[string]Asset{
			"B02":    {Title: "Blue", Href: "http://x/b02.tif"},
			"B01":    {Title: "Coastal", Href: "http://x/b01.tif"},
			"labels": {Title: "Labels", Href: "http://x/lab.tif"},
		},
	}

	refs, err := ItemAssets(item, []string{"labels", "B01", "B02"})
	if err != nil {
		t.Fatalf("ItemAssets: %v", err)
	}

	want := []AssetRef{
		{ItemID: "tile_1", Title: "Labels", Href: "http://x/lab.tif"},
		{ItemID: "tile_1", Title: "Coastal", Href: "http://x/b01.tif"},
		{ItemID: "tile_1", Title: "Blue", Href: "http://x/b02.tif"},
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d]: got %+v, want %+v", i, refs[i], want[i])
		}
	}
}

func TestItemAssetsMissingKey(t *testing.T) {
	item := &Item{ID: "tile_1", Assets: map[string]Asset{}}

	_, err := ItemAssets(item, []string{"labels"})
	var missing *MissingAssetError
	if !errors.As(err, &missing) {
		t.Fatalf("error: got %v, want *MissingAssetError", err)
	}
	if missing.ItemID != "tile_1" || missing.Key != "labels" {
		t.Errorf("error fields: got %+v", missing)
	}
}

func TestSessionDerivedURIs(t *testing.T) {
	s := NewSession(nil, SessionConfig{
		BaseURL:      "https://api.example.com/mlhub/v1",
		CollectionID: "ref_landcovernet_v1_labels",
		FeatureID:    "tile_1",
	})

	if got, want := s.CollectionURI(), "https://api.example.com/mlhub/v1/collections/ref_landcovernet_v1_labels"; got != want {
		t.Errorf("CollectionURI: got %q, want %q", got, want)
	}
	if got, want := s.CollectionItemsURI(), "https://api.example.com/mlhub/v1/collections/ref_landcovernet_v1_labels/items"; got != want {
		t.Errorf("CollectionItemsURI: got %q, want %q", got, want)
	}
	if got, want := s.CollectionFeatureURI(), "https://api.example.com/mlhub/v1/collections/ref_landcovernet_v1_labels/items/tile_1"; got != want {
		t.Errorf("CollectionFeatureURI: got %q, want %q", got, want)
	}
}

func TestGetItemReturnsMatchingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/labels/items/tile_7" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":"tile_7","assets":{"labels":{"title":"t","href":"http://x/lab.tif"}}}`)
	}))
	defer server.Close()

	s := NewSession(newTestClient(), SessionConfig{BaseURL: server.URL, CollectionID: "labels"})
	item, err := s.GetItem(context.Background(), "", "tile_7")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.ID != "tile_7" {
		t.Errorf("item id: got %q, want tile_7", item.ID)
	}
}

func TestGetItemFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSession(newTestClient(), SessionConfig{BaseURL: server.URL, CollectionID: "labels"})
	item, err := s.GetItem(context.Background(), "", "tile_7")
	if err == nil {
		t.Fatal("GetItem succeeded, want error after retry exhaustion")
	}
	if item != nil {
		t.Errorf("item: got %+v, want nil", item)
	}
}

func TestGetItemsIndexedWithNilOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		fmt.Fprintf(w, `{"id":%q}`, id)
	}))
	defer server.Close()

	s := NewSession(newTestClient(), SessionConfig{BaseURL: server.URL, CollectionID: "labels", Workers: 4})
	items := s.GetItems(context.Background(), "", []string{"a", "bad", "c"})

	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3", len(items))
	}
	if items[0] == nil || items[0].ID != "a" {
		t.Errorf("items[0]: got %+v, want id a", items[0])
	}
	if items[1] != nil {
		t.Errorf("items[1]: got %+v, want nil for failed fetch", items[1])
	}
	if items[2] == nil || items[2].ID != "c" {
		t.Errorf("items[2]: got %+v, want id c", items[2])
	}
}

func TestSourceLinks(t *testing.T) {
	item := &Item{Links: []Link{
		{Rel: "self", Href: "http://x/self"},
		{Rel: "source", Href: "http://x/src1"},
		{Rel: "collection", Href: "http://x/coll"},
		{Rel: "source", Href: "http://x/src2"},
	}}

	links := item.SourceLinks()
	if len(links) != 2 || links[0] != "http://x/src1" || links[1] != "http://x/src2" {
		t.Errorf("SourceLinks: got %v", links)
	}
}

func TestPageNextLink(t *testing.T) {
	page := &Page{Links: []Link{
		{Rel: "self", Href: "http://x/items?page=1"},
		{Rel: "next", Href: "http://x/items?page=2"},
	}}
	if got := page.NextLink(); got != "http://x/items?page=2" {
		t.Errorf("NextLink: got %q", got)
	}

	last := &Page{Links: []Link{{Rel: "next", Href: ""}}}
	if got := last.NextLink(); got != "" {
		t.Errorf("NextLink on last page: got %q, want empty", got)
	}
}

func TestDescribeAndWriteDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "ref_landcovernet_v1_labels",
			"description": "LandCoverNet annotations",
			"license": "CC-BY-4.0",
			"sci:doi": "10.1234/example",
			"links": [{"rel": "items", "href": "http://x/items"}],
			"extent": {
				"spatial": {"bbox": [[-20.0, -35.0, 55.0, 38.0]]},
				"temporal": {"interval": [["2018-01-01T00:00:00Z", null]]}
			}
		}`)
	}))
	defer server.Close()

	s := NewSession(newTestClient(), SessionConfig{BaseURL: server.URL, CollectionID: "ref_landcovernet_v1_labels"})
	collection, err := s.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	var buf bytes.Buffer
	WriteDescription(&buf, collection)

	out := buf.String()
	for _, want := range []string{"LandCoverNet annotations", "ref_landcovernet_v1_labels", "http://x/items", "10.1234/example", "CC-BY-4.0", "2018-01-01T00:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("description missing %q:\n%s", want, out)
		}
	}
}
