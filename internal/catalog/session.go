package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/dataJSA/radiant-mlhub/internal/fanout"
)

// SessionConfig fixes the request targets of one API session. All derived
// URIs are computed once at construction and never recomputed.
type SessionConfig struct {
	// BaseURL is the catalog API root, without a trailing slash.
	BaseURL string

	// CollectionID is the default collection for item lookups.
	CollectionID string

	// FeatureID is the default item for single-feature lookups. Optional.
	FeatureID string

	// Workers bounds batch item fetches. <= 0 selects the fanout default.
	Workers int
}

// Fetcher is the document-fetch capability a session needs. The concrete
// client owns retries, timeouts, and auth headers.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Session is an immutable view of one catalog API client session.
type Session struct {
	client Fetcher
	cfg    SessionConfig

	collectionURI        string
	collectionItemsURI   string
	collectionFeatureURI string
}

// NewSession creates a session with its request URIs derived from cfg.
func NewSession(client Fetcher, cfg SessionConfig) *Session {
	return &Session{
		client:               client,
		cfg:                  cfg,
		collectionURI:        cfg.BaseURL + "/collections/" + cfg.CollectionID,
		collectionItemsURI:   cfg.BaseURL + "/collections/" + cfg.CollectionID + "/items",
		collectionFeatureURI: cfg.BaseURL + "/collections/" + cfg.CollectionID + "/items/" + cfg.FeatureID,
	}
}

// CollectionURI returns the default collection document URI.
func (s *Session) CollectionURI() string { return s.collectionURI }

// CollectionItemsURI returns the default paginated items URI.
func (s *Session) CollectionItemsURI() string { return s.collectionItemsURI }

// CollectionFeatureURI returns the default single-feature URI.
func (s *Session) CollectionFeatureURI() string { return s.collectionFeatureURI }

// GetItem fetches one item document. Empty collectionID or itemID fall back
// to the session defaults.
func (s *Session) GetItem(ctx context.Context, collectionID, itemID string) (*Item, error) {
	if collectionID == "" {
		collectionID = s.cfg.CollectionID
	}
	if itemID == "" {
		itemID = s.cfg.FeatureID
	}
	uri := s.cfg.BaseURL + "/collections/" + collectionID + "/items/" + itemID

	var item Item
	if err := s.client.GetJSON(ctx, uri, &item); err != nil {
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetURI fetches an item document at an explicit URI, as found in
// relationship links.
func (s *Session) GetURI(ctx context.Context, uri string) (*Item, error) {
	var item Item
	if err := s.client.GetJSON(ctx, uri, &item); err != nil {
		return nil, fmt.Errorf("get item at %s: %w", uri, err)
	}
	return &item, nil
}

// GetPage fetches one page of a paginated collection endpoint.
func (s *Session) GetPage(ctx context.Context, uri string) (*Page, error) {
	var page Page
	if err := s.client.GetJSON(ctx, uri, &page); err != nil {
		return nil, fmt.Errorf("get page at %s: %w", uri, err)
	}
	return &page, nil
}

// GetItems fetches many items by id in parallel. The result is indexed by
// input position; an entry is nil when that item's fetch ultimately failed.
func (s *Session) GetItems(ctx context.Context, collectionID string, itemIDs []string) []*Item {
	return fanout.Map(ctx, s.cfg.Workers, itemIDs, func(ctx context.Context, id string) *Item {
		item, err := s.GetItem(ctx, collectionID, id)
		if err != nil {
			return nil
		}
		return item
	})
}

// Describe fetches the session's collection document.
func (s *Session) Describe(ctx context.Context) (*Collection, error) {
	var collection Collection
	if err := s.client.GetJSON(ctx, s.collectionURI, &collection); err != nil {
		return nil, fmt.Errorf("describe collection %s: %w", s.cfg.CollectionID, err)
	}
	return &collection, nil
}

// WriteDescription renders a human-readable collection summary.
func WriteDescription(w io.Writer, c *Collection) {
	fmt.Fprintf(w, "Collection: %s\n", c.Description)
	fmt.Fprintf(w, "  ID:       %s\n", c.ID)
	if items := c.ItemsLink(); items != "" {
		fmt.Fprintf(w, "  Items:    %s\n", items)
	}
	if len(c.Extent.Spatial.BBox) > 0 {
		fmt.Fprintf(w, "  Spatial:  %v\n", c.Extent.Spatial.BBox)
	}
	if len(c.Extent.Temporal.Interval) > 0 {
		for _, interval := range c.Extent.Temporal.Interval {
			var from, to string
			if len(interval) > 0 && interval[0] != nil {
				from = *interval[0]
			}
			if len(interval) > 1 && interval[1] != nil {
				to = *interval[1]
			}
			fmt.Fprintf(w, "  Temporal: %s .. %s\n", from, to)
		}
	}
	if c.DOI != "" {
		fmt.Fprintf(w, "  DOI:      %s\n", c.DOI)
	}
	if c.Citation != "" {
		fmt.Fprintf(w, "  Citation: %s\n", c.Citation)
	}
	if c.License != "" {
		fmt.Fprintf(w, "  License:  %s\n", c.License)
	}
}
