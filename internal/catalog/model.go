package catalog

import "fmt"

// Link is a typed hyperlink between catalog documents.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Asset is a named file attached to an item.
type Asset struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Properties holds the item properties the crawler cares about.
type Properties struct {
	Datetime string `json:"datetime"`
}

// Item is a single catalog feature. It is read-only once parsed.
type Item struct {
	ID         string           `json:"id"`
	Assets     map[string]Asset `json:"assets"`
	Links      []Link           `json:"links"`
	Properties Properties       `json:"properties"`
}

// SourceLinks returns the hrefs of all rel="source" links in document order.
func (it *Item) SourceLinks() []string {
	var hrefs []string
	for _, link := range it.Links {
		if link.Rel == "source" {
			hrefs = append(hrefs, link.Href)
		}
	}
	return hrefs
}

// Page is one page of a paginated collection response.
type Page struct {
	Features []Item `json:"features"`
	Links    []Link `json:"links"`
}

// NextLink returns the href of the page's rel="next" link, or "" when the
// page is the last one.
func (p *Page) NextLink() string {
	for _, link := range p.Links {
		if link.Rel == "next" && link.Href != "" {
			return link.Href
		}
	}
	return ""
}

// Extent describes a collection's spatial and temporal coverage.
type Extent struct {
	Spatial struct {
		BBox [][]float64 `json:"bbox"`
	} `json:"spatial"`
	Temporal struct {
		Interval [][]*string `json:"interval"`
	} `json:"temporal"`
}

// Collection is the collection-level catalog document.
type Collection struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
	Extent      Extent `json:"extent"`
	DOI         string `json:"sci:doi"`
	Citation    string `json:"sci:citation"`
	License     string `json:"license"`
}

// ItemsLink returns the href of the collection's rel="items" link.
func (c *Collection) ItemsLink() string {
	for _, link := range c.Links {
		if link.Rel == "items" {
			return link.Href
		}
	}
	return ""
}

// AssetRef is one resolved (item, asset) entry.
type AssetRef struct {
	ItemID string
	Title  string
	Href   string
}

// MissingAssetError reports a requested asset key absent from an item's
// asset map. It is distinct from transient fetch failures so batch callers
// can tell a malformed item apart from a flaky network.
type MissingAssetError struct {
	ItemID string
	Key    string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("catalog: item %s has no asset %q", e.ItemID, e.Key)
}

// ItemAssets resolves the requested asset keys on an item. The output order
// matches keys. An absent key fails the whole resolution.
func ItemAssets(item *Item, keys []string) ([]AssetRef, error) {
	refs := make([]AssetRef, 0, len(keys))
	for _, key := range keys {
		asset, ok := item.Assets[key]
		if !ok {
			return nil, &MissingAssetError{ItemID: item.ID, Key: key}
		}
		refs = append(refs, AssetRef{
			ItemID: item.ID,
			Title:  asset.Title,
			Href:   asset.Href,
		})
	}
	return refs, nil
}
