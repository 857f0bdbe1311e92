package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dataJSA/radiant-mlhub/internal/catalog"
)

// CrawlOptions configures one collection traversal.
type CrawlOptions struct {
	// StartURI is the first page to fetch. Defaults to the session's
	// collection items URI.
	StartURI string

	// Limit is the requested page size. Default: 100.
	Limit int

	// MaxItems bounds the number of items processed. 0 means unbounded.
	// The crawl stops on the exact item that reaches the bound.
	MaxItems int

	// LastPage caps the page-ordinal fallback after a failed page fetch.
	// Default: 20.
	LastPage int

	// LabelsOnly restricts the per-item resolution to label rasters.
	LabelsOnly bool
}

// Result is the outcome of one crawl.
type Result struct {
	// ItemsDownloaded counts items actually resolved into references.
	ItemsDownloaded int

	// AssetsFetched is the flat, ordered list of enumerated references.
	AssetsFetched []AssetReference
}

// Crawl walks the paginated collection from opts.StartURI, resolving each
// feature into asset references. Continuation prefers rel="next" links; a
// failed page fetch advances by page ordinal instead, up to opts.LastPage.
// An empty but successful page never triggers the ordinal fallback.
func (w *Walker) Crawl(ctx context.Context, opts CrawlOptions) (*Result, error) {
	if opts.StartURI == "" {
		opts.StartURI = w.session.CollectionItemsURI()
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.LastPage <= 0 {
		opts.LastPage = 20
	}

	result := &Result{}
	uri := opts.StartURI

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageURI, err := withLimit(uri, opts.Limit)
		if err != nil {
			return result, fmt.Errorf("crawl: bad page uri %q: %w", uri, err)
		}

		page, err := w.session.GetPage(ctx, pageURI)
		if err != nil {
			next := pageNumber(pageURI) + 1
			if next > opts.LastPage {
				w.log.Warn().
					Err(err).
					Str("uri", pageURI).
					Int("last_page", opts.LastPage).
					Msg("page fetch failed at page ceiling, stopping crawl")
				return result, nil
			}
			w.log.Warn().
				Err(err).
				Str("uri", pageURI).
				Int("next_page", next).
				Msg("page fetch failed, advancing by page number")
			uri = fmt.Sprintf("%s?page=%d&limit=%d", w.session.CollectionItemsURI(), next, opts.Limit)
			continue
		}

		for i := range page.Features {
			item := &page.Features[i]

			refs, err := w.resolveItem(ctx, item, opts.LabelsOnly)
			if err != nil {
				w.log.Warn().
					Err(err).
					Str("item", item.ID).
					Msg("item resolution failed, skipping item")
				continue
			}

			w.log.Info().
				Str("item", item.ID).
				Int("assets", len(refs)).
				Msg("fetched asset references")

			result.AssetsFetched = append(result.AssetsFetched, refs...)
			result.ItemsDownloaded++

			if opts.MaxItems > 0 && result.ItemsDownloaded >= opts.MaxItems {
				return result, nil
			}
		}

		next := page.NextLink()
		if next == "" {
			return result, nil
		}
		uri = next
	}
}

// resolveItem flattens one feature into asset references.
func (w *Walker) resolveItem(ctx context.Context, item *catalog.Item, labelsOnly bool) ([]AssetReference, error) {
	if labelsOnly {
		return w.LabelAssets(item)
	}

	groups, err := w.AllAssets(ctx, item)
	if err != nil {
		return nil, err
	}

	var refs []AssetReference
	for _, group := range groups {
		refs = append(refs, group...)
	}
	return refs, nil
}

// withLimit appends the limit query parameter unless the URI already
// carries one (next links from the API embed their own).
func withLimit(uri string, limit int) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Has("limit") {
		return uri, nil
	}
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// pageNumber reads the page ordinal from a URI's query string. A URI with
// no page parameter is the first page.
func pageNumber(uri string) int {
	u, err := url.Parse(uri)
	if err != nil {
		return 1
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
