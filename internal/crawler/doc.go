// Package crawler walks paginated MLHub collections and flattens them into
// downloadable asset references.
//
// The walker resolves each label item into destination-path/source-URI
// pairs: the label raster lands under landcovernet/{item-id}/, and each band
// of each related source scene lands under landcovernet/{item-id}/{date}/.
// The crawl follows rel="next" links page by page, and falls back to page
// ordinal arithmetic (capped at a configured last page) when a page fetch
// fails outright.
//
// # Usage
//
//	walker := crawler.NewWalker(session, crawler.WalkerOptions{Workers: 8})
//	result, err := walker.Crawl(ctx, crawler.CrawlOptions{MaxItems: 100})
//	// result.AssetsFetched, result.ItemsDownloaded
package crawler
