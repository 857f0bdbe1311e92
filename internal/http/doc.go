// Package http provides the retrying HTTP client used for all MLHub
// API traffic.
//
// This package handles:
//   - Bearer-token auth and Accept headers on catalog requests
//   - Retry with exponential backoff and jitter for connection errors
//     and 500/502/504 responses
//   - JSON document fetches (redirects followed)
//   - Redirect-suppressed fetches for transfer-URI resolution
//   - Content streaming for asset downloads
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    Token:         token,
//	    RetryAttempts: 5,
//	})
//
//	// Fetch a catalog document
//	var item catalog.Item
//	err := client.GetJSON(ctx, uri, &item)
//
//	// Resolve a redirect without following it
//	resp, err := client.GetNoFollow(ctx, uri)
//	// resp.StatusCode, resp.Location
package http
