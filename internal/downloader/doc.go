// Package downloader persists enumerated asset references to the local
// filesystem.
//
// Each reference URI is first resolved to its final transfer URI by asking
// the catalog API for the redirect target without following it. The engine
// then dispatches on the transfer scheme: s3 URIs stream through a gocloud
// blob bucket, http(s) URIs stream through the retrying HTTP client. Assets
// with no resolvable transfer URI are skipped, never fatal; batch downloads
// report skips and failures per asset so siblings always complete.
package downloader
