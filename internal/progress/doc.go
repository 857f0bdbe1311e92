// Package progress reports download progress in human-readable form.
//
// The reporter tracks assets rather than bytes-of-one-file: how many were
// started, persisted, skipped (no transfer URI), or failed, plus the bytes
// moved so far. The gap between enumerated and persisted assets is the
// caller's signal that a crawl and its downloads have drifted apart.
package progress
