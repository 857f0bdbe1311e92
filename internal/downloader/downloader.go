package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/dataJSA/radiant-mlhub/internal/crawler"
	"github.com/dataJSA/radiant-mlhub/internal/fanout"
	mlhubhttp "github.com/dataJSA/radiant-mlhub/internal/http"
	"github.com/dataJSA/radiant-mlhub/internal/logging"
	"github.com/dataJSA/radiant-mlhub/internal/progress"
)

// ErrNoTransferURI marks an asset whose reference URI resolved to no usable
// transfer location. Batch callers count it as a skip, not a failure.
var ErrNoTransferURI = errors.New("downloader: no transfer uri for asset")

// Options configures the download engine.
type Options struct {
	// Workers bounds parallel downloads in DownloadAll.
	// <= 0 selects the fanout default.
	Workers int

	// ChunkSize is the buffer size for HTTP streaming.
	// Default: 512KB.
	ChunkSize int64

	// OpenBucket opens the object-storage bucket for an s3 transfer URI
	// host. Defaults to the gocloud s3 driver; tests substitute memblob.
	OpenBucket func(ctx context.Context, host string) (*blob.Bucket, error)

	// Progress is an optional progress reporter.
	Progress *progress.Reporter

	// Logger overrides the package component logger.
	Logger *zerolog.Logger
}

// Engine downloads assets and keeps the session's audit record of what was
// actually persisted.
type Engine struct {
	client *mlhubhttp.Client
	opts   Options
	log    zerolog.Logger

	mu         sync.Mutex
	downloaded []crawler.AssetReference
}

// Failure records one asset that could not be persisted.
type Failure struct {
	Ref crawler.AssetReference
	Err error
}

// Outcome summarizes a batch download. Downloaded + Skipped + len(Failed)
// equals the batch size.
type Outcome struct {
	Downloaded int
	Skipped    int
	Failed     []Failure
}

// NewEngine creates a download engine on top of the retrying HTTP client.
func NewEngine(client *mlhubhttp.Client, opts Options) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 512 * 1024
	}
	if opts.OpenBucket == nil {
		opts.OpenBucket = func(ctx context.Context, host string) (*blob.Bucket, error) {
			return blob.OpenBucket(ctx, "s3://"+host)
		}
	}

	log := logging.NewLogger("downloader")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Engine{
		client: client,
		opts:   opts,
		log:    log,
	}
}

// ResolveTransferURI turns an opaque reference URI into its final transfer
// URI by reading the Location header of a redirect-suppressed GET. Statuses
// 200, 302, and 401 expose the header; anything else, an absent header, or
// transport failure resolves to no transfer.
func (e *Engine) ResolveTransferURI(ctx context.Context, referenceURI string) (string, bool) {
	resp, err := e.client.GetNoFollow(ctx, referenceURI)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("uri", referenceURI).
			Msg("transfer resolution failed")
		return "", false
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusFound, http.StatusUnauthorized:
		if resp.Location == "" {
			e.log.Debug().
				Int("status", resp.StatusCode).
				Str("uri", referenceURI).
				Msg("no location header for reference uri")
			return "", false
		}
		return resp.Location, true
	default:
		e.log.Debug().
			Int("status", resp.StatusCode).
			Str("uri", referenceURI).
			Msg("unexpected status resolving transfer uri")
		return "", false
	}
}

// Download persists one asset. The destination directory is created if
// absent. An unresolvable transfer URI returns ErrNoTransferURI with no
// file written; storage and transport failures propagate.
func (e *Engine) Download(ctx context.Context, ref crawler.AssetReference) error {
	if e.opts.Progress != nil {
		e.opts.Progress.AssetStarted()
	}

	err := e.download(ctx, ref)

	switch {
	case err == nil:
		e.mu.Lock()
		e.downloaded = append(e.downloaded, ref)
		e.mu.Unlock()
	case errors.Is(err, ErrNoTransferURI):
		if e.opts.Progress != nil {
			e.opts.Progress.AssetSkipped()
		}
	default:
		if e.opts.Progress != nil {
			e.opts.Progress.AssetFailed()
		}
	}

	return err
}

func (e *Engine) download(ctx context.Context, ref crawler.AssetReference) error {
	if err := os.MkdirAll(ref.Path, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", ref.Path, err)
	}

	transferURI, ok := e.ResolveTransferURI(ctx, ref.URI)
	if !ok {
		return ErrNoTransferURI
	}

	u, err := url.Parse(transferURI)
	if err != nil {
		return fmt.Errorf("parse transfer uri %q: %w", transferURI, err)
	}

	switch u.Scheme {
	case "s3":
		err = e.downloadBucket(ctx, u, ref.Path)
	case "http", "https":
		err = e.downloadHTTP(ctx, transferURI, u, ref.Path)
	default:
		err = fmt.Errorf("unsupported transfer scheme %q", u.Scheme)
	}
	if err != nil {
		return err
	}

	e.log.Info().
		Str("asset", path.Base(u.Path)).
		Str("path", ref.Path).
		Msg("downloaded asset")
	return nil
}

// downloadBucket streams an object-storage asset: bucket = URI host,
// key = URI path. Credential and permission errors propagate unretried.
func (e *Engine) downloadBucket(ctx context.Context, u *url.URL, dir string) error {
	bucket, err := e.opts.OpenBucket(ctx, u.Host)
	if err != nil {
		return fmt.Errorf("open bucket %s: %w", u.Host, err)
	}
	defer bucket.Close()

	key := strings.TrimPrefix(u.Path, "/")
	reader, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open object %s/%s: %w", u.Host, key, err)
	}
	defer reader.Close()

	return e.writeFile(filepath.Join(dir, path.Base(key)), reader)
}

// downloadHTTP streams an HTTP-hosted asset through the retrying client.
func (e *Engine) downloadHTTP(ctx context.Context, transferURI string, u *url.URL, dir string) error {
	body, err := e.client.Get(ctx, transferURI)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", transferURI, err)
	}
	defer body.Close()

	return e.writeFile(filepath.Join(dir, path.Base(u.Path)), body)
}

// writeFile streams reader to dest in fixed-size chunks, skipping
// zero-length reads.
func (e *Engine) writeFile(dest string, reader io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file %s: %w", dest, err)
	}

	buf := make([]byte, e.opts.ChunkSize)
	var written int64
	for {
		n, rerr := reader.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", dest, werr)
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			return fmt.Errorf("read stream for %s: %w", dest, rerr)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	if e.opts.Progress != nil {
		e.opts.Progress.AssetCompleted(written)
	}
	return nil
}

// DownloadAll fans the batch out over the worker pool and aggregates the
// per-asset outcomes. A failed or skipped asset never interrupts siblings.
func (e *Engine) DownloadAll(ctx context.Context, refs []crawler.AssetReference) Outcome {
	errs := fanout.Map(ctx, e.opts.Workers, refs, func(ctx context.Context, ref crawler.AssetReference) error {
		err := e.Download(ctx, ref)
		if err != nil && !errors.Is(err, ErrNoTransferURI) {
			e.log.Warn().
				Err(err).
				Str("path", ref.Path).
				Str("uri", ref.URI).
				Msg("asset download failed")
		}
		return err
	})

	var outcome Outcome
	for i, err := range errs {
		switch {
		case err == nil:
			outcome.Downloaded++
		case errors.Is(err, ErrNoTransferURI):
			outcome.Skipped++
		default:
			outcome.Failed = append(outcome.Failed, Failure{Ref: refs[i], Err: err})
		}
	}
	return outcome
}

// Downloaded returns a copy of the session's persisted-asset record.
func (e *Engine) Downloaded() []crawler.AssetReference {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]crawler.AssetReference(nil), e.downloaded...)
}
