//go:build integration

package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"

	"github.com/dataJSA/radiant-mlhub/internal/crawler"
	mlhubhttp "github.com/dataJSA/radiant-mlhub/internal/http"
	"github.com/dataJSA/radiant-mlhub/internal/testutils"
)

func TestDownloadBucketMinio(t *testing.T) {
	ctx := context.Background()
	env := testutils.StartMinioContainer(t, ctx, "imagery")
	defer env.Close(ctx)

	payload := []byte("scene band payload")
	bucket, err := env.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	if err := bucket.WriteAll(ctx, "scenes/tile_1/b01.tif", payload, nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}
	bucket.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "s3://imagery/scenes/tile_1/b01.tif")
		w.WriteHeader(http.StatusFound)
	}))
	defer api.Close()

	clientOpts := mlhubhttp.DefaultOptions()
	clientOpts.RetryBackoff = time.Millisecond
	nop := zerolog.Nop()

	engine := NewEngine(mlhubhttp.NewClient(clientOpts), Options{
		Logger: &nop,
		OpenBucket: func(ctx context.Context, host string) (*blob.Bucket, error) {
			return blob.OpenBucket(ctx, env.BucketURL)
		},
	})

	dir := filepath.Join(t.TempDir(), "landcovernet", "tile_1", "2020_03_04") + "/"
	ref := crawler.AssetReference{Path: dir, URI: api.URL + "/ref"}
	if err := engine.Download(ctx, ref); err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "b01.tif"))
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("content: got %q, want %q", got, payload)
	}
}
