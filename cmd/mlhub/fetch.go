package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dataJSA/radiant-mlhub/internal/config"
	"github.com/dataJSA/radiant-mlhub/internal/crawler"
	"github.com/dataJSA/radiant-mlhub/internal/downloader"
	"github.com/dataJSA/radiant-mlhub/internal/fanout"
	"github.com/dataJSA/radiant-mlhub/internal/logging"
	"github.com/dataJSA/radiant-mlhub/internal/progress"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	collection := fs.String("collection", "", "Collection id (default: "+config.DefaultCollectionID+")")
	maxItems := fs.Int("max-items", 0, "Maximum number of items to crawl (0 = all)")
	limit := fs.Int("limit", 0, "Page size for collection requests")
	workers := fs.Int("workers", 0, "Parallel workers (0 = min(32, cores+4))")
	labelsOnly := fs.Bool("labels-only", false, "Fetch label rasters only, skip source scenes")
	dryRun := fs.Bool("dry-run", false, "Enumerate asset references without downloading")
	showProgress := fs.Bool("progress", false, "Show download progress")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: mlhub fetch [options]

Crawl a LandCoverNet labels collection and download every enumerated
asset: the label raster of each item under landcovernet/<item-id>/ and
each band of each related source scene under
landcovernet/<item-id>/<date>/.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configPath, config.Config{
		CollectionID: *collection,
		MaxItems:     *maxItems,
		Limit:        *limit,
		Workers:      *workers,
		LabelsOnly:   *labelsOnly,
		Progress:     *showProgress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := signalContext()
	defer cancel()

	client, session := newSession(cfg)
	walker := crawler.NewWalker(session, crawler.WalkerOptions{Workers: cfg.Workers})

	result, err := walker.Crawl(ctx, crawler.CrawlOptions{
		Limit:      cfg.Limit,
		MaxItems:   cfg.MaxItems,
		LastPage:   cfg.LastPage,
		LabelsOnly: cfg.LabelsOnly,
	})
	if err != nil {
		logger.Error().Err(err).Msg("crawl aborted")
		return ExitCrawlError
	}

	logger.Info().
		Int("items", result.ItemsDownloaded).
		Int("assets", len(result.AssetsFetched)).
		Msg("crawl complete")

	if *dryRun {
		for _, ref := range result.AssetsFetched {
			fmt.Printf("%s\t%s\n", ref.Path, ref.URI)
		}
		return ExitSuccess
	}

	poolSize := cfg.Workers
	if poolSize <= 0 {
		poolSize = fanout.DefaultWorkers()
	}

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalAssets: len(result.AssetsFetched),
			Workers:     poolSize,
		})
		reporter.Start()
	}

	engine := downloader.NewEngine(client, downloader.Options{
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
		Progress:  reporter,
	})

	outcome := engine.DownloadAll(ctx, result.AssetsFetched)

	if reporter != nil {
		reporter.Stop()
	}

	// Fetched vs downloaded drift is the caller's signal that assets
	// were skipped or lost; always report both.
	fmt.Fprintf(os.Stderr, "[mlhub] Assets fetched: %d | downloaded: %d | skipped: %d | failed: %d\n",
		len(result.AssetsFetched), outcome.Downloaded, outcome.Skipped, len(outcome.Failed))

	for _, failure := range outcome.Failed {
		logger.Error().
			Err(failure.Err).
			Str("path", failure.Ref.Path).
			Str("uri", failure.Ref.URI).
			Msg("asset not downloaded")
	}

	if ctx.Err() != nil {
		// Interrupted runs report partial completion but exit non-zero.
		return ExitGeneralError
	}
	if len(outcome.Failed) > 0 {
		return ExitDownloadError
	}
	return ExitSuccess
}
