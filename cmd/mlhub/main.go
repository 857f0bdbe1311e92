package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dataJSA/radiant-mlhub/internal/catalog"
	"github.com/dataJSA/radiant-mlhub/internal/config"
	mlhubhttp "github.com/dataJSA/radiant-mlhub/internal/http"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitConfigError   = 3
	ExitCrawlError    = 4
	ExitDownloadError = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "fetch":
		return runFetch(rest)
	case "item":
		return runItem(rest)
	case "describe":
		return runDescribe(rest)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: mlhub <command> [options]

Crawl Radiant MLHub LandCoverNet collections and download their imagery.

Commands:
  fetch     Crawl a collection and download its label and source assets
  describe  Print a human-readable description of the collection
  item      Fetch catalog items by id and print them as JSON
  help      Show this help

Run 'mlhub <command> -h' for command options.

The API token is read from MLHUB_ACCESS_TOKEN unless set in the config
file. All MLHUB_* environment variables override config file values.`)
}

// loadConfig builds the effective configuration: defaults, then config
// file, then environment, then flag overrides. The environment lookup
// happens only here, at the composition root.
func loadConfig(path string, override config.Config) (config.Config, error) {
	cfg := config.Default()

	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newSession wires the retrying client and catalog session from config.
func newSession(cfg config.Config) (*mlhubhttp.Client, *catalog.Session) {
	clientOpts := mlhubhttp.DefaultOptions()
	clientOpts.Token = cfg.Token
	clientOpts.RetryAttempts = cfg.Retry.Attempts
	clientOpts.RetryBackoff = cfg.Retry.Backoff
	clientOpts.RetryMaxBackoff = cfg.Retry.MaxBackoff

	client := mlhubhttp.NewClient(clientOpts)
	session := catalog.NewSession(client, catalog.SessionConfig{
		BaseURL:      cfg.BaseURL,
		CollectionID: cfg.CollectionID,
		FeatureID:    cfg.FeatureID,
		Workers:      cfg.Workers,
	})
	return client, session
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[mlhub] Received interrupt, shutting down...")
		cancel()
	}()

	return ctx, cancel
}
