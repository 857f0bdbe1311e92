package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dataJSA/radiant-mlhub/internal/catalog"
	"github.com/dataJSA/radiant-mlhub/internal/config"
	"github.com/dataJSA/radiant-mlhub/internal/logging"
)

func runDescribe(args []string) int {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	collection := fs.String("collection", "", "Collection id (default: "+config.DefaultCollectionID+")")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: mlhub describe [options]

Print the collection's title, license, DOI and citation.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configPath, config.Config{CollectionID: *collection})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := signalContext()
	defer cancel()

	_, session := newSession(cfg)

	c, err := session.Describe(ctx)
	if err != nil {
		logger.Error().Err(err).Str("collection", cfg.CollectionID).Msg("describe failed")
		return ExitGeneralError
	}

	catalog.WriteDescription(os.Stdout, c)
	return ExitSuccess
}
