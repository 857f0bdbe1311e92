package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dataJSA/radiant-mlhub/internal/config"
	"github.com/dataJSA/radiant-mlhub/internal/logging"
)

func runItem(args []string) int {
	fs := flag.NewFlagSet("item", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	collection := fs.String("collection", "", "Collection id (default: "+config.DefaultCollectionID+")")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: mlhub item [options] <item-id> [item-id...]

Fetch one or more catalog items by id and print them as JSON.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	ids := fs.Args()
	if len(ids) == 0 {
		fs.Usage()
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

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(ids) == 1 {
		item, err := session.GetItem(ctx, cfg.CollectionID, ids[0])
		if err != nil {
			logger.Error().Err(err).Str("item", ids[0]).Msg("item fetch failed")
			return ExitGeneralError
		}
		if err := enc.Encode(item); err != nil {
			return ExitGeneralError
		}
		return ExitSuccess
	}

	items := session.GetItems(ctx, cfg.CollectionID, ids)

	code := ExitSuccess
	for i, item := range items {
		if item == nil {
			logger.Error().Str("item", ids[i]).Msg("item fetch failed")
			code = ExitGeneralError
			continue
		}
		if err := enc.Encode(item); err != nil {
			return ExitGeneralError
		}
	}
	return code
}
