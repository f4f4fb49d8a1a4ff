package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/pipeline"
	"github.com/veridian-group/esia-cli/internal/resilience"
	"github.com/veridian-group/esia-cli/internal/router"
	"github.com/veridian-group/esia-cli/internal/store"
)

// readChunks loads a chunked document from a JSON file: an array of
// {chunk_id, page, section, text, token_count} objects.
func readChunks(path string) ([]model.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open chunks file %s", path)
	}
	defer f.Close() //nolint:errcheck

	var chunks []model.Chunk
	if err := json.NewDecoder(f).Decode(&chunks); err != nil {
		return nil, eris.Wrapf(err, "decode chunks file %s", path)
	}
	if len(chunks) == 0 {
		return nil, eris.Errorf("chunks file %s is empty", path)
	}
	return chunks, nil
}

// buildCatalog loads the embedded domain catalog with its keyword index
// and template resolver.
func buildCatalog() (*catalog.Catalog, *catalog.Index, *catalog.Resolver, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "load catalog")
	}
	idx, err := catalog.BuildIndex(cat)
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "build catalog index")
	}
	return cat, idx, catalog.NewResolver(cat), nil
}

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
}

func routerConfig() router.Config {
	return router.Config{
		FuzzyWeight:   cfg.Router.FuzzyWeight,
		KeywordWeight: cfg.Router.KeywordWeight,
		MinConfidence: router.Threshold(cfg.Router.MinConfidence),
	}
}

func pipelineConfig() pipeline.Config {
	return pipeline.Config{
		TopN:                  cfg.Router.TopN,
		MaxConcurrentSections: cfg.Pipeline.MaxConcurrentSections,
		RequestsPerSecond:     cfg.Pipeline.RequestsPerSecond,
		Burst:                 cfg.Pipeline.Burst,
		Retry: resilience.RetryConfig{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond,
			MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMs) * time.Millisecond,
			Multiplier:     cfg.Retry.BackoffMultiplier,
			JitterFraction: cfg.Retry.JitterFraction,
		},
		Router:      routerConfig(),
		ChunkWindow: cfg.Classifier.ChunkWindow,
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
