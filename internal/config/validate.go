package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration is usable for the given mode.
// Modes: "extract" (full pipeline with API calls and persistence),
// "route" (offline routing only), "serve" (HTTP API).
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "extract":
		check(c.Anthropic.Key != "", "anthropic.key is required")
		check(c.Store.DatabaseURL != "", "store.database_url is required")
	case "route":
		// No credentials needed; routing runs entirely offline.
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	check(c.Router.FuzzyWeight >= 0 && c.Router.FuzzyWeight <= 1,
		"router.fuzzy_weight must be between 0 and 1")
	check(c.Router.KeywordWeight >= 0 && c.Router.KeywordWeight <= 1,
		"router.keyword_weight must be between 0 and 1")
	check(c.Router.MinConfidence >= 0 && c.Router.MinConfidence <= 1,
		"router.min_confidence must be between 0 and 1")
	check(c.Pipeline.MaxConcurrentSections >= 1 && c.Pipeline.MaxConcurrentSections <= 64,
		"pipeline.max_concurrent_sections must be between 1 and 64")
	check(c.Pipeline.RequestsPerSecond > 0,
		"pipeline.requests_per_second must be > 0")

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
