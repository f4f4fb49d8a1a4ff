// Package pipeline orchestrates a document run: classify the project type,
// compose the applicable domain set, route each section, and invoke the
// extraction engine per candidate domain, aggregating partial results.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/engine"
	"github.com/veridian-group/esia-cli/internal/loader"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/resilience"
	"github.com/veridian-group/esia-cli/internal/router"
)

// Config controls orchestration behavior.
type Config struct {
	// TopN caps candidate domains per section.
	TopN int
	// MaxConcurrentSections bounds the worker pool. Routing is CPU-cheap;
	// this mainly gates concurrent extraction engine calls.
	MaxConcurrentSections int
	// RequestsPerSecond and Burst shape the engine rate limiter.
	RequestsPerSecond float64
	Burst             int
	// Retry is the per-call budget for transient engine failures.
	Retry resilience.RetryConfig
	// Router overrides the routing constants.
	Router router.Config
	// ChunkWindow is how many opening chunks the classifier scans.
	// Zero uses the classifier default.
	ChunkWindow int
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = router.DefaultTopN
	}
	if c.MaxConcurrentSections <= 0 {
		c.MaxConcurrentSections = 8
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	return c
}

// Orchestrator drives extraction for one document at a time. All fields are
// read-only after construction; Run may be called concurrently.
type Orchestrator struct {
	catalog  *catalog.Catalog
	index    *catalog.Index
	resolver *catalog.Resolver
	engine   engine.Engine
	limiter  *rate.Limiter
	cfg      Config
}

// New builds an orchestrator over a loaded catalog and extraction engine.
func New(cat *catalog.Catalog, idx *catalog.Index, resolver *catalog.Resolver, eng engine.Engine, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		catalog:  cat,
		index:    idx,
		resolver: resolver,
		engine:   eng,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:      cfg,
	}
}

// section groups all chunks sharing one heading, in document order.
type section struct {
	heading string
	page    int
	text    string
}

// groupSections merges consecutive and non-consecutive chunks with the same
// heading into one section, preserving first-appearance order. The page is
// the first page the heading appears on.
func groupSections(chunks []model.Chunk) []section {
	var sections []section
	byHeading := make(map[string]int)

	for _, ch := range chunks {
		if i, ok := byHeading[ch.Section]; ok {
			sections[i].text += "\n" + ch.Text
			continue
		}
		byHeading[ch.Section] = len(sections)
		sections = append(sections, section{
			heading: ch.Section,
			page:    ch.Page,
			text:    ch.Text,
		})
	}
	return sections
}

// Run extracts structured facts from one chunked document. A section or
// domain that fails is recorded and skipped; one bad section never aborts
// the run. The only terminal error is context cancellation.
func (o *Orchestrator) Run(ctx context.Context, document string, chunks []model.Chunk) (*model.RunResult, model.ClassificationResult, error) {
	start := time.Now()

	applicable, classification := loader.FromChunks(chunks, o.catalog, o.cfg.ChunkWindow)
	sections := groupSections(chunks)

	zap.L().Info("pipeline: starting extraction run",
		zap.String("document", document),
		zap.Int("chunks", len(chunks)),
		zap.Int("sections", len(sections)),
		zap.String("project_type", classification.ProjectType),
	)

	results := make([]model.SectionExtraction, len(sections))
	var mu sync.Mutex
	var usage model.TokenUsage

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrentSections)

	for i, sec := range sections {
		g.Go(func() error {
			se, secUsage := o.processSection(gctx, sec, applicable)
			results[i] = se
			mu.Lock()
			usage.Add(secUsage)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, classification, err
	}

	result := &model.RunResult{
		Sections:   results,
		Usage:      usage,
		DurationMs: time.Since(start).Milliseconds(),
	}
	for _, se := range results {
		if len(se.Candidates) == 0 {
			result.SectionsSkipped++
			continue
		}
		result.SectionsRouted++
		for _, f := range se.Facts {
			if f.Failed {
				result.FactsFailed++
			} else {
				result.FactsExtracted++
			}
		}
	}

	zap.L().Info("pipeline: extraction run complete",
		zap.String("document", document),
		zap.Int("sections_routed", result.SectionsRouted),
		zap.Int("sections_skipped", result.SectionsSkipped),
		zap.Int("facts_extracted", result.FactsExtracted),
		zap.Int("facts_failed", result.FactsFailed),
		zap.Int64("duration_ms", result.DurationMs),
	)

	return result, classification, nil
}

func (o *Orchestrator) processSection(ctx context.Context, sec section, applicable *loader.Set) (model.SectionExtraction, model.TokenUsage) {
	candidates := router.RouteWithConfig(sec.heading, o.index, applicable, o.cfg.TopN, o.cfg.Router)

	se := model.SectionExtraction{
		Section:     sec.heading,
		Page:        sec.page,
		Candidates:  candidates,
		MultiDomain: len(candidates) > 1,
	}
	var usage model.TokenUsage

	if len(candidates) == 0 {
		// Normal outcome: table-of-contents pages, appendix lists, etc.
		zap.L().Debug("pipeline: no domain candidates for section",
			zap.String("section", sec.heading),
		)
		return se, usage
	}

	for _, cand := range candidates {
		tmpl, err := o.resolver.Resolve(cand.DomainKey)
		if err != nil {
			if errors.Is(err, catalog.ErrUnresolvedKey) {
				zap.L().Warn("pipeline: skipping unresolved domain key",
					zap.String("section", sec.heading),
					zap.String("domain", cand.DomainKey),
				)
				continue
			}
			se.Facts = append(se.Facts, model.DomainFacts{
				DomainKey:  cand.DomainKey,
				Confidence: cand.Confidence,
				Failed:     true,
				FailReason: err.Error(),
			})
			continue
		}

		retry := o.cfg.Retry
		if retry.OnRetry == nil {
			retry.OnRetry = resilience.RetryLogger(tmpl.DomainKey)
		}
		res, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*engine.Result, error) {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return o.engine.Extract(ctx, sec.text, tmpl)
		})
		if err != nil {
			zap.L().Warn("pipeline: extraction failed for section/domain",
				zap.String("section", sec.heading),
				zap.String("domain", tmpl.DomainKey),
				zap.Error(err),
			)
			se.Facts = append(se.Facts, model.DomainFacts{
				DomainKey:  tmpl.DomainKey,
				Confidence: cand.Confidence,
				Failed:     true,
				FailReason: err.Error(),
			})
			continue
		}

		usage.Add(res.Usage)
		if !res.Found {
			continue
		}
		se.Facts = append(se.Facts, model.DomainFacts{
			DomainKey:  tmpl.DomainKey,
			Confidence: cand.Confidence,
			Fields:     res.Fields,
		})
	}

	return se, usage
}
