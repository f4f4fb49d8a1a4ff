package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridian-group/esia-cli/internal/classify"
	"github.com/veridian-group/esia-cli/internal/cost"
	"github.com/veridian-group/esia-cli/internal/engine"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/pipeline"
	anthropicpkg "github.com/veridian-group/esia-cli/pkg/anthropic"
)

var (
	extractChunksPath string
	extractDocument   string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the full extraction pipeline over a chunked document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		chunks, err := readChunks(extractChunksPath)
		if err != nil {
			return err
		}

		document := extractDocument
		if document == "" {
			document = filepath.Base(extractChunksPath)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		cat, idx, resolver, err := buildCatalog()
		if err != nil {
			return err
		}

		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		eng := engine.New(client, engine.Config{
			Model:     cfg.Anthropic.Model,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
		})
		orch := pipeline.New(cat, idx, resolver, eng, pipelineConfig())

		// Classification is deterministic, so recording it up front matches
		// what the pipeline will compute.
		classification := classify.ClassifyWindow(chunks, cfg.Classifier.ChunkWindow)
		run, err := st.CreateRun(ctx, document, classification)
		if err != nil {
			return eris.Wrap(err, "create run")
		}
		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
			return eris.Wrap(err, "mark run running")
		}

		result, _, err := orch.Run(ctx, document, chunks)
		if err != nil {
			if stErr := st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); stErr != nil {
				zap.L().Warn("mark run failed", zap.String("run_id", run.ID), zap.Error(stErr))
			}
			return eris.Wrapf(err, "extraction run %s", run.ID)
		}

		if err := st.SaveSectionFacts(ctx, run.ID, result.Sections); err != nil {
			return eris.Wrap(err, "save facts")
		}
		if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
			return eris.Wrap(err, "save run result")
		}

		estimatedCost := cost.NewCalculator(cost.DefaultRates()).Claude(cfg.Anthropic.Model, result.Usage)

		zap.L().Info("extraction complete",
			zap.String("run_id", run.ID),
			zap.String("document", document),
			zap.String("project_type", classification.ProjectType),
			zap.Int("sections_routed", result.SectionsRouted),
			zap.Int("facts_extracted", result.FactsExtracted),
			zap.Int("facts_failed", result.FactsFailed),
			zap.Int("input_tokens", result.Usage.InputTokens),
			zap.Int("output_tokens", result.Usage.OutputTokens),
			zap.Float64("estimated_cost_usd", estimatedCost),
		)

		return printJSON(map[string]any{
			"run_id":             run.ID,
			"document":           document,
			"classification":     classification,
			"result":             result,
			"estimated_cost_usd": estimatedCost,
		})
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractChunksPath, "chunks", "", "path to chunked document JSON (required)")
	extractCmd.Flags().StringVar(&extractDocument, "document", "", "document name (default: chunks file name)")
	_ = extractCmd.MarkFlagRequired("chunks")
	rootCmd.AddCommand(extractCmd)
}
