package main

import (
	"github.com/spf13/cobra"

	"github.com/veridian-group/esia-cli/internal/classify"
)

var classifyChunksPath string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a document's project type from its opening chunks",
	RunE: func(cmd *cobra.Command, args []string) error {
		chunks, err := readChunks(classifyChunksPath)
		if err != nil {
			return err
		}

		return printJSON(classify.ClassifyWindow(chunks, cfg.Classifier.ChunkWindow))
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyChunksPath, "chunks", "", "path to chunked document JSON (required)")
	_ = classifyCmd.MarkFlagRequired("chunks")
	rootCmd.AddCommand(classifyCmd)
}
