package main

import (
	"github.com/spf13/cobra"

	"github.com/veridian-group/esia-cli/internal/loader"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/router"
)

var (
	routeType string
	routeTopN int
)

var routeCmd = &cobra.Command{
	Use:   "route <heading>",
	Short: "Route a section heading to candidate domains",
	Long:  "Scores a section heading against the applicable domain set for the given project type and prints ranked candidates.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("route"); err != nil {
			return err
		}

		cat, idx, _, err := buildCatalog()
		if err != nil {
			return err
		}

		applicable := loader.ForType(routeType, cat)

		topN := routeTopN
		if topN <= 0 {
			topN = cfg.Router.TopN
		}

		candidates := router.RouteWithConfig(args[0], idx, applicable, topN, routerConfig())
		if candidates == nil {
			candidates = []model.SectionCandidate{}
		}

		return printJSON(map[string]any{
			"heading":      args[0],
			"project_type": routeType,
			"candidates":   candidates,
		})
	},
}

func init() {
	routeCmd.Flags().StringVar(&routeType, "type", model.GeneralProjectType, "project type key for the applicable domain set")
	routeCmd.Flags().IntVar(&routeTopN, "top-n", 0, "max candidates to return (default from config)")
	rootCmd.AddCommand(routeCmd)
}
