package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veridian-group/esia-cli/internal/loader"
	"github.com/veridian-group/esia-cli/internal/model"
)

var domainsType string

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List catalog domains",
	Long:  "Lists the domain catalog. With --type, shows only the applicable set for that project type (core + standard + matching sector extensions).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, _, err := buildCatalog()
		if err != nil {
			return err
		}

		var domains []model.Domain
		if domainsType != "" {
			domains = loader.ForType(domainsType, cat).Domains()
		} else {
			domains = cat.Domains()
		}

		formatDomains(os.Stdout, domains)
		return nil
	},
}

func formatDomains(w io.Writer, domains []model.Domain) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTIER\tSECTOR\tTITLE")
	for _, d := range domains {
		sector := d.Sector
		if sector == "" {
			sector = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key, d.Tier, sector, d.Title)
	}
	tw.Flush()
}

func init() {
	domainsCmd.Flags().StringVar(&domainsType, "type", "", "project type key to filter to the applicable set")
	rootCmd.AddCommand(domainsCmd)
}
