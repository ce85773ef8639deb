package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/example/buttg/pkg/catalog"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/notify"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cat, err := openCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		items := cat.List(catalog.Filter{})
		if catalogJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"items": items, "deals": cat.Deals()})
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tFROM")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, notify.Rupees(item.StartingPrice()))
		}
		for _, deal := range cat.Deals() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", deal.ID, deal.Name, "Deals", notify.Rupees(deal.Price))
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print the catalog as JSON")
}

func openCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Path, err)
	}
	return cat, nil
}
