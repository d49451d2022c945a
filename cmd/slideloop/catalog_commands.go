package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"slideloop/internal/player"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the section catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog sections in playback order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := player.LoadCatalog(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table, err := renderSectionTable(cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table)
			period := cfg.SectionDuration() * time.Duration(cat.Len())
			fmt.Fprintf(out, "%d sections, one pass every %s\n", cat.Len(), period)
			return nil
		},
	}
}
