package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/compare"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <source.db> <target.db>",
		Short: "Report every row in source.db whose content hash is absent from target.db",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDB, targetDB := args[0], args[1]

			app, cap, err := compare.New(sourceDB, targetDB, cfg.Workers, logger)
			if err != nil {
				return fmt.Errorf("open comparator databases: %w", err)
			}
			defer app.Close()

			ctx, cancel := baseContext()
			defer cancel()
			res, err := runEngineWithMain(ctx, "", cap, app.Main())
			if err != nil {
				return fmt.Errorf("compare run: %w", err)
			}

			for _, v := range res.MainData {
				m := v.(compare.Missing)
				fmt.Printf("missing: %s (%s)\n", m.Path, m.Hash)
			}

			logger.Info("compare complete", "rows_checked", res.Counters.Snapshot().ProcessedTotal(), "missing", len(res.MainData))
			return nil
		},
	}
	return cmd
}
