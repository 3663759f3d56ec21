package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/index"
	"github.com/axcxl/hydra/internal/database"
)

func newIndexCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "index <root>",
		Short: "Hash, size and EXIF-index every regular file under root into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			if dbPath == "" {
				dbPath = database.TimestampedName(time.Now())
			}
			if dir := filepath.Dir(dbPath); dir != "." {
				if err := ensureDir(dir); err != nil {
					return err
				}
			}

			app, cap, err := index.New(cfg.HashAlgorithm, dbPath)
			if err != nil {
				return err
			}
			defer app.DB().Close()

			ctx, cancel := baseContext()
			defer cancel()
			res, err := runEngine(ctx, root, cap)
			if err != nil {
				return fmt.Errorf("index run: %w", err)
			}

			n, err := app.DB().RowCount()
			if err != nil {
				return err
			}
			logger.Info("index complete",
				"indexed", res.Counters.Snapshot().Indexed,
				"skipped", res.Counters.Snapshot().Skipped,
				"rows", n,
				"db", dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "output database path (default: files_<timestamp>.db)")
	return cmd
}
