package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/syncdb"
)

func newSyncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync <root> <reference.db> <anchor> <destination-root>",
		Short: "Copy files under root to mirror where their hash+basename match is stored in a reference database",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, referenceDB, anchor, destRoot := args[0], args[1], args[2], args[3]

			app, cap := syncdb.New(cfg.HashAlgorithm, referenceDB, anchor, destRoot, cfg.Workers, dryRun, logger)
			defer app.Close()

			ctx, cancel := baseContext()
			defer cancel()
			if _, err := runEngine(ctx, root, cap); err != nil {
				return fmt.Errorf("sync run: %w", err)
			}

			stats := app.Stats()
			logger.Info("sync complete", "moved", stats.Moved, "skipped", stats.Skipped, "unmatched", stats.Unmatched)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dryrun", false, "print what would be copied without copying anything")
	return cmd
}

// copyFile copies src to dest, creating dest's parent directory as
// needed. A copy rather than a rename, since the reference database and
// the local tree are not guaranteed to live on the same filesystem.
func copyFile(src, dest string) error {
	if err := ensureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
