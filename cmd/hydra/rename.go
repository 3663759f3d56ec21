package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/rename"
)

const renameNoTimePrefix = "000000"

func newRenameCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename <root>",
		Short: "Rename every file under root to HHMMSS.ext from its EXIF capture time (000000.ext when absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			app, cap := rename.New()
			ctx, cancel := baseContext()
			defer cancel()
			res, err := runEngineWithMain(ctx, root, cap, app.Main())
			if err != nil {
				return fmt.Errorf("rename run: %w", err)
			}

			if !dryRun && len(res.MainData) > 0 && !confirm(fmt.Sprintf("Rename %d file(s)?", len(res.MainData))) {
				fmt.Println("Aborted.")
				return nil
			}

			renamed, skippedNoTime, skipped := 0, 0, 0
			for _, v := range res.MainData {
				d := v.(rename.Decision)
				if strings.HasPrefix(d.NewName, renameNoTimePrefix) {
					skippedNoTime++
					continue
				}
				if dryRun {
					fmt.Printf("would rename %s -> %s\n", d.Path, d.NewName)
					continue
				}
				dest, err := rename.Apply(d.Path, d.NewName)
				if err != nil {
					logger.Warn("failed to rename", "path", d.Path, "err", err)
					skipped++
					continue
				}
				if dest != d.Path {
					renamed++
				}
			}

			logger.Info("rename complete", "renamed", renamed, "skipped", skipped, "skipped_no_time", skippedNoTime, "considered", len(res.MainData))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dryrun", false, "print what would be renamed without renaming anything")
	return cmd
}
