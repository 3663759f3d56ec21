package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/datemove"
)

func newDateMoveCmd() *cobra.Command {
	var similar, dryRun bool

	cmd := &cobra.Command{
		Use:   "datemove <root> <destination>",
		Short: "Copy every file under root into <destination>/<YYYYMMDD>/ by EXIF capture date or mtime",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, destination := args[0], args[1]
			if err := ensureDir(destination); err != nil {
				return err
			}

			app, cap := datemove.New(destination, similar, cfg.Workers)
			ctx, cancel := baseContext()
			defer cancel()
			res, err := runEngineWithMain(ctx, root, cap, app.Main())
			if err != nil {
				return fmt.Errorf("datemove run: %w", err)
			}

			copied, skipped := 0, 0
			for _, v := range res.MainData {
				d := v.(datemove.Decision)
				date := d.FromMtime
				if d.Ambiguous {
					if dryRun || !confirm(fmt.Sprintf("%s: mtime says %s, EXIF/similar says %s. Use the mtime date?", d.Path, d.FromMtime, d.Alt)) {
						date = d.Alt
					}
				}

				dest := datemove.DestinationFor(destination, date, d.Path, fileExists)
				if dryRun {
					fmt.Printf("would copy %s -> %s\n", d.Path, dest)
					continue
				}
				if err := copyFile(d.Path, dest); err != nil {
					logger.Warn("failed to copy file", "path", d.Path, "dest", dest, "err", err)
					skipped++
					continue
				}
				copied++
			}

			logger.Info("datemove complete", "copied", copied, "skipped", skipped, "considered", len(res.MainData))
			return nil
		},
	}

	cmd.Flags().BoolVar(&similar, "similar", false, "flag files whose basename already exists under another date folder as ambiguous")
	cmd.Flags().BoolVar(&dryRun, "dryrun", false, "print what would be copied without copying anything")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
