package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/apps/dedup"
)

func newDedupCmd() *cobra.Command {
	var batch, reverse, recursive bool

	cmd := &cobra.Command{
		Use:   "dedup <root>",
		Short: "Find byte-identical duplicates under root and delete all but the first of each group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			if !recursive {
				return runDedupPass(root, reverse, batch)
			}

			subdirs, err := immediateSubdirs(root)
			if err != nil {
				return err
			}
			for _, d := range subdirs {
				logger.Info("dedup: entering subdirectory", "dir", d)
				if err := runDedupPass(d, reverse, batch); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "run non-interactively; refuse if any duplicate lacks a disambiguating suffix")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "compare paths in reverse sort order")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "run one independent pass per immediate subdirectory of root, sorted by name")
	return cmd
}

func immediateSubdirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func runDedupPass(root string, reverse, batch bool) error {
	app, cap := dedup.New(cfg.HashAlgorithm, reverse)
	ctx, cancel := baseContext()
	defer cancel()
	res, err := runEngineWithMain(ctx, root, cap, app.Main())
	if err != nil {
		return fmt.Errorf("dedup run: %w", err)
	}

	var duplicates []string
	for _, v := range res.MainData {
		duplicates = append(duplicates, v.(string))
	}
	decisions := dedup.Classify(duplicates)

	logger.Info("dedup scan complete", "root", root, "files_scanned", res.Counters.Snapshot().Indexed, "duplicates_found", len(decisions))
	if len(decisions) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	for _, d := range decisions {
		marker := " "
		if d.Warning {
			marker = "!"
		}
		fmt.Printf("%s %s\n", marker, d.Path)
	}

	if batch {
		if dedup.AnyWarnings(decisions) {
			return batchRefusedError{reason: "dedup: one or more duplicates lack a disambiguating suffix, refusing to delete in --batch mode"}
		}
		return deleteAll(decisions)
	}

	if !confirm(fmt.Sprintf("Delete %d duplicate file(s)?", len(decisions))) {
		fmt.Println("Aborted.")
		return nil
	}
	return deleteAll(decisions)
}

func deleteAll(decisions []dedup.Decision) error {
	deleted := 0
	for _, d := range decisions {
		if err := os.Remove(d.Path); err != nil {
			logger.Warn("failed to delete duplicate", "path", d.Path, "err", err)
			continue
		}
		deleted++
	}
	logger.Info("dedup deletion complete", "deleted", deleted, "of", len(decisions))
	return nil
}
