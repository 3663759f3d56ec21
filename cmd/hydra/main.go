// Command hydra is the single entry point for every application described
// by this project: indexer, duplicate finder, date-folder mover,
// rename-to-capture-time, reference-database sync and cross-database
// comparator, each a subcommand sharing one engine, one config file and
// one logging setup, grounded on the teacher's single-binary,
// many-subcommands cmd/media-finder/main.go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/axcxl/hydra/internal/config"
	"github.com/axcxl/hydra/internal/logging"
)

// exit codes, per the batch-mode contract: 0 normal completion, 1 a
// batch-mode run refused to proceed without confirmation, 2 a fatal
// startup error (bad config, unopenable database, bad arguments).
const (
	exitOK             = 0
	exitBatchRefused   = 1
	exitStartupFailure = 2
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	logFile    *os.File

	flagWorkers        int
	flagCommitInterval time.Duration
	flagLogLevel       string
	flagLogDir         string
	flagHashAlgorithm  string
	flagScanRate       int
)

func main() {
	root := &cobra.Command{
		Use:   "hydra",
		Short: "Parallel file-tree processing toolkit",
		Long: `hydra walks a file tree with a bounded worker pool and a single
serializing librarian, and drives one of several applications: indexing,
duplicate detection, date-folder sorting, capture-time renaming,
reference-database syncing, and cross-database comparison.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadRuntime,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (optional; defaults are used if absent)")
	root.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "worker pool size (0 = use config/default)")
	root.PersistentFlags().DurationVar(&flagCommitInterval, "commit-interval", 0, "librarian commit interval (0 = use config/default)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warning or error (default: config value)")
	root.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "directory for the run's timestamped log file (default: current directory)")
	root.PersistentFlags().StringVar(&flagHashAlgorithm, "hash-algorithm", "", "sha512 or blake3 (default: config value)")
	root.PersistentFlags().IntVar(&flagScanRate, "scan-rate", 0, "cap the walker to N files/sec (0 = unlimited)")

	root.AddCommand(
		newIndexCmd(),
		newDedupCmd(),
		newDateMoveCmd(),
		newRenameCmd(),
		newSyncCmd(),
		newCompareCmd(),
	)

	if err := root.Execute(); err != nil {
		if logger != nil {
			logger.Error("run failed", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		if _, refused := err.(batchRefusedError); refused {
			os.Exit(exitBatchRefused)
		}
		os.Exit(exitStartupFailure)
	}
}

// batchRefusedError is returned by a subcommand's RunE when --batch mode
// hits a condition it refuses to act on automatically (dedup's suffix
// warning heuristic being the prototypical case).
type batchRefusedError struct{ reason string }

func (e batchRefusedError) Error() string { return e.reason }

func loadRuntime(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagWorkers > 0 {
		loaded.Workers = flagWorkers
	}
	if flagCommitInterval > 0 {
		loaded.CommitInterval = flagCommitInterval
	}
	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}
	if flagLogDir != "" {
		loaded.LogDir = flagLogDir
	}
	if flagHashAlgorithm != "" {
		loaded.HashAlgorithm = flagHashAlgorithm
	}
	if flagScanRate > 0 {
		loaded.ScanRate = flagScanRate
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	logPath := runLogPath(cmd.Name())
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", logPath, err)
	}
	logFile = f

	level := logging.ParseLevel(cfg.LogLevel)
	runID := uuid.New().String()
	logger = logging.NewFileAndConsoleLeveled(level, f, os.Stdout).With(logging.Func(cmd.Name()), slog.String("run_id", runID))

	return nil
}

// runLogPath joins cfg.LogDir (if set) with a fresh timestamped name for
// this run, e.g. "index_20260801_1004.log".
func runLogPath(appName string) string {
	name := appName + "_" + logging.RunStamp(time.Now()) + ".log"
	if cfg != nil && cfg.LogDir != "" {
		return filepath.Join(cfg.LogDir, name)
	}
	return name
}

func confirm(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(response)
	return response == "yes" || response == "y"
}
