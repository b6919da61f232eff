package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/media-organizer/go/internal/classify"
	"github.com/media-organizer/go/internal/cleaner"
	"github.com/media-organizer/go/internal/dedupe"
	"github.com/media-organizer/go/internal/jsonoutput"
	"github.com/media-organizer/go/internal/mover"
	"github.com/media-organizer/go/internal/planner"
	"github.com/media-organizer/go/internal/report"
	"github.com/media-organizer/go/internal/scanner"
	"github.com/media-organizer/go/internal/types"
	"github.com/media-organizer/go/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	resolutionFlag    string
	codecFlag         string
	yearGroupFlag     bool
	removeSourceFlag  bool
	overwriteFlag     bool
	dryRunFlag        bool
	confirmDeleteFlag bool
	forceFlag         bool
	jsonFlag          bool
	verboseFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "media-organizer SOURCE TARGET",
	Short: "Sort loosely-named media files into a normalized directory layout",
	Long: `Sort loosely-named media files into a normalized directory layout.

This tool classifies movies, TV episodes and their subtitles by parsing
structured metadata out of filenames, strips promotional noise, and moves
each media file together with its aligned subtitles into
TARGET/Title.Year (movies) or TARGET/Series/Season_NN (episodes).
Each media file and its subtitles move as one atomic unit: a partial
failure rolls the whole unit back to its original location.`,
	Args: cobra.ExactArgs(2),
	RunE: runOrganizer,
}

func init() {
	rootCmd.Flags().StringVar(&resolutionFlag, "resolution", "", "Only process files with this resolution (e.g. 1080p, 4K)")
	rootCmd.Flags().StringVar(&codecFlag, "codec", "", "Only process files with this codec (e.g. x265, H.264)")
	rootCmd.Flags().BoolVar(&yearGroupFlag, "year-group", false, "Group movies under year directories (recent years individually, older by decade)")
	rootCmd.Flags().BoolVar(&removeSourceFlag, "remove-source", false, "After moving, delete junk files and now-empty directories under SOURCE")
	rootCmd.Flags().BoolVar(&overwriteFlag, "overwrite", false, "Replace existing destination files instead of skipping them")
	rootCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "d", false, "Show what would happen without touching the filesystem")
	rootCmd.Flags().BoolVar(&confirmDeleteFlag, "confirm-delete", false, "Ask before deleting anything (with --remove-source)")
	rootCmd.Flags().BoolVar(&forceFlag, "force", false, "Move movies even when no companion subtitle exists")
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output the full report as JSON instead of styled text")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runOrganizer(cmd *cobra.Command, args []string) error {
	setupLogging()

	sourceDir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	targetDir, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	cfg := types.Config{
		SourceDir:       sourceDir,
		TargetDir:       targetDir,
		Resolution:      resolutionFlag,
		Codec:           codecFlag,
		YearGroup:       yearGroupFlag,
		RemoveSource:    removeSourceFlag,
		Overwrite:       overwriteFlag,
		DryRun:          dryRunFlag,
		ConfirmDelete:   confirmDeleteFlag,
		RequireSubtitle: !forceFlag,
		Json:            jsonFlag,
		Verbose:         verboseFlag,
	}

	if err := validate(cfg); err != nil {
		return err
	}

	return run(cfg)
}

func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// validate performs the pre-run checks that are fatal for the whole run:
// both roots must exist, be distinct, not nest inside each other, and be
// writable. Nothing is planned before these pass.
func validate(cfg types.Config) error {
	for _, dir := range []string{cfg.SourceDir, cfg.TargetDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}
	}

	if cfg.SourceDir == cfg.TargetDir {
		return fmt.Errorf("source and target must differ: %s", cfg.SourceDir)
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(cfg.TargetDir, cfg.SourceDir+sep) {
		return fmt.Errorf("target %s is nested inside source %s", cfg.TargetDir, cfg.SourceDir)
	}
	if strings.HasPrefix(cfg.SourceDir, cfg.TargetDir+sep) {
		return fmt.Errorf("source %s is nested inside target %s", cfg.SourceDir, cfg.TargetDir)
	}

	if !cfg.DryRun {
		for _, dir := range []string{cfg.SourceDir, cfg.TargetDir} {
			if err := checkWritable(dir); err != nil {
				return fmt.Errorf("no write permission on %s: %w", dir, err)
			}
		}
	}

	return nil
}

func checkWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// run executes the full pipeline: scan, classify, plan, move, report,
// clean. The plan is fully computed before any mutation begins.
func run(cfg types.Config) error {
	printer := ui.NewPrinter(cfg.Verbose, cfg.Json)
	printer.Banner()
	if cfg.DryRun {
		printer.DryRunBanner()
	}

	printer.ScanStart(cfg.SourceDir)
	s, err := scanner.New(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	var files []types.FileHandle
	if cfg.Json || cfg.Verbose {
		// Verbose log lines and the spinner fight over the terminal.
		files, err = s.Scan()
	} else {
		err = ui.RunSpinner("Scanning source tree", func() error {
			var scanErr error
			files, scanErr = s.Scan()
			return scanErr
		})
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	printer.ScanComplete(len(files))

	classified := classify.Classify(files)
	log.Debug().Int("units", len(classified.Units)).
		Int("unknown", len(classified.Unknown)).
		Int("orphans", len(classified.Orphans)).
		Msg("classification complete")

	plan := planner.New(cfg).Plan(classified)
	printer.PrintPlan(plan)

	m := mover.New(cfg)
	if !cfg.Json && !cfg.DryRun {
		bar := ui.NewProgressBar(len(classified.Units), "Moving")
		m.Progress = func() {
			bar.Increment()
			fmt.Fprintf(os.Stdout, "\r%s", bar.View())
		}
		defer fmt.Fprintln(os.Stdout)
	}
	results := m.Execute(plan)
	results = dedupe.AnnotateExisting(results)

	review := report.New("", cfg.TargetDir)
	review.AddResults(results)
	if !cfg.DryRun {
		if err := review.Write(); err != nil {
			log.Warn().Err(err).Msg("failed to write review file")
		}
	}

	summary := summarize(results)

	var cleanup []types.CleanupAction
	if cfg.RemoveSource {
		cleanup = runCleanup(cfg, printer, &summary)
	}

	if cfg.Json {
		output := jsonoutput.FromResults(results, cleanup, summary, cfg)
		jsonStr, err := jsonoutput.ToJSON(output)
		if err != nil {
			return fmt.Errorf("JSON serialization failed: %w", err)
		}
		fmt.Println(jsonStr)
		return nil
	}

	printer.PrintFailures(results)
	printer.PrintCleanup(cleanup)
	printer.PrintReviewItems(review.Items())
	printer.PrintSummary(summary)

	if summary.Failed > 0 {
		printer.Warning(fmt.Sprintf("%d unit(s) failed and were rolled back", summary.Failed))
	} else if cfg.DryRun {
		printer.Info("Dry run complete, no changes were made")
	} else {
		printer.Success("Operation completed successfully!")
	}

	return nil
}

// runCleanup runs the source cleaner. Safety violations and a declined
// confirmation abort only the cleanup phase; the move results stand.
func runCleanup(cfg types.Config, printer *ui.Printer, summary *types.Summary) []types.CleanupAction {
	var confirm cleaner.ConfirmFunc
	if cfg.ConfirmDelete {
		confirm = ui.Confirm
	}

	actions, err := cleaner.New(cfg, confirm).Clean()
	if err != nil {
		switch {
		case errors.Is(err, cleaner.ErrConfirmationDeclined):
			printer.Warning("Cleanup declined, nothing was deleted")
		case errors.Is(err, cleaner.ErrProtectedPath), errors.Is(err, cleaner.ErrNestedRoots):
			printer.Error(fmt.Sprintf("Cleanup refused: %v", err))
		default:
			printer.Error(fmt.Sprintf("Cleanup failed: %v", err))
		}
		return nil
	}

	for _, a := range actions {
		switch a.Kind {
		case types.CleanupDeleteJunkFile:
			summary.CleanedFiles++
		case types.CleanupDeleteEmptyDir:
			summary.CleanedDirs++
		}
	}
	return actions
}

func summarize(results []types.MoveResult) types.Summary {
	var summary types.Summary
	summary.Processed = len(results)

	for _, r := range results {
		switch r.Outcome {
		case types.OutcomeMoved:
			summary.Moved++
		case types.OutcomeFailed:
			summary.Failed++
		case types.OutcomeSkipped, types.OutcomeRolledBack:
			switch r.Decision {
			case types.DecisionSkipExists:
				summary.SkippedExists++
			case types.DecisionSkipFiltered:
				summary.SkippedFiltered++
			case types.DecisionSkipUnmatched:
				summary.SkippedUnknown++
			}
		}
	}
	return summary
}
