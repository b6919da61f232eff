package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/media-organizer/go/internal/types"
)

// Printer handles all console output with rich styling
type Printer struct {
	out     io.Writer
	verbose bool
	json    bool
}

// NewPrinter creates a new printer
func NewPrinter(verbose, json bool) *Printer {
	return &Printer{
		out:     os.Stdout,
		verbose: verbose,
		json:    json,
	}
}

// Banner prints the application banner
func (p *Printer) Banner() {
	if p.json {
		return
	}

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		Render(`
   ╔═══════════════════════════════════════╗
   ║      🎬 Media Organizer v1.0          ║
   ║   Sort movies, episodes & subtitles   ║
   ╚═══════════════════════════════════════╝
`)
	fmt.Fprintln(p.out, banner)
}

// DryRunBanner prints the dry run mode banner
func (p *Printer) DryRunBanner() {
	if p.json {
		return
	}

	banner := lipgloss.NewStyle().
		Bold(true).
		Background(ColorWarning).
		Foreground(ColorDark).
		Padding(0, 2).
		Render("🔍 DRY RUN MODE - No changes will be made")

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, banner)
	fmt.Fprintln(p.out)
}

// Section prints a section header
func (p *Printer) Section(title string) {
	if p.json {
		return
	}

	header := SectionStyle.Render(title)
	fmt.Fprintln(p.out, header)
}

// ScanStart prints scan start message
func (p *Printer) ScanStart(path string) {
	if p.json {
		return
	}

	fmt.Fprintln(p.out, InfoStyle.Render(fmt.Sprintf("%s Scanning: ", IconSearch))+
		FilePathStyle.Render(path))
}

// ScanComplete prints scan completion message
func (p *Printer) ScanComplete(count int) {
	if p.json {
		return
	}

	fmt.Fprintln(p.out, RenderSuccess(fmt.Sprintf("Found %s files to process",
		CountStyle.Render(fmt.Sprintf("%d", count)))))
}

// PrintPlan prints the planned moves and skips
func (p *Printer) PrintPlan(plan []types.MovePlanEntry) {
	if p.json {
		return
	}

	var moves, skips []types.MovePlanEntry
	for _, e := range plan {
		if e.Decision == types.DecisionMove {
			moves = append(moves, e)
		} else {
			skips = append(skips, e)
		}
	}

	if len(moves) == 0 {
		fmt.Fprintln(p.out, MutedStyle.Render("  (nothing to move)"))
	} else {
		p.Section(fmt.Sprintf("%s Files to Move (%d)", IconMovie, len(moves)))

		for i, e := range moves {
			if i >= 20 && !p.verbose {
				remaining := len(moves) - 20
				fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more", remaining)))
				break
			}

			from := truncate(e.Source.Name, 40)
			to := truncate(filepath.Base(filepath.Dir(e.Destination))+"/"+filepath.Base(e.Destination), 50)

			fmt.Fprintf(p.out, "  %s %s\n",
				MutedStyle.Render(fmt.Sprintf("%3d.", i+1)),
				RenderFileMove(from, to))
		}
		fmt.Fprintln(p.out)
	}

	if len(skips) > 0 {
		p.Section(fmt.Sprintf("%s Skipped (%d)", IconSkip, len(skips)))
		for i, e := range skips {
			if i >= 10 && !p.verbose {
				fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more", len(skips)-10)))
				break
			}
			fmt.Fprintf(p.out, "  %s\n", RenderSkip(truncate(e.Source.Name, 50), e.Reason))
		}
		fmt.Fprintln(p.out)
	}
}

// PrintFailures prints failed units with their errors
func (p *Printer) PrintFailures(results []types.MoveResult) {
	if p.json {
		return
	}

	var failed []types.MoveResult
	for _, r := range results {
		if r.Outcome == types.OutcomeFailed {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}

	p.Section(fmt.Sprintf("%s Failed Units (%d)", IconError, len(failed)))
	for _, r := range failed {
		fmt.Fprintf(p.out, "  %s %s: %s\n",
			MutedStyle.Render(IconDot),
			FilePathStyle.Render(r.Source.Name),
			ErrorStyle.Render(r.Error))
	}
	fmt.Fprintln(p.out)
}

// PrintCleanup prints the cleanup actions
func (p *Printer) PrintCleanup(actions []types.CleanupAction) {
	if p.json {
		return
	}

	if len(actions) == 0 {
		return
	}

	p.Section(fmt.Sprintf("%s Source Cleanup (%d)", IconClean, len(actions)))

	for i, a := range actions {
		if i >= 10 && !p.verbose {
			fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more", len(actions)-10)))
			break
		}
		icon := IconDelete
		if a.Kind == types.CleanupDeleteEmptyDir {
			icon = IconFolder
		}
		fmt.Fprintf(p.out, "  %s %s\n", icon, RenderFileDelete(filepath.Base(a.Path)))
	}
	fmt.Fprintln(p.out)
}

// PrintReviewItems prints files needing manual follow-up
func (p *Printer) PrintReviewItems(items []string) {
	if p.json {
		return
	}

	if len(items) == 0 {
		return
	}

	p.Section(fmt.Sprintf("%s Needs Review (%d)", IconUncheck, len(items)))

	for i, item := range items {
		if i >= 10 && !p.verbose {
			fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more items", len(items)-10)))
			break
		}
		fmt.Fprintf(p.out, "  %s %s\n",
			InfoStyle.Render(IconUncheck),
			item)
	}
	fmt.Fprintln(p.out)
}

// PrintSummary prints the batch summary box. It is emitted on every run,
// including runs where some units failed.
func (p *Printer) PrintSummary(summary types.Summary) {
	if p.json {
		return
	}

	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("📊 Batch Summary") + "\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n\n")

	sb.WriteString(fmt.Sprintf("  %s Processed:          %s\n", IconMovie, RenderCount(summary.Processed)))
	sb.WriteString(fmt.Sprintf("  %s Moved:              %s\n", IconSuccess, RenderCount(summary.Moved)))

	if summary.SkippedExists > 0 {
		sb.WriteString(fmt.Sprintf("  %s Skipped (exists):   %s\n", IconSkip, RenderCount(summary.SkippedExists)))
	}
	if summary.SkippedFiltered > 0 {
		sb.WriteString(fmt.Sprintf("  %s Skipped (filtered): %s\n", IconSkip, RenderCount(summary.SkippedFiltered)))
	}
	if summary.SkippedUnknown > 0 {
		sb.WriteString(fmt.Sprintf("  %s Skipped (unknown):  %s\n", IconSkip, RenderCount(summary.SkippedUnknown)))
	}
	if summary.Failed > 0 {
		sb.WriteString(fmt.Sprintf("  %s Failed:             %s\n", IconError, ErrorStyle.Render(fmt.Sprintf("%d", summary.Failed))))
	}
	if summary.CleanedFiles > 0 || summary.CleanedDirs > 0 {
		sb.WriteString(fmt.Sprintf("  %s Cleaned:            %s files, %s dirs\n",
			IconClean, RenderCount(summary.CleanedFiles), RenderCount(summary.CleanedDirs)))
	}

	sb.WriteString("\n" + strings.Repeat("─", 40))

	fmt.Fprintln(p.out, SummaryBoxStyle.Render(sb.String()))
}

// Success prints a success message
func (p *Printer) Success(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderSuccess(msg))
}

// Warning prints a warning message
func (p *Printer) Warning(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderWarning(msg))
}

// Error prints an error message
func (p *Printer) Error(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderError(msg))
}

// Info prints an info message
func (p *Printer) Info(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderInfo(msg))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
