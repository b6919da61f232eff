package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/media-organizer/go/internal/types"
)

// Review collects files the run could not handle automatically and writes
// them to a review.md in the target root for manual follow-up. Only real
// runs write the file; a dry run surfaces the same items on the console
// without touching the target.
type Review struct {
	path         string
	unrecognized []string
	orphans      []string
	failed       []string
}

// New creates a Review that will be written to reviewPath, or to
// <targetDir>/review.md when reviewPath is empty.
func New(reviewPath, targetDir string) *Review {
	if reviewPath == "" {
		reviewPath = filepath.Join(targetDir, "review.md")
	}
	return &Review{path: reviewPath}
}

// AddResults files every skip_unmatched and failed result into its section.
func (r *Review) AddResults(results []types.MoveResult) {
	for _, res := range results {
		switch {
		case res.Outcome == types.OutcomeFailed:
			r.failed = append(r.failed, fmt.Sprintf("%s (%s)", res.Source.Name, res.Error))
		case res.Decision == types.DecisionSkipUnmatched && res.Source.Role == types.RoleSubtitle:
			r.orphans = append(r.orphans, fmt.Sprintf("%s (%s)", res.Source.Name, res.Reason))
		case res.Decision == types.DecisionSkipUnmatched:
			r.unrecognized = append(r.unrecognized, fmt.Sprintf("%s (%s)", res.Source.Name, res.Reason))
		}
	}
}

// Empty reports whether there is anything to review.
func (r *Review) Empty() bool {
	return len(r.unrecognized) == 0 && len(r.orphans) == 0 && len(r.failed) == 0
}

// Items returns every review line, for console output.
func (r *Review) Items() []string {
	var items []string
	items = append(items, r.unrecognized...)
	items = append(items, r.orphans...)
	items = append(items, r.failed...)
	return items
}

// Write renders the review file. An empty review removes a stale file from
// a previous run rather than leaving it behind.
func (r *Review) Write() error {
	if r.Empty() {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	var b strings.Builder
	b.WriteString("# Media organizer review\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format("2006-01-02 15:04:05")))

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sorted := make([]string, len(items))
		copy(sorted, items)
		sort.Strings(sorted)

		b.WriteString(fmt.Sprintf("\n## %s\n\n", title))
		for _, item := range sorted {
			b.WriteString(fmt.Sprintf("- [ ] %s\n", item))
		}
	}

	section("Unrecognized files", r.unrecognized)
	section("Orphaned subtitles", r.orphans)
	section("Failed units", r.failed)

	return os.WriteFile(r.path, []byte(b.String()), 0o644)
}
