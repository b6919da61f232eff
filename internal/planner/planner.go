package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/media-organizer/go/internal/classify"
	"github.com/media-organizer/go/internal/types"
)

// Planner computes a move plan from a classified batch. Planning is pure:
// the filesystem is only probed for destination existence, never mutated,
// so the same plan drives both execution and dry-run.
type Planner struct {
	cfg types.Config

	// Exists probes whether a destination path already exists. Replaceable
	// in tests.
	Exists func(path string) bool
}

// New creates a Planner for the given configuration.
func New(cfg types.Config) *Planner {
	return &Planner{
		cfg: cfg,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// Plan produces the ordered move plan for a classified batch. Units are
// processed in source-path order and destination collisions are resolved
// deterministically, so repeated runs over an unchanged tree yield
// identical plans.
func (p *Planner) Plan(result classify.Result) []types.MovePlanEntry {
	units := make([]classify.Unit, len(result.Units))
	copy(units, result.Units)
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Primary.Path < units[j].Primary.Path
	})

	var plan []types.MovePlanEntry
	claimed := map[string]bool{}

	for _, unit := range units {
		plan = append(plan, p.planUnit(unit, claimed)...)
	}

	plan = append(plan, reportEntries(result)...)
	return plan
}

// planUnit resolves one unit: filters first, then the companion-subtitle
// check, then destination construction and collision handling.
func (p *Planner) planUnit(unit classify.Unit, claimed map[string]bool) []types.MovePlanEntry {
	if reason, ok := p.filtered(unit); ok {
		return skipUnit(unit, types.DecisionSkipFiltered, reason)
	}

	if unit.Category == types.CategoryMovie && p.cfg.RequireSubtitle && len(unit.Subtitles) == 0 {
		return skipUnit(unit, types.DecisionSkipFiltered, "no companion subtitle")
	}

	destDir := p.destinationDir(unit)
	primaryDest := filepath.Join(destDir, classify.CleanFileName(unit.Primary.Name))

	if !strings.HasPrefix(primaryDest, p.cfg.TargetDir+string(filepath.Separator)) {
		return skipUnit(unit, types.DecisionSkipUnmatched, "destination escapes target root")
	}

	if claimed[primaryDest] {
		return skipUnitAt(unit, destDir, types.DecisionSkipExists, "destination claimed by earlier entry")
	}
	if p.Exists(primaryDest) && !p.cfg.Overwrite {
		return skipUnitAt(unit, destDir, types.DecisionSkipExists, "destination exists")
	}
	claimed[primaryDest] = true

	entries := []types.MovePlanEntry{{
		Source:      unit.Primary,
		Category:    unit.Category,
		Destination: primaryDest,
		UnitID:      unit.ID,
		Decision:    types.DecisionMove,
	}}

	for _, sub := range unit.Subtitles {
		dest := filepath.Join(destDir, classify.CleanFileName(sub.Handle.Name))
		entry := types.MovePlanEntry{
			Source:      sub.Handle,
			Category:    unit.Category,
			Destination: dest,
			UnitID:      unit.ID,
			Decision:    types.DecisionMove,
		}
		switch {
		case claimed[dest]:
			entry.Decision = types.DecisionSkipExists
			entry.Reason = "destination claimed by earlier entry"
		case p.Exists(dest) && !p.cfg.Overwrite:
			entry.Decision = types.DecisionSkipExists
			entry.Reason = "destination exists"
		default:
			claimed[dest] = true
		}
		entries = append(entries, entry)
	}

	return entries
}

// filtered applies the resolution and codec filters.
func (p *Planner) filtered(unit classify.Unit) (string, bool) {
	if p.cfg.Resolution != "" && !strings.EqualFold(unit.Meta.Resolution, p.cfg.Resolution) {
		return fmt.Sprintf("resolution %q does not match filter %q", unit.Meta.Resolution, p.cfg.Resolution), true
	}
	if p.cfg.Codec != "" && normalizeCodec(unit.Meta.Codec) != normalizeCodec(p.cfg.Codec) {
		return fmt.Sprintf("codec %q does not match filter %q", unit.Meta.Codec, p.cfg.Codec), true
	}
	return "", false
}

// normalizeCodec folds case and dots so H.264 and h264 compare equal.
func normalizeCodec(codec string) string {
	return strings.ReplaceAll(strings.ToLower(codec), ".", "")
}

// destinationDir builds the target directory for a unit:
// movies land at target/[year-group/]Title[.Year], episodes at
// target/Series/Season_NN.
func (p *Planner) destinationDir(unit classify.Unit) string {
	if unit.Category == types.CategoryEpisode {
		return filepath.Join(p.cfg.TargetDir, unit.Meta.Title, fmt.Sprintf("Season_%02d", *unit.Meta.Season))
	}

	dirName := unit.Meta.Title
	if unit.Meta.Year != nil {
		dirName += "." + strconv.Itoa(*unit.Meta.Year)
	}
	if p.cfg.YearGroup {
		return filepath.Join(p.cfg.TargetDir, yearCategory(unit.Meta.Year), dirName)
	}
	return filepath.Join(p.cfg.TargetDir, dirName)
}

// yearCategory groups recent years individually and older ones by decade.
func yearCategory(year *int) string {
	if year == nil {
		return "Unknown"
	}
	if *year >= 2024 {
		return strconv.Itoa(*year)
	}
	return fmt.Sprintf("%ds", (*year/10)*10)
}

// skipUnit marks every member of a unit with the same skip decision;
// a unit moves together or not at all.
func skipUnit(unit classify.Unit, decision types.Decision, reason string) []types.MovePlanEntry {
	entries := []types.MovePlanEntry{{
		Source:   unit.Primary,
		Category: unit.Category,
		UnitID:   unit.ID,
		Decision: decision,
		Reason:   reason,
	}}
	for _, sub := range unit.Subtitles {
		entries = append(entries, types.MovePlanEntry{
			Source:   sub.Handle,
			Category: unit.Category,
			UnitID:   unit.ID,
			Decision: decision,
			Reason:   reason,
		})
	}
	return entries
}

// skipUnitAt is skipUnit with the computed destinations kept on the
// entries. Existing-destination skips carry the occupied path so downstream
// consumers can inspect what is already there.
func skipUnitAt(unit classify.Unit, destDir string, decision types.Decision, reason string) []types.MovePlanEntry {
	entries := skipUnit(unit, decision, reason)
	entries[0].Destination = filepath.Join(destDir, classify.CleanFileName(unit.Primary.Name))
	for i, sub := range unit.Subtitles {
		entries[i+1].Destination = filepath.Join(destDir, classify.CleanFileName(sub.Handle.Name))
	}
	return entries
}

// reportEntries turns the non-plannable buckets into skip entries so that
// every processed file shows up in the report.
func reportEntries(result classify.Result) []types.MovePlanEntry {
	var entries []types.MovePlanEntry

	for _, f := range result.Unknown {
		entries = append(entries, types.MovePlanEntry{
			Source:   f,
			Category: types.CategoryUnknown,
			UnitID:   -1,
			Decision: types.DecisionSkipUnmatched,
			Reason:   "no year or season/episode token",
		})
	}
	for _, f := range result.Orphans {
		entries = append(entries, types.MovePlanEntry{
			Source:   f,
			Category: types.CategoryUnknown,
			UnitID:   -1,
			Decision: types.DecisionSkipUnmatched,
			Reason:   "subtitle has no matching media file",
		})
	}
	for _, f := range result.Unrecognized {
		entries = append(entries, types.MovePlanEntry{
			Source:   f,
			Category: types.CategoryUnknown,
			UnitID:   -1,
			Decision: types.DecisionSkipUnmatched,
			Reason:   "unrecognized file type",
		})
	}
	for _, f := range result.Junk {
		entries = append(entries, types.MovePlanEntry{
			Source:   f,
			Category: types.CategoryUnknown,
			UnitID:   -1,
			Decision: types.DecisionSkipFiltered,
			Reason:   "junk extension, left for cleanup",
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Source.Path < entries[j].Source.Path
	})
	return entries
}
