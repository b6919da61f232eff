package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/media-organizer/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Move operation errors.
var (
	ErrSourceNotFound    = errors.New("source file not found")
	ErrDestinationExists = errors.New("destination already exists")
)

// unitState tracks a unit through its two-phase transaction. Transitions
// only move forward, except the rollback transition, which returns every
// touched file to its original path.
type unitState int

const (
	statePending unitState = iota
	stateMediaMoved
	stateSubtitlesMoved
	stateComplete
	stateFailedRolledBack
)

func (s unitState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateMediaMoved:
		return "media_moved"
	case stateSubtitlesMoved:
		return "subtitles_moved"
	case stateComplete:
		return "complete"
	case stateFailedRolledBack:
		return "failed_rolled_back"
	default:
		return "unknown"
	}
}

// Mover executes a move plan unit by unit. In dry-run mode it walks the
// identical decision logic without touching the filesystem, so its results
// are structurally the same as a real run's.
type Mover struct {
	cfg types.Config

	// Progress, when set, is called once after each unit finishes.
	Progress func()
}

// New creates a Mover for the given configuration.
func New(cfg types.Config) *Mover {
	return &Mover{cfg: cfg}
}

// Execute runs the plan and returns one result per entry, in plan order.
// A unit's failure rolls that unit back and processing continues with the
// next unit; it never aborts the batch.
func (m *Mover) Execute(plan []types.MovePlanEntry) []types.MoveResult {
	results := make(map[int]types.MoveResult, len(plan))

	// Group entries by unit, preserving first-appearance order. Entries
	// with UnitID < 0 are report-only skips.
	var order []int
	groups := map[int][]int{}
	for i, entry := range plan {
		if entry.UnitID < 0 || entry.Decision != types.DecisionMove {
			results[i] = types.MoveResult{MovePlanEntry: entry, Outcome: types.OutcomeSkipped}
			continue
		}
		if _, ok := groups[entry.UnitID]; !ok {
			order = append(order, entry.UnitID)
		}
		groups[entry.UnitID] = append(groups[entry.UnitID], i)
	}

	for _, unitID := range order {
		m.executeUnit(plan, groups[unitID], results)
		if m.Progress != nil {
			m.Progress()
		}
	}

	out := make([]types.MoveResult, len(plan))
	for i := range plan {
		out[i] = results[i]
	}
	return out
}

// executeUnit moves one unit: destination directory, then the primary
// media entry, then its subtitles. Any subtitle failure undoes the whole
// unit; a primary failure needs no rollback because nothing moved yet.
func (m *Mover) executeUnit(plan []types.MovePlanEntry, indexes []int, results map[int]types.MoveResult) {
	primaryIdx := -1
	var subIdxs []int
	for _, i := range indexes {
		if plan[i].Source.Role == types.RolePrimaryMedia {
			primaryIdx = i
		} else {
			subIdxs = append(subIdxs, i)
		}
	}
	if primaryIdx < 0 {
		// Subtitles never move without their primary.
		for _, i := range indexes {
			results[i] = types.MoveResult{MovePlanEntry: plan[i], Outcome: types.OutcomeSkipped, Error: "unit has no primary media entry"}
		}
		return
	}

	if m.cfg.DryRun {
		for _, i := range indexes {
			results[i] = types.MoveResult{MovePlanEntry: plan[i], Outcome: types.OutcomeMoved, Executed: false}
		}
		return
	}

	state := statePending
	primary := plan[primaryIdx]

	// Destinations replaced under overwrite are staged aside, not deleted,
	// so a rollback can put them back.
	staged := map[string]string{}

	failUnit := func(failedIdx int, err error) {
		results[failedIdx] = types.MoveResult{MovePlanEntry: plan[failedIdx], Outcome: types.OutcomeFailed, Error: err.Error()}
		for _, i := range indexes {
			if _, done := results[i]; !done {
				results[i] = types.MoveResult{MovePlanEntry: plan[i], Outcome: types.OutcomeSkipped, Error: "unit failed"}
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(primary.Destination), 0o755); err != nil {
		log.Error().Err(err).Str("dir", filepath.Dir(primary.Destination)).Msg("failed to create destination directory")
		failUnit(primaryIdx, fmt.Errorf("create destination directory: %w", err))
		return
	}

	if err := m.stageExisting(primary.Destination, staged); err != nil {
		failUnit(primaryIdx, err)
		return
	}
	if err := m.moveFile(primary.Source.Path, primary.Destination); err != nil {
		log.Error().Err(err).Str("file", primary.Source.Name).Msg("failed to move media file")
		m.restoreStaged(staged)
		failUnit(primaryIdx, err)
		return
	}
	state = stateMediaMoved
	results[primaryIdx] = types.MoveResult{MovePlanEntry: primary, Outcome: types.OutcomeMoved, Executed: true}
	log.Info().Str("from", primary.Source.Path).Str("to", primary.Destination).Msg("moved media file")

	var movedSubs []int
	for _, i := range subIdxs {
		sub := plan[i]
		err := m.stageExisting(sub.Destination, staged)
		if err == nil {
			err = m.moveFile(sub.Source.Path, sub.Destination)
		}
		if err != nil {
			log.Error().Err(err).Str("file", sub.Source.Name).Msg("subtitle move failed, rolling unit back")
			m.rollback(plan, primaryIdx, movedSubs, results)
			m.restoreStaged(staged)
			state = stateFailedRolledBack
			results[i] = types.MoveResult{MovePlanEntry: sub, Outcome: types.OutcomeFailed, Error: err.Error()}
			for _, j := range subIdxs {
				if _, done := results[j]; !done {
					results[j] = types.MoveResult{MovePlanEntry: plan[j], Outcome: types.OutcomeSkipped, Error: "unit failed"}
				}
			}
			log.Debug().Int("unit", primary.UnitID).Stringer("state", state).Msg("unit finished")
			return
		}
		movedSubs = append(movedSubs, i)
		results[i] = types.MoveResult{MovePlanEntry: sub, Outcome: types.OutcomeMoved, Executed: true}
		log.Info().Str("from", sub.Source.Path).Str("to", sub.Destination).Msg("moved subtitle file")
	}

	if len(subIdxs) > 0 {
		state = stateSubtitlesMoved
	}
	if state != statePending {
		state = stateComplete
	}
	m.discardStaged(staged)
	log.Debug().Int("unit", primary.UnitID).Stringer("state", state).Msg("unit finished")
}

// stageExisting moves an existing destination aside when overwrite is
// enabled, recording it in staged for later restore or discard.
func (m *Mover) stageExisting(dst string, staged map[string]string) error {
	if !m.cfg.Overwrite {
		return nil
	}
	if _, err := os.Stat(dst); err != nil {
		return nil
	}
	aside := dst + ".replaced"
	if err := os.Rename(dst, aside); err != nil {
		return fmt.Errorf("stage existing destination: %w", err)
	}
	staged[dst] = aside
	return nil
}

// restoreStaged puts every staged destination back. Called only on unit
// failure, after the unit's own files have returned to their sources.
func (m *Mover) restoreStaged(staged map[string]string) {
	for dst, aside := range staged {
		if err := os.Rename(aside, dst); err != nil {
			log.Warn().Err(err).Str("file", dst).Msg("could not restore replaced destination")
		}
	}
}

// discardStaged deletes the staged copies once the unit completed and the
// replacements are final.
func (m *Mover) discardStaged(staged map[string]string) {
	for dst, aside := range staged {
		if err := os.Remove(aside); err != nil {
			log.Warn().Err(err).Str("file", dst).Msg("could not remove replaced destination copy")
		}
	}
}

// rollback returns every already-moved file of a failing unit to its
// original source path: subtitles first, then the primary media file.
// Destinations the unit displaced under overwrite are restored separately
// by the caller once the sources are back.
func (m *Mover) rollback(plan []types.MovePlanEntry, primaryIdx int, movedSubs []int, results map[int]types.MoveResult) {
	for j := len(movedSubs) - 1; j >= 0; j-- {
		i := movedSubs[j]
		entry := plan[i]
		if err := m.moveFile(entry.Destination, entry.Source.Path); err != nil {
			log.Warn().Err(err).Str("file", entry.Source.Name).Msg("rollback of subtitle failed")
			results[i] = types.MoveResult{MovePlanEntry: entry, Outcome: types.OutcomeFailed, Error: fmt.Sprintf("rollback failed: %v", err)}
			continue
		}
		results[i] = types.MoveResult{MovePlanEntry: entry, Outcome: types.OutcomeRolledBack, Executed: true}
	}

	primary := plan[primaryIdx]
	if err := m.moveFile(primary.Destination, primary.Source.Path); err != nil {
		log.Warn().Err(err).Str("file", primary.Source.Name).Msg("rollback of media file failed")
		results[primaryIdx] = types.MoveResult{MovePlanEntry: primary, Outcome: types.OutcomeFailed, Error: fmt.Sprintf("rollback failed: %v", err)}
		return
	}
	results[primaryIdx] = types.MoveResult{MovePlanEntry: primary, Outcome: types.OutcomeRolledBack, Executed: true}
}

// moveFile relocates src to dst. Without overwrite enabled an existing
// destination is an error; with it, any pre-existing destination has been
// staged aside by the caller and rename lands on a free slot. Cross-device
// moves fall back to copy-then-remove.
func (m *Mover) moveFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	if !m.cfg.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	return os.Remove(src)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
