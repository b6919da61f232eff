package dedupe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/media-organizer/go/internal/classify"
	"github.com/media-organizer/go/internal/mover"
	"github.com/media-organizer/go/internal/planner"
	"github.com/media-organizer/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestIdentical(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "b.mkv")
	c := filepath.Join(dir, "c.mkv")
	assert.NoError(t, os.WriteFile(a, []byte("same content"), 0o644))
	assert.NoError(t, os.WriteFile(b, []byte("same content"), 0o644))
	assert.NoError(t, os.WriteFile(c, []byte("other content!"), 0o644))

	same, err := Identical(a, b)
	assert.NoError(t, err)
	assert.True(t, same)

	same, err = Identical(a, c)
	assert.NoError(t, err)
	assert.False(t, same)
}

func TestIdenticalMissingFile(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.mkv")
	assert.NoError(t, os.WriteFile(a, []byte("content"), 0o644))

	_, err := Identical(a, filepath.Join(dir, "missing.mkv"))
	assert.Error(t, err)
}

func TestAnnotateExisting(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src.mkv")
	dupDst := filepath.Join(dir, "dup.mkv")
	otherDst := filepath.Join(dir, "other.mkv")
	assert.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	assert.NoError(t, os.WriteFile(dupDst, []byte("payload"), 0o644))
	assert.NoError(t, os.WriteFile(otherDst, []byte("different"), 0o644))

	results := []types.MoveResult{
		{
			MovePlanEntry: types.MovePlanEntry{
				Source:      types.FileHandle{Path: src},
				Destination: dupDst,
				Decision:    types.DecisionSkipExists,
				Reason:      "destination exists",
			},
			Outcome: types.OutcomeSkipped,
		},
		{
			MovePlanEntry: types.MovePlanEntry{
				Source:      types.FileHandle{Path: src},
				Destination: otherDst,
				Decision:    types.DecisionSkipExists,
				Reason:      "destination exists",
			},
			Outcome: types.OutcomeSkipped,
		},
		{
			MovePlanEntry: types.MovePlanEntry{
				Source:   types.FileHandle{Path: src},
				Decision: types.DecisionSkipFiltered,
				Reason:   "no companion subtitle",
			},
			Outcome: types.OutcomeSkipped,
		},
	}

	annotated := AnnotateExisting(results)
	assert.Equal(t, "identical copy already at destination", annotated[0].Reason)
	assert.Equal(t, "different file exists at destination", annotated[1].Reason)
	// Non skip_exists entries keep their reason.
	assert.Equal(t, "no companion subtitle", annotated[2].Reason)
}

func TestAnnotateExistingOnPlannedSkips(t *testing.T) {
	srcDir := t.TempDir()
	targetDir := t.TempDir()

	src := filepath.Join(srcDir, "Movie.Name.2019.mkv")
	assert.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	// The target already holds an identical copy at the computed destination.
	destDir := filepath.Join(targetDir, "Movie.Name.2019")
	assert.NoError(t, os.MkdirAll(destDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(destDir, "Movie.Name.2019.mkv"), []byte("payload"), 0o644))

	cfg := types.Config{SourceDir: srcDir, TargetDir: targetDir}
	classified := classify.Classify([]types.FileHandle{
		{Path: src, Name: "Movie.Name.2019.mkv", Extension: ".mkv"},
	})

	plan := planner.New(cfg).Plan(classified)
	results := mover.New(cfg).Execute(plan)
	annotated := AnnotateExisting(results)

	assert.Len(t, annotated, 1)
	assert.Equal(t, types.DecisionSkipExists, annotated[0].Decision)
	assert.Equal(t, "identical copy already at destination", annotated[0].Reason)
}
