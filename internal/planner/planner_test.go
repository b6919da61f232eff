package planner

import (
	"path/filepath"
	"testing"

	"github.com/media-organizer/go/internal/classify"
	"github.com/media-organizer/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func testPlanner(cfg types.Config) *Planner {
	if cfg.TargetDir == "" {
		cfg.TargetDir = "/library"
	}
	p := New(cfg)
	p.Exists = func(string) bool { return false }
	return p
}

func classified(names ...string) classify.Result {
	var files []types.FileHandle
	for _, name := range names {
		files = append(files, types.FileHandle{
			Path:      "/src/" + name,
			Name:      name,
			Extension: filepath.Ext(name),
		})
	}
	return classify.Classify(files)
}

func TestPlanMovieDestination(t *testing.T) {
	p := testPlanner(types.Config{RequireSubtitle: true})
	result := classified(
		"Movie.Name.2019.1080p.BluRay.x265-[EXAMPLE].mkv",
		"Movie.Name.2019.1080p.BluRay.x265-[EXAMPLE].ai.srt",
	)

	plan := p.Plan(result)
	assert.Len(t, plan, 2)

	assert.Equal(t, types.DecisionMove, plan[0].Decision)
	assert.Equal(t, "/library/Movie.Name.2019/Movie.Name.2019.1080p.BluRay.x265.mkv", plan[0].Destination)

	assert.Equal(t, types.DecisionMove, plan[1].Decision)
	assert.Equal(t, "/library/Movie.Name.2019/Movie.Name.2019.1080p.BluRay.x265.ai.srt", plan[1].Destination)
	assert.Equal(t, plan[0].UnitID, plan[1].UnitID)
}

func TestPlanEpisodeDestination(t *testing.T) {
	p := testPlanner(types.Config{RequireSubtitle: true})
	plan := p.Plan(classified("Show.S01E02.720p.mkv"))

	assert.Len(t, plan, 1)
	// Episodes have no companion-subtitle requirement.
	assert.Equal(t, types.DecisionMove, plan[0].Decision)
	assert.Equal(t, "/library/Show/Season_01/Show.S01E02.720p.mkv", plan[0].Destination)
}

func TestPlanMovieWithoutSubtitleSkipped(t *testing.T) {
	p := testPlanner(types.Config{RequireSubtitle: true})
	plan := p.Plan(classified("Movie.Name.2019.mkv"))

	assert.Len(t, plan, 1)
	assert.Equal(t, types.DecisionSkipFiltered, plan[0].Decision)
	assert.Equal(t, "no companion subtitle", plan[0].Reason)
	assert.Empty(t, plan[0].Destination)
}

func TestPlanResolutionFilter(t *testing.T) {
	p := testPlanner(types.Config{Resolution: "1080p"})
	plan := p.Plan(classified("Movie.Name.2019.720p.mkv"))

	assert.Len(t, plan, 1)
	assert.Equal(t, types.DecisionSkipFiltered, plan[0].Decision)
}

func TestPlanCodecFilterFoldsVariants(t *testing.T) {
	// H.265 and h265 must compare equal.
	p := testPlanner(types.Config{Codec: "h265"})
	plan := p.Plan(classified("Movie.Name.2019.H.265.mkv"))

	assert.Len(t, plan, 1)
	assert.Equal(t, types.DecisionMove, plan[0].Decision)
}

func TestPlanSkipExistingDestination(t *testing.T) {
	p := testPlanner(types.Config{})
	p.Exists = func(string) bool { return true }

	plan := p.Plan(classified("Movie.Name.2019.mkv"))
	assert.Len(t, plan, 1)
	assert.Equal(t, types.DecisionSkipExists, plan[0].Decision)
	// The occupied destination stays on the entry so consumers can compare
	// the source against what is already there.
	assert.Equal(t, "/library/Movie.Name.2019/Movie.Name.2019.mkv", plan[0].Destination)
}

func TestPlanSkipExistingKeepsUnitDestinations(t *testing.T) {
	p := testPlanner(types.Config{})
	p.Exists = func(string) bool { return true }

	plan := p.Plan(classified(
		"Movie.Name.2019.mkv",
		"Movie.Name.2019.en.srt",
	))
	assert.Len(t, plan, 2)
	for _, entry := range plan {
		assert.Equal(t, types.DecisionSkipExists, entry.Decision)
		assert.NotEmpty(t, entry.Destination)
	}
	assert.Equal(t, "/library/Movie.Name.2019/Movie.Name.2019.en.srt", plan[1].Destination)
}

func TestPlanOverwriteAllowsExistingDestination(t *testing.T) {
	p := testPlanner(types.Config{Overwrite: true})
	p.Exists = func(string) bool { return true }

	plan := p.Plan(classified("Movie.Name.2019.mkv"))
	assert.Len(t, plan, 1)
	assert.Equal(t, types.DecisionMove, plan[0].Decision)
}

func TestPlanCollidingUnitsResolvedDeterministically(t *testing.T) {
	// Two sources normalizing to the same destination: the first in path
	// order claims it, the second is skipped.
	p := testPlanner(types.Config{})
	result := classify.Classify([]types.FileHandle{
		{Path: "/src/a/Movie.Name.2019.mkv", Name: "Movie.Name.2019.mkv", Extension: ".mkv"},
		{Path: "/src/b/Movie.Name.2019.mkv", Name: "Movie.Name.2019.mkv", Extension: ".mkv"},
	})

	plan := p.Plan(result)
	assert.Len(t, plan, 2)
	assert.Equal(t, types.DecisionMove, plan[0].Decision)
	assert.Equal(t, "/src/a/Movie.Name.2019.mkv", plan[0].Source.Path)
	assert.Equal(t, types.DecisionSkipExists, plan[1].Decision)
}

func TestPlanYearGrouping(t *testing.T) {
	p := testPlanner(types.Config{YearGroup: true})

	plan := p.Plan(classified("New.Movie.2025.mkv"))
	assert.Equal(t, "/library/2025/New.Movie.2025/New.Movie.2025.mkv", plan[0].Destination)

	plan = p.Plan(classified("Old.Movie.1994.mkv"))
	assert.Equal(t, "/library/1990s/Old.Movie.1994/Old.Movie.1994.mkv", plan[0].Destination)
}

func TestPlanReportsNonPlannableFiles(t *testing.T) {
	p := testPlanner(types.Config{})
	result := classified(
		"home_video.mkv",
		"lonely.en.srt",
		"setup.exe",
		"info.nfo",
	)

	plan := p.Plan(result)
	assert.Len(t, plan, 4)

	byName := map[string]types.MovePlanEntry{}
	for _, entry := range plan {
		byName[entry.Source.Name] = entry
		assert.Equal(t, -1, entry.UnitID)
	}

	assert.Equal(t, types.DecisionSkipUnmatched, byName["home_video.mkv"].Decision)
	assert.Equal(t, types.DecisionSkipUnmatched, byName["lonely.en.srt"].Decision)
	assert.Equal(t, types.DecisionSkipUnmatched, byName["setup.exe"].Decision)
	assert.Equal(t, types.DecisionSkipFiltered, byName["info.nfo"].Decision)
}

func TestPlanIsRepeatable(t *testing.T) {
	p := testPlanner(types.Config{})
	result := classified(
		"Movie.One.2019.mkv",
		"Movie.Two.2020.mkv",
		"Show.S01E01.mkv",
	)

	first := p.Plan(result)
	second := p.Plan(result)
	assert.Equal(t, first, second)
}

func TestYearCategory(t *testing.T) {
	y := func(n int) *int { return &n }

	assert.Equal(t, "Unknown", yearCategory(nil))
	assert.Equal(t, "2024", yearCategory(y(2024)))
	assert.Equal(t, "2026", yearCategory(y(2026)))
	assert.Equal(t, "2010s", yearCategory(y(2019)))
	assert.Equal(t, "1980s", yearCategory(y(1985)))
}
