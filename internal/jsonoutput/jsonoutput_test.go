package jsonoutput

import (
	"encoding/json"
	"testing"

	"github.com/media-organizer/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFromResultsRelativizesAndSorts(t *testing.T) {
	cfg := types.Config{SourceDir: "/src", TargetDir: "/library"}
	results := []types.MoveResult{
		{
			MovePlanEntry: types.MovePlanEntry{
				Source:      types.FileHandle{Path: "/src/b/Movie.2020.mkv", Role: types.RolePrimaryMedia},
				Category:    types.CategoryMovie,
				Destination: "/library/Movie.2020/Movie.2020.mkv",
				Decision:    types.DecisionMove,
			},
			Outcome:  types.OutcomeMoved,
			Executed: true,
		},
		{
			MovePlanEntry: types.MovePlanEntry{
				Source:   types.FileHandle{Path: "/src/a/random.bin", Role: types.RoleUnrecognized},
				Category: types.CategoryUnknown,
				Decision: types.DecisionSkipUnmatched,
				Reason:   "unrecognized file type",
			},
			Outcome: types.OutcomeSkipped,
		},
	}

	output := FromResults(results, nil, types.Summary{Processed: 2, Moved: 1}, cfg)

	assert.Len(t, output.Files, 2)
	// Sorted by relative source path.
	assert.Equal(t, "a/random.bin", output.Files[0].Source)
	assert.Equal(t, "b/Movie.2020.mkv", output.Files[1].Source)
	assert.Equal(t, "Movie.2020/Movie.2020.mkv", output.Files[1].Destination)
	assert.Empty(t, output.Files[0].Destination)
}

func TestToJSONRoundTrips(t *testing.T) {
	output := &Output{
		Files:   []Record{{Source: "a.mkv", Outcome: types.OutcomeMoved, Executed: true}},
		Cleanup: []types.CleanupAction{},
		Summary: types.Summary{Processed: 1, Moved: 1},
	}

	s, err := ToJSON(output)
	assert.NoError(t, err)

	var decoded Output
	assert.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, output.Summary, decoded.Summary)
	assert.Len(t, decoded.Files, 1)
}
