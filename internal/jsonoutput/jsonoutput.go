package jsonoutput

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/media-organizer/go/internal/types"
)

// Record is one processed file in the machine-readable report.
type Record struct {
	Source      string         `json:"source"`
	Role        types.Role     `json:"role"`
	Category    types.Category `json:"category"`
	Decision    types.Decision `json:"decision"`
	Destination string         `json:"destination,omitempty"`
	Outcome     types.Outcome  `json:"outcome"`
	Executed    bool           `json:"executed"`
	Reason      string         `json:"reason,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Output is the complete JSON report of a run.
type Output struct {
	DryRun  bool                  `json:"dry_run"`
	Files   []Record              `json:"files"`
	Cleanup []types.CleanupAction `json:"cleanup"`
	Summary types.Summary         `json:"summary"`
}

// FromResults assembles the report. Source and destination paths are made
// relative to their roots and records are sorted by source path, so the
// output is deterministic for a given input tree.
func FromResults(results []types.MoveResult, cleanup []types.CleanupAction, summary types.Summary, cfg types.Config) *Output {
	output := &Output{
		DryRun:  cfg.DryRun,
		Files:   []Record{},
		Cleanup: []types.CleanupAction{},
		Summary: summary,
	}

	for _, res := range results {
		output.Files = append(output.Files, Record{
			Source:      makeRelativePath(res.Source.Path, cfg.SourceDir),
			Role:        res.Source.Role,
			Category:    res.Category,
			Decision:    res.Decision,
			Destination: makeRelativePath(res.Destination, cfg.TargetDir),
			Outcome:     res.Outcome,
			Executed:    res.Executed,
			Reason:      res.Reason,
			Error:       res.Error,
		})
	}
	sort.Slice(output.Files, func(i, j int) bool {
		return output.Files[i].Source < output.Files[j].Source
	})

	for _, action := range cleanup {
		relocated := action
		relocated.Path = makeRelativePath(action.Path, cfg.SourceDir)
		output.Cleanup = append(output.Cleanup, relocated)
	}
	sort.Slice(output.Cleanup, func(i, j int) bool {
		return output.Cleanup[i].Path < output.Cleanup[j].Path
	})

	return output
}

// ToJSON serializes the output with stable indentation.
func ToJSON(output *Output) (string, error) {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal output: %w", err)
	}
	return string(data), nil
}

// makeRelativePath converts an absolute path to one relative to root,
// falling back to the original on failure.
func makeRelativePath(path, root string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
