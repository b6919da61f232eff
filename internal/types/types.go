package types

// Role classifies what a scanned file is to the pipeline. It is assigned
// exactly once, during classification, and never reinterpreted downstream.
type Role string

const (
	RolePrimaryMedia Role = "primary_media"
	RoleSubtitle     Role = "subtitle"
	RoleJunk         Role = "junk"
	RoleUnrecognized Role = "unrecognized"
)

// Category distinguishes movie files from TV episodes.
type Category string

const (
	CategoryMovie   Category = "movie"
	CategoryEpisode Category = "episode"
	CategoryUnknown Category = "unknown"
)

// FileHandle represents a scanned file. Immutable once classified.
type FileHandle struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Size      uint64 `json:"size"`
	Role      Role   `json:"role"`
}

// ParsedMetadata holds the components parsed out of a filename.
// Derived once per file and never mutated afterwards.
type ParsedMetadata struct {
	Title      string `json:"title"`
	Year       *int   `json:"year,omitempty"`
	Season     *int   `json:"season,omitempty"`
	Episode    *int   `json:"episode,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Codec      string `json:"codec,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Decision is the planner's verdict for a single file.
type Decision string

const (
	DecisionMove          Decision = "move"
	DecisionSkipExists    Decision = "skip_exists"
	DecisionSkipFiltered  Decision = "skip_filtered"
	DecisionSkipUnmatched Decision = "skip_unmatched"
)

// Outcome is what actually happened to a planned file.
type Outcome string

const (
	OutcomeMoved      Outcome = "moved"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
	OutcomeRolledBack Outcome = "rolled_back"
)

// MovePlanEntry maps one source file to its computed destination.
// Entries sharing a UnitID move together or not at all.
type MovePlanEntry struct {
	Source      FileHandle `json:"source"`
	Category    Category   `json:"category"`
	Destination string     `json:"destination,omitempty"`
	UnitID      int        `json:"unit_id"`
	Decision    Decision   `json:"decision"`
	Reason      string     `json:"reason,omitempty"`
}

// MoveResult is a plan entry plus its execution outcome.
type MoveResult struct {
	MovePlanEntry
	Outcome  Outcome `json:"outcome"`
	Executed bool    `json:"executed"`
	Error    string  `json:"error,omitempty"`
}

// CleanupKind distinguishes the two cleanup operations.
type CleanupKind string

const (
	CleanupDeleteEmptyDir CleanupKind = "delete_empty_dir"
	CleanupDeleteJunkFile CleanupKind = "delete_junk_file"
)

// CleanupAction records one deletion performed (or planned) by the cleaner.
type CleanupAction struct {
	Path     string      `json:"path"`
	Kind     CleanupKind `json:"kind"`
	Executed bool        `json:"executed"`
}

// Summary holds the batch counters emitted at the end of every run,
// including runs where some units failed.
type Summary struct {
	Processed       int `json:"processed"`
	Moved           int `json:"moved"`
	SkippedExists   int `json:"skipped_exists"`
	SkippedFiltered int `json:"skipped_filtered"`
	SkippedUnknown  int `json:"skipped_unmatched"`
	Failed          int `json:"failed"`
	CleanedFiles    int `json:"cleaned_files"`
	CleanedDirs     int `json:"cleaned_dirs"`
}

// Config holds the run-wide configuration. It is built once by the CLI and
// threaded explicitly through classification, planning, moving, and cleanup.
type Config struct {
	SourceDir       string
	TargetDir       string
	Resolution      string
	Codec           string
	YearGroup       bool
	RemoveSource    bool
	Overwrite       bool
	DryRun          bool
	ConfirmDelete   bool
	RequireSubtitle bool
	Json            bool
	Verbose         bool
}
