package cleaner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/media-organizer/go/internal/classify"
	"github.com/media-organizer/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Cleanup safety errors. These abort the cleanup phase only, never the
// preceding move phase.
var (
	ErrProtectedPath        = errors.New("refusing to clean a protected system path")
	ErrNestedRoots          = errors.New("source and target roots overlap")
	ErrConfirmationDeclined = errors.New("cleanup declined by user")
)

// ConfirmFunc is the injected yes/no capability consulted before any
// deletion when confirmation is enabled. It receives the path about to be
// cleared and returns whether to proceed.
type ConfirmFunc func(path string) bool

// protectedRoots are system paths (and their first two levels) the cleaner
// refuses to operate on.
var protectedRoots = []string{
	"/home", "/Users", "/root", "/etc", "/var", "/usr", "/bin", "/sbin", "/opt",
}

// Cleaner removes junk files and now-empty directories under the source
// root after a move pass. The source root itself is exempt: only its
// contents are cleared.
type Cleaner struct {
	cfg     types.Config
	confirm ConfirmFunc
}

// New creates a Cleaner. confirm may be nil when confirmation is disabled.
func New(cfg types.Config, confirm ConfirmFunc) *Cleaner {
	return &Cleaner{cfg: cfg, confirm: confirm}
}

// Clean walks the source root bottom-up, deleting junk-extension files and
// then any directory left empty. All safety gates are checked before the
// first deletion; a declined confirmation aborts the pass with zero
// deletions performed.
func (c *Cleaner) Clean() ([]types.CleanupAction, error) {
	if err := c.checkSafety(); err != nil {
		return nil, err
	}

	if c.cfg.ConfirmDelete && !c.cfg.DryRun {
		if c.confirm == nil || !c.confirm(c.cfg.SourceDir) {
			return nil, ErrConfirmationDeclined
		}
	}

	dirs, err := collectDirs(c.cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	var actions []types.CleanupAction
	removed := map[string]bool{} // dry-run bookkeeping of simulated deletions

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("cannot read directory during cleanup")
			continue
		}

		remaining := 0
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if !removed[path] {
					remaining++
				}
				continue
			}
			if !classify.JunkExtensions(filepath.Ext(e.Name())) {
				remaining++
				continue
			}
			if c.cfg.DryRun {
				actions = append(actions, types.CleanupAction{Path: path, Kind: types.CleanupDeleteJunkFile})
				removed[path] = true
				continue
			}
			if err := os.Remove(path); err != nil {
				log.Warn().Err(err).Str("file", path).Msg("failed to delete junk file")
				remaining++
				continue
			}
			log.Info().Str("file", path).Msg("deleted junk file")
			actions = append(actions, types.CleanupAction{Path: path, Kind: types.CleanupDeleteJunkFile, Executed: true})
		}

		if dir == c.cfg.SourceDir || remaining > 0 {
			continue
		}
		if c.cfg.DryRun {
			actions = append(actions, types.CleanupAction{Path: dir, Kind: types.CleanupDeleteEmptyDir})
			removed[dir] = true
			continue
		}
		if err := os.Remove(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to delete empty directory")
			continue
		}
		log.Info().Str("dir", dir).Msg("deleted empty directory")
		actions = append(actions, types.CleanupAction{Path: dir, Kind: types.CleanupDeleteEmptyDir, Executed: true})
	}

	return actions, nil
}

// checkSafety enforces the mandatory gates: no ancestor relation between
// source and target, and no cleaning at or near protected system paths.
func (c *Cleaner) checkSafety() error {
	source, err := filepath.Abs(c.cfg.SourceDir)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(c.cfg.TargetDir)
	if err != nil {
		return err
	}

	if source == target || isAncestor(source, target) || isAncestor(target, source) {
		return ErrNestedRoots
	}

	if source == string(filepath.Separator) {
		return ErrProtectedPath
	}
	for _, root := range protectedRoots {
		if source != root && !isAncestor(root, source) {
			continue
		}
		// The protected root and its first two levels are off limits;
		// deeper subdirectories are fair game.
		if depth(source) <= depth(root)+2 {
			return ErrProtectedPath
		}
	}

	if provider, ok := DetectCloudPath(source); ok {
		log.Warn().Str("provider", provider.String()).Str("path", source).
			Msg("source root is inside a cloud-synced directory, deletions will propagate")
	}

	return nil
}

func isAncestor(parent, child string) bool {
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}

// collectDirs gathers every directory under root with an explicit,
// stack-based traversal and returns them deepest first, so each directory
// is handled only after all of its children.
func collectDirs(root string) ([]string, error) {
	var dirs []string
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		dirs = append(dirs, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, err
			}
			log.Warn().Err(err).Str("dir", dir).Msg("cannot read directory")
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				stack = append(stack, filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		di, dj := depth(dirs[i]), depth(dirs[j])
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs, nil
}
