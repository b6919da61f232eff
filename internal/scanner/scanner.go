package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/media-organizer/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Scanner walks a source tree and collects candidate files.
type Scanner struct {
	RootPath string
}

// New creates a Scanner rooted at path.
func New(path string) (*Scanner, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	return &Scanner{RootPath: absPath}, nil
}

// Scan walks the source tree and returns every regular file found, in
// walk order. Roles are assigned later by the classifier.
func (s *Scanner) Scan() ([]types.FileHandle, error) {
	var files []types.FileHandle

	err := filepath.Walk(s.RootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path")
			return nil // Continue walking
		}

		if info.IsDir() {
			if path != s.RootPath && s.shouldSkip(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.shouldSkip(path) {
			return nil
		}

		files = append(files, types.FileHandle{
			Path:      path,
			Name:      info.Name(),
			Extension: filepath.Ext(info.Name()),
			Size:      uint64(info.Size()),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(files)).Msg("Scanner found files")
	return files, nil
}

func (s *Scanner) shouldSkip(path string) bool {
	filename := filepath.Base(path)

	// Skip hidden files/folders
	if strings.HasPrefix(filename, ".") {
		return true
	}

	// Skip known system directories
	skipDirs := []string{"node_modules", ".git", "__pycache__", "lost+found"}
	for _, d := range skipDirs {
		if filename == d {
			return true
		}
	}

	return false
}
