package dedupe

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/media-organizer/go/internal/types"
	"github.com/rs/zerolog/log"
)

// AnnotateExisting refines the reason on results that were skipped because
// the destination already held a file: an identical copy is distinguished
// from a genuine name conflict. Only reads the filesystem, never writes.
func AnnotateExisting(results []types.MoveResult) []types.MoveResult {
	for i, r := range results {
		if r.Decision != types.DecisionSkipExists || r.Destination == "" {
			continue
		}

		same, err := Identical(r.Source.Path, r.Destination)
		if err != nil {
			log.Debug().Err(err).Str("source", r.Source.Path).Msg("cannot compare with destination")
			continue
		}
		if same {
			results[i].Reason = "identical copy already at destination"
		} else {
			results[i].Reason = "different file exists at destination"
		}
	}
	return results
}

// Identical reports whether two files hold the same content. Sizes are
// compared first so mismatched files never get hashed.
func Identical(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	hashA, err := hashFile(a)
	if err != nil {
		return false, err
	}
	hashB, err := hashFile(b)
	if err != nil {
		return false, err
	}
	return hashA == hashB, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
