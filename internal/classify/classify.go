package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/media-organizer/go/internal/adstrip"
	"github.com/media-organizer/go/internal/tokens"
	"github.com/media-organizer/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Extension sets driving role assignment.
var (
	videoExtensions = map[string]bool{
		".mkv": true, ".mp4": true, ".avi": true, ".mov": true,
		".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
		".mpg": true, ".mpeg": true, ".ts": true, ".m2ts": true,
	}

	subtitleExtensions = map[string]bool{
		".srt": true, ".ass": true, ".ssa": true, ".sub": true,
		".vtt": true, ".idx": true, ".sup": true,
	}

	junkExtensions = map[string]bool{
		".nfo": true, ".txt": true, ".jpg": true, ".jpeg": true,
		".png": true, ".gif": true, ".bmp": true, ".tiff": true,
		".webp": true,
	}
)

// JunkExtensions reports whether ext belongs to the junk set the cleaner
// is allowed to delete.
func JunkExtensions(ext string) bool {
	return junkExtensions[strings.ToLower(ext)]
}

// Subtitle is a subtitle file aligned to a primary media file.
type Subtitle struct {
	Handle   types.FileHandle
	Language string
}

// Unit is the atomic relocation group: one primary media file plus every
// subtitle aligned to it.
type Unit struct {
	ID        int
	Primary   types.FileHandle
	Meta      types.ParsedMetadata
	Category  types.Category
	Subtitles []Subtitle
}

// Result is the full classification of a scanned batch. Nothing is silently
// dropped: files excluded from planning are reported in their own buckets.
type Result struct {
	Units        []Unit
	Unknown      []types.FileHandle // primary media lacking both year and season/episode
	Orphans      []types.FileHandle // subtitles with no matching primary media
	Junk         []types.FileHandle
	Unrecognized []types.FileHandle
}

// RoleFor assigns the role for a file extension.
func RoleFor(ext string) types.Role {
	ext = strings.ToLower(ext)
	switch {
	case videoExtensions[ext]:
		return types.RolePrimaryMedia
	case subtitleExtensions[ext]:
		return types.RoleSubtitle
	case junkExtensions[ext]:
		return types.RoleJunk
	default:
		return types.RoleUnrecognized
	}
}

// Parse derives metadata from a filename. The token extractor claims
// structured spans first; ad stripping then works only on the residual
// title portion, so legitimate numeric tokens are never lost.
func Parse(name string) (types.ParsedMetadata, tokens.Set) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	set := tokens.Extract(stem)

	titleRaw := stem[:set.TitleEnd(stem)]
	stripped, _ := adstrip.Strip(titleRaw, nil)
	stripped = adstrip.StripCJKPrefix(stripped)

	meta := types.ParsedMetadata{Title: adstrip.Normalize(stripped)}

	if year, ok := set.Year(); ok {
		meta.Year = &year
	}
	if season, episode, ok := set.SeasonEpisode(); ok {
		meta.Season = &season
		meta.Episode = &episode
	}
	if tok, ok := set.Get(tokens.KindResolution); ok {
		meta.Resolution = tok.Value
	}
	if tok, ok := set.Get(tokens.KindCodec); ok {
		meta.Codec = tok.Value
	}
	if tok, ok := set.Get(tokens.KindLanguage); ok {
		meta.Language = strings.ToLower(tok.Value)
	}

	return meta, set
}

// categoryOf decides movie vs episode. A season/episode token forces the
// episode category; otherwise a year selects movie; otherwise unknown.
func categoryOf(meta types.ParsedMetadata) types.Category {
	switch {
	case meta.Season != nil:
		return types.CategoryEpisode
	case meta.Year != nil:
		return types.CategoryMovie
	default:
		return types.CategoryUnknown
	}
}

// Classify assigns roles and categories to a scanned batch and builds the
// move units. Subtitle alignment requires the subtitle stem, minus its
// trailing language/type suffix, to exactly equal a primary media stem in
// the same directory.
func Classify(files []types.FileHandle) Result {
	var result Result

	// Deterministic processing order regardless of scan order.
	sorted := make([]types.FileHandle, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	type pending struct {
		unit int // index into result.Units
	}
	primaries := map[string]pending{} // dir + "\x00" + stem

	for _, f := range sorted {
		role := RoleFor(f.Extension)
		handle := types.FileHandle{
			Path:      f.Path,
			Name:      f.Name,
			Extension: f.Extension,
			Size:      f.Size,
			Role:      role,
		}

		if role != types.RolePrimaryMedia {
			continue
		}

		meta, _ := Parse(handle.Name)
		category := categoryOf(meta)
		if category == types.CategoryUnknown {
			log.Debug().Str("file", handle.Name).Msg("no year or season/episode token, excluded from plan")
			result.Unknown = append(result.Unknown, handle)
			continue
		}

		stem := strings.TrimSuffix(handle.Name, handle.Extension)
		unit := Unit{
			ID:       len(result.Units),
			Primary:  handle,
			Meta:     meta,
			Category: category,
		}
		result.Units = append(result.Units, unit)
		primaries[alignKey(filepath.Dir(handle.Path), stem)] = pending{unit: unit.ID}
	}

	for _, f := range sorted {
		role := RoleFor(f.Extension)
		handle := types.FileHandle{
			Path:      f.Path,
			Name:      f.Name,
			Extension: f.Extension,
			Size:      f.Size,
			Role:      role,
		}

		switch role {
		case types.RolePrimaryMedia:
			// Handled in the first pass.
		case types.RoleSubtitle:
			meta, _ := Parse(handle.Name)
			stem := strings.TrimSuffix(handle.Name, handle.Extension)
			base := stem
			if meta.Language != "" {
				base = strings.TrimSuffix(stem, "."+meta.Language)
			}
			if p, ok := primaries[alignKey(filepath.Dir(handle.Path), base)]; ok {
				result.Units[p.unit].Subtitles = append(result.Units[p.unit].Subtitles, Subtitle{
					Handle:   handle,
					Language: meta.Language,
				})
			} else {
				log.Debug().Str("file", handle.Name).Msg("subtitle has no matching media file")
				result.Orphans = append(result.Orphans, handle)
			}
		case types.RoleJunk:
			result.Junk = append(result.Junk, handle)
		default:
			result.Unrecognized = append(result.Unrecognized, handle)
		}
	}

	return result
}

func alignKey(dir, stem string) string {
	return dir + "\x00" + stem
}

// CleanFileName returns the promotional-noise-free form of a filename,
// preserving its language suffix and extension.
func CleanFileName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	lang := ""
	if subtitleExtensions[strings.ToLower(ext)] {
		if tok, ok := tokens.Extract(stem).Get(tokens.KindLanguage); ok {
			lang = strings.ToLower(tok.Value)
			stem = strings.TrimSuffix(stem, "."+tok.Value)
		}
	}

	// Re-extract on the trimmed stem so token spans line up with it.
	cleaned := adstrip.CleanName(stem, tokens.Extract(stem))
	if lang != "" {
		cleaned += "." + lang
	}
	return cleaned + ext
}
