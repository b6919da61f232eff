package adstrip

import (
	"regexp"
	"sort"
	"strings"

	"github.com/media-organizer/go/internal/tokens"
)

// minDigitRun is the shortest standalone digit sequence treated as
// promotional noise. Four-digit years are never this long, so structured
// numbers survive even without span bookkeeping.
const minDigitRun = 5

// Patterns recognizing promotional noise in filenames.
var (
	// releaseGroupTagRe matches a trailing -[GROUP] style tag.
	releaseGroupTagRe = regexp.MustCompile(`-[\[【][^\]】]*[\]】]$`)

	// bracketGroupRe matches any bracket-delimited group, including
	// fullwidth CJK brackets common in scene releases.
	bracketGroupRe = regexp.MustCompile(`[\[【(][^\]】)]*[\]】)]`)

	// domainRe matches domain-like substrings (www.example.com, dygod.net).
	domainRe = regexp.MustCompile(`(?i)(?:www\.)?[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.(?:com|net|org|cc|me|tv|vip|top|xyz|la|io|cn|co)`)

	// adSiteRe matches well-known release/ad site names that appear
	// without a TLD.
	adSiteRe = regexp.MustCompile(`(?i)\b(?:yts|yify|rarbg|eztv|ettv|tgx|1337x|btbt|dygod|ygdy8|hdarea|mp4ba|xunlei|subhd)\b`)

	digitRunRe = regexp.MustCompile(`\d{5,}`)

	cjkRe = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
)

type span struct{ start, end int }

// Strip removes promotional substrings from s: trailing release-group tags,
// bracket groups whose content is domain-like, a known ad site, or a long
// digit run, bare domain-like substrings, and standalone long digit runs.
// Spans in reserved (already claimed by the token extractor) are never
// touched, so stripping cannot destroy a year, season/episode, resolution,
// or codec token. Returns the cleaned string and whether anything was
// removed.
func Strip(s string, reserved [][2]int) (string, bool) {
	var cuts []span

	add := func(start, end int) {
		for _, r := range reserved {
			if start < r[1] && end > r[0] {
				return
			}
		}
		cuts = append(cuts, span{start, end})
	}

	if loc := releaseGroupTagRe.FindStringIndex(s); loc != nil {
		add(loc[0], loc[1])
	}
	for _, loc := range bracketGroupRe.FindAllStringIndex(s, -1) {
		inner := strings.Trim(s[loc[0]:loc[1]], "[]【】()")
		if domainRe.MatchString(inner) || adSiteRe.MatchString(inner) || isDigitRun(inner) {
			add(loc[0], loc[1])
		}
	}
	for _, loc := range domainRe.FindAllStringIndex(s, -1) {
		add(loc[0], loc[1])
	}
	for _, loc := range digitRunRe.FindAllStringIndex(s, -1) {
		add(loc[0], loc[1])
	}

	if len(cuts) == 0 {
		return s, false
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })

	var b strings.Builder
	pos := 0
	for _, c := range cuts {
		if c.start < pos {
			// Contained in an earlier cut.
			if c.end > pos {
				pos = c.end
			}
			continue
		}
		b.WriteString(s[pos:c.start])
		pos = c.end
	}
	b.WriteString(s[pos:])

	return b.String(), true
}

func isDigitRun(s string) bool {
	if len(s) < minDigitRun {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StripCJKPrefix drops leading CJK advertisement text so the Latin title
// survives. Filenames without CJK characters pass through untouched.
func StripCJKPrefix(s string) string {
	if !cjkRe.MatchString(s) {
		return s
	}
	idx := strings.IndexFunc(s, func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	})
	if idx <= 0 {
		return s
	}
	rest := strings.TrimLeft(s[idx:], ". ")
	if len(rest) >= 3 && !cjkRe.MatchString(rest) {
		return rest
	}
	return s
}

// fsUnsafe are characters replaced to keep names portable across filesystems.
const fsUnsafe = `:/\|?*<>"`

// Normalize converts a cleaned name into its canonical dotted form: spaces
// and brackets become dots, filesystem-unsafe characters are replaced,
// runs of dots collapse, and leading/trailing dots are trimmed.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '(' || r == ')' || r == '[' || r == ']' || r == '【' || r == '】':
			b.WriteRune('.')
		case strings.ContainsRune(fsUnsafe, r):
			b.WriteRune('.')
		default:
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	for strings.Contains(normalized, "..") {
		normalized = strings.ReplaceAll(normalized, "..", ".")
	}
	normalized = strings.Trim(normalized, ".-")

	if normalized == "" {
		return "Unknown"
	}
	return normalized
}

// CleanName strips promotional noise from a filename stem (respecting the
// spans its token set already claimed) and normalizes the remainder.
func CleanName(stem string, set tokens.Set) string {
	cleaned, _ := Strip(stem, set.Spans())
	cleaned = StripCJKPrefix(cleaned)
	return Normalize(cleaned)
}
