package tokens

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a token category extracted from a filename.
type Kind string

const (
	KindSeasonEpisode Kind = "season_episode"
	KindYear          Kind = "year"
	KindResolution    Kind = "resolution"
	KindQualifier     Kind = "qualifier"
	KindCodec         Kind = "codec"
	KindLanguage      Kind = "language"
)

// Token is a single extracted token together with the character span it
// occupied in the input. Spans never overlap across kinds.
type Token struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Set maps token kinds to the token extracted for that kind. A filename
// with no recognizable tokens yields an empty set, not an error.
type Set map[Kind]Token

// rule pairs a token kind with the pattern recognizing it. Rules are data:
// they are evaluated strictly in declaration order, and each match reserves
// its span so lower-priority rules cannot reuse it.
type rule struct {
	kind Kind
	re   *regexp.Regexp
	// group is the submatch whose text becomes the token value and whose
	// span gets reserved.
	group int
}

// rules in priority order. Season/episode is tried before bare year because
// episode markers like S01E01 often sit next to a four-digit number that is
// not a release year.
var rules = []rule{
	{KindSeasonEpisode, regexp.MustCompile(`(?i)(?:^|[\s._\-\[\(])(s\d{1,2}e\d{1,3}|\d{1,2}x\d{2,3})(?:[\s._\-\]\)]|$)`), 1},
	{KindYear, regexp.MustCompile(`(?:^|[\s._\-\[\(])((?:19|20)\d{2})(?:[\s._\-\]\)]|$)`), 1},
	{KindResolution, regexp.MustCompile(`(?i)(?:^|[\s._\-\[\(])(\d{3,4}p|4k|8k)(?:[\s._\-\]\)]|$)`), 1},
	{KindQualifier, regexp.MustCompile(`(?i)(?:^|[\s._\-\[\(])(uhd|hdr10\+?|hdr|dv|dolby.?vision|10bit)(?:[\s._\-\]\)]|$)`), 1},
	{KindCodec, regexp.MustCompile(`(?i)(?:^|[\s._\-\[\(])(x26[45]|h\.?26[45]|hevc|avc|av1|vp9|xvid|divx)(?:[\s._\-\]\)]|$)`), 1},
	{KindLanguage, regexp.MustCompile(`(?i)\.(en|eng|zh|chi|chs|cht|cn|jp|jpn|kr|kor|fr|fre|de|ger|es|spa|it|ita|ru|rus|ai|gt|emb|asr|auto|forced|sdh|cc)$`), 1},
}

type span struct{ start, end int }

func overlaps(reserved []span, start, end int) bool {
	for _, s := range reserved {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract runs the ordered rule list against name and returns the extracted
// tokens. The first match per kind wins; a match whose span overlaps an
// already-reserved span is skipped in favor of the next candidate.
func Extract(name string) Set {
	set := Set{}
	var reserved []span

	for _, r := range rules {
		if _, ok := set[r.kind]; ok {
			continue
		}
		for _, loc := range r.re.FindAllStringSubmatchIndex(name, -1) {
			start, end := loc[2*r.group], loc[2*r.group+1]
			if start < 0 || overlaps(reserved, start, end) {
				continue
			}
			set[r.kind] = Token{Kind: r.kind, Value: name[start:end], Start: start, End: end}
			reserved = append(reserved, span{start, end})
			break
		}
	}

	return set
}

// Get returns the token extracted for kind, if any.
func (s Set) Get(kind Kind) (Token, bool) {
	tok, ok := s[kind]
	return tok, ok
}

// Year returns the extracted release year.
func (s Set) Year() (int, bool) {
	tok, ok := s[KindYear]
	if !ok {
		return 0, false
	}
	year, err := strconv.Atoi(tok.Value)
	if err != nil {
		return 0, false
	}
	return year, true
}

var seasonEpisodeSplit = regexp.MustCompile(`(?i)^s?(\d{1,2})[ex](\d{1,3})$`)

// SeasonEpisode decodes the season/episode token into its two numbers.
func (s Set) SeasonEpisode() (season, episode int, ok bool) {
	tok, found := s[KindSeasonEpisode]
	if !found {
		return 0, 0, false
	}
	m := seasonEpisodeSplit.FindStringSubmatch(tok.Value)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// Structured reports whether the set contains any token that pins down the
// end of the title portion of a filename (everything except language).
func (s Set) Structured() bool {
	for kind := range s {
		if kind != KindLanguage {
			return true
		}
	}
	return false
}

// TitleEnd returns the index at which the title portion of name ends: the
// start of the earliest structured token, or len(name) when none matched.
func (s Set) TitleEnd(name string) int {
	end := len(name)
	for kind, tok := range s {
		if kind == KindLanguage {
			continue
		}
		// Back up over the delimiter immediately before the token.
		start := tok.Start
		if start > 0 && strings.ContainsRune(" ._-[(", rune(name[start-1])) {
			start--
		}
		if start < end {
			end = start
		}
	}
	return end
}

// Spans returns the reserved character spans of all extracted tokens,
// useful for asserting the non-overlap guarantee.
func (s Set) Spans() [][2]int {
	out := make([][2]int, 0, len(s))
	for _, tok := range s {
		out = append(out, [2]int{tok.Start, tok.End})
	}
	return out
}
