package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMovieTokens(t *testing.T) {
	set := Extract("Movie.Name.2019.1080p.BluRay.x265-[EXAMPLE]")

	year, ok := set.Year()
	assert.True(t, ok)
	assert.Equal(t, 2019, year)

	res, ok := set.Get(KindResolution)
	assert.True(t, ok)
	assert.Equal(t, "1080p", res.Value)

	codec, ok := set.Get(KindCodec)
	assert.True(t, ok)
	assert.Equal(t, "x265", codec.Value)

	_, ok = set.Get(KindSeasonEpisode)
	assert.False(t, ok)
}

func TestExtractSeasonEpisode(t *testing.T) {
	tests := []struct {
		name    string
		season  int
		episode int
	}{
		{"Show.S01E02.720p", 1, 2},
		{"Show.s1e9.mkv", 1, 9},
		{"Show.3x07.HDTV", 3, 7},
		{"Show S02E10 1080p", 2, 10},
	}

	for _, tt := range tests {
		set := Extract(tt.name)
		season, episode, ok := set.SeasonEpisode()
		assert.True(t, ok, tt.name)
		assert.Equal(t, tt.season, season, tt.name)
		assert.Equal(t, tt.episode, episode, tt.name)
	}
}

func TestSeasonEpisodeBeforeYear(t *testing.T) {
	// The 4-digit number next to the episode marker is a TV year, not a
	// release year, but the episode marker must win its span first.
	set := Extract("Show.2019.S01E01.1080p")

	_, _, ok := set.SeasonEpisode()
	assert.True(t, ok)

	year, ok := set.Year()
	assert.True(t, ok)
	assert.Equal(t, 2019, year)
}

func TestExtractSpansNeverOverlap(t *testing.T) {
	inputs := []string{
		"Movie.2019.1080p.x265",
		"Show.S01E01.2019.720p.H.264",
		"Some.Film.2024.4K.HDR.AV1",
		"Show.1x05.480p.xvid",
	}

	for _, input := range inputs {
		spans := Extract(input).Spans()
		for i := 0; i < len(spans); i++ {
			for j := i + 1; j < len(spans); j++ {
				a, b := spans[i], spans[j]
				disjoint := a[1] <= b[0] || b[1] <= a[0]
				assert.True(t, disjoint, "overlapping spans in %q: %v %v", input, a, b)
			}
		}
	}
}

func TestExtractResolutionVocabulary(t *testing.T) {
	for _, res := range []string{"480p", "720p", "1080p", "2160p"} {
		set := Extract("Movie." + res + ".mkv")
		tok, ok := set.Get(KindResolution)
		assert.True(t, ok, res)
		assert.Equal(t, res, tok.Value)
	}

	set := Extract("Movie.4K.HDR")
	tok, ok := set.Get(KindResolution)
	assert.True(t, ok)
	assert.Equal(t, "4K", tok.Value)
	_, ok = set.Get(KindQualifier)
	assert.True(t, ok)
}

func TestExtractCodecVariants(t *testing.T) {
	tests := map[string]string{
		"Movie.2019.x264":  "x264",
		"Movie.2019.H.265": "H.265",
		"Movie.2019.h264":  "h264",
		"Movie.2019.HEVC":  "HEVC",
		"Movie.2019.AV1":   "AV1",
	}

	for input, want := range tests {
		tok, ok := Extract(input).Get(KindCodec)
		assert.True(t, ok, input)
		assert.Equal(t, want, tok.Value, input)
	}
}

func TestExtractLanguageSuffix(t *testing.T) {
	set := Extract("Movie.Name.2019.1080p.en")
	tok, ok := set.Get(KindLanguage)
	assert.True(t, ok)
	assert.Equal(t, "en", tok.Value)

	// Language must be a trailing suffix.
	_, ok = Extract("en.Movie.Name.2019").Get(KindLanguage)
	assert.False(t, ok)
}

func TestExtractNoTokens(t *testing.T) {
	set := Extract("random garbage file")
	assert.Empty(t, set)
	assert.False(t, set.Structured())
}

func TestYearNotMatchedInsideLargerNumber(t *testing.T) {
	// 12019 is not a year; the pattern requires delimiters around it.
	_, ok := Extract("Movie.12019.mkv").Year()
	assert.False(t, ok)
}

func TestTitleEnd(t *testing.T) {
	name := "Movie.Name.2019.1080p.x265"
	set := Extract(name)
	assert.Equal(t, "Movie.Name", name[:set.TitleEnd(name)])

	name = "Show.S01E02.720p"
	set = Extract(name)
	assert.Equal(t, "Show", name[:set.TitleEnd(name)])

	// No structured tokens: the whole name is title.
	name = "just a plain name"
	set = Extract(name)
	assert.Equal(t, name, name[:set.TitleEnd(name)])
}

func TestStructured(t *testing.T) {
	assert.True(t, Extract("Movie.2019").Structured())
	assert.True(t, Extract("Show.S01E01").Structured())

	// A language tag alone does not pin down a title.
	assert.False(t, Extract("subtitle.en").Structured())
}
