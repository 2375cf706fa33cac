package schedule

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang selects which weekday alphabet the parser recognizes
type Lang string

const (
	Japanese Lang = "ja"
	English  Lang = "en"
)

// DefaultLang is used when no language is configured
const DefaultLang = Japanese

var langMatcher = language.NewMatcher([]language.Tag{language.Japanese, language.English})

// ParseLang resolves a BCP 47 tag such as "ja-JP" or "en_US" to a supported Lang.
// Anything unrecognized falls back to DefaultLang.
func ParseLang(tag string) Lang {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return DefaultLang
	}

	t, err := language.Parse(tag)
	if err != nil {
		return DefaultLang
	}

	_, idx, conf := langMatcher.Match(t)
	if conf == language.No {
		return DefaultLang
	}
	if idx == 1 {
		return English
	}
	return Japanese
}

// dayTokens is the per-language day alphabet: a regex fragment with exactly one
// capture group and a mapping from the captured token to the canonical Day.
type dayTokens struct {
	pattern string
	lookup  func(token string) (Day, bool)
}

var kanjiDays = map[string]Day{
	"月": Monday, "火": Tuesday, "水": Wednesday, "木": Thursday,
	"金": Friday, "土": Saturday, "日": Sunday,
}

var englishDays = map[string]Day{
	"mon": Monday, "tue": Tuesday, "wed": Wednesday, "thu": Thursday,
	"fri": Friday, "sat": Saturday, "sun": Sunday,
}

var tokenTables = map[Lang]dayTokens{
	Japanese: {
		pattern: `([月火水木金土日])`,
		lookup: func(token string) (Day, bool) {
			d, ok := kanjiDays[token]
			return d, ok
		},
	},
	English: {
		// "Mon", "mon.", "Monday", "THURSDAY" all capture the three letter stem
		pattern: `\b(?i:(mon|tue|wed|thu|fri|sat|sun)(?:day|sday|nesday|rsday|urday)?\.?)`,
		lookup: func(token string) (Day, bool) {
			d, ok := englishDays[strings.ToLower(token)]
			return d, ok
		},
	},
}

func tokensFor(lang Lang) dayTokens {
	if t, ok := tokenTables[lang]; ok {
		return t
	}
	return tokenTables[DefaultLang]
}
