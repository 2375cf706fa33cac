package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	sp     = `[\s\x{3000}]*`
	period = `([0-9]{1,2})`
	dash   = `[-~〜]`
)

// Strategy is one schedule notation. Strategies are tried in order and the first one
// that matches anywhere in the text is the only one used (first-successful-pattern-wins).
type Strategy struct {
	Name string

	re     *regexp.Regexp
	lookup func(string) (Day, bool)
	// periods turns a submatch (index 1 is the day token) into the periods it denotes
	periods func(m []string) []int
}

// Match reports whether the notation occurs in text and returns the entries it
// produces, without classrooms. A match can legitimately produce no entries
// (e.g. a reversed range), which still counts as matched.
func (s Strategy) Match(text string) ([]Entry, bool) {
	matches := s.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}

	var entries []Entry
	for _, m := range matches {
		day, ok := s.lookup(m[1])
		if !ok {
			continue
		}
		for _, p := range s.periods(m) {
			entries = append(entries, Entry{Day: day, Period: p})
		}
	}
	return entries, true
}

// Strategies returns the ordered notations for lang, highest priority first.
func Strategies(lang Lang) []Strategy {
	g := grammarFor(lang)
	out := make([]Strategy, len(g.strategies))
	copy(out, g.strategies)
	return out
}

type grammar struct {
	// location matches the width-folded "<day><period>" head of a location line
	location   *regexp.Regexp
	strategies []Strategy
}

var grammars = map[Lang]*grammar{
	Japanese: buildGrammar(tokensFor(Japanese)),
	English:  buildGrammar(tokensFor(English)),
}

func grammarFor(lang Lang) *grammar {
	if g, ok := grammars[lang]; ok {
		return g
	}
	return grammars[DefaultLang]
}

func buildGrammar(t dayTokens) *grammar {
	d := t.pattern
	return &grammar{
		location: regexp.MustCompile(`^` + sp + d + sp + period + sp + `$`),
		strategies: []Strategy{
			{
				// 金1(1-2): the parenthesized range is sub-session detail, only 1 counts
				Name:    "parenthetical",
				re:      regexp.MustCompile(d + sp + period + sp + `\(` + sp + `[0-9]+` + sp + dash + sp + `[0-9]+` + sp + `\)`),
				lookup:  t.lookup,
				periods: singlePeriod,
			},
			{
				Name:    "comma-list",
				re:      regexp.MustCompile(d + sp + `([0-9]{1,2}(?:` + sp + `[,、]` + sp + `[0-9]{1,2})+)`),
				lookup:  t.lookup,
				periods: listedPeriods,
			},
			{
				Name:    "range",
				re:      regexp.MustCompile(d + sp + period + sp + dash + sp + period),
				lookup:  t.lookup,
				periods: rangePeriods,
			},
			{
				Name:    "bare",
				re:      regexp.MustCompile(d + sp + period),
				lookup:  t.lookup,
				periods: singlePeriod,
			},
		},
	}
}

// atoi is only ever fed [0-9]{1,2} captures
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func singlePeriod(m []string) []int {
	return []int{atoi(m[2])}
}

func listedPeriods(m []string) []int {
	parts := strings.FieldsFunc(m[2], func(r rune) bool { return r == ',' || r == '、' })
	periods := make([]int, 0, len(parts))
	for _, p := range parts {
		periods = append(periods, atoi(p))
	}
	return periods
}

func rangePeriods(m []string) []int {
	start, end := atoi(m[2]), atoi(m[3])
	if end < start {
		return nil
	}
	periods := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		periods = append(periods, p)
	}
	return periods
}
