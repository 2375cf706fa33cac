package schedule

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/width"

	"manabify/pkg/logger"
)

// Parser turns free-form course summary lines into schedule entries.
// A Parser holds no per-call state and is safe for concurrent use.
type Parser struct {
	lang    Lang
	grammar *grammar
	log     zerolog.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// NewParser creates a parser for the given day alphabet
func NewParser(lang Lang, opts ...Option) *Parser {
	p := &Parser{
		lang:    lang,
		grammar: grammarFor(lang),
		log:     logger.Component("parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lang returns the day alphabet the parser was created for
func (p *Parser) Lang() Lang {
	return p.lang
}

// Parse is shorthand for NewParser(lang).Parse(lines)
func Parse(lines []string, lang Lang) []Entry {
	return NewParser(lang).Parse(lines)
}

type slotKey struct {
	day    Day
	period int
}

// Parse extracts the weekly meetings described by lines.
//
// Lines of the form "木3：301教室" provide classrooms. All lines are then joined and
// scanned with the notations from Strategies in priority order; only the first notation
// that matches anywhere is used. Entries are unique per (day, period), first one wins.
// Unrecognized text yields no entries, never an error.
func (p *Parser) Parse(lines []string) []Entry {
	lines = normalizeLines(lines)
	if len(lines) == 0 {
		return []Entry{}
	}

	locations := p.locations(lines)
	text := width.Fold.String(strings.Join(lines, " "))

	for _, s := range p.grammar.strategies {
		entries, ok := s.Match(text)
		if !ok {
			continue
		}

		for i := range entries {
			entries[i].Classroom = locations[slotKey{entries[i].Day, entries[i].Period}]
		}
		entries = dedupe(entries)

		p.log.Debug().
			Str("strategy", s.Name).
			Int("entries", len(entries)).
			Str("text", text).
			Msg("schedule notation matched")
		return entries
	}

	p.log.Debug().Str("text", text).Msg("no schedule notation found")
	return []Entry{}
}

// locations maps (day, period) to the classroom named on a "<day><period>: <room>" line.
// Only the part before the colon is width-folded; the room is kept as written.
// Later lines overwrite earlier ones.
func (p *Parser) locations(lines []string) map[slotKey]string {
	tokens := tokensFor(p.lang)
	found := make(map[slotKey]string)

	for _, line := range lines {
		i := strings.IndexAny(line, ":：")
		if i < 0 {
			continue
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		room := line[i+size:]
		if room == "" {
			continue
		}

		m := p.grammar.location.FindStringSubmatch(width.Fold.String(line[:i]))
		if m == nil {
			continue
		}
		day, ok := tokens.lookup(m[1])
		if !ok {
			continue
		}
		key := slotKey{day, atoi(m[2])}
		found[key] = sanitizeLocation(room)
		p.log.Debug().Stringer("day", day).Int("period", key.period).Str("location", found[key]).Msg("location line")
	}

	return found
}

func sanitizeLocation(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(entries []Entry) []Entry {
	seen := make(map[slotKey]bool, len(entries))
	unique := make([]Entry, 0, len(entries))

	for _, e := range entries {
		key := slotKey{e.Day, e.Period}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, e)
		}
	}

	return unique
}

// normalizeLines trims each line and drops empty ones. Width folding happens later,
// on the text the notations are matched against.
func normalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
