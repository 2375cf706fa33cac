package schedule

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestParse_BareFormEveryDayAndPeriod(t *testing.T) {
	for _, day := range AllDays {
		for period := 1; period <= 7; period++ {
			line := fmt.Sprintf("%s%d", day.Label(Japanese), period)
			got := Parse([]string{line}, Japanese)

			want := []Entry{{Day: day, Period: period}}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Parse(%q) = %+v, want %+v", line, got, want)
			}
		}
	}
}

func TestParse_Notations(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Entry
	}{
		{
			name:  "dash range expands inclusively",
			lines: []string{"金1-3"},
			want:  []Entry{{Day: Friday, Period: 1}, {Day: Friday, Period: 2}, {Day: Friday, Period: 3}},
		},
		{
			name:  "reversed range is rejected",
			lines: []string{"金5-3"},
			want:  []Entry{},
		},
		{
			name:  "parenthetical detail is a single period",
			lines: []string{"金1(1-2)"},
			want:  []Entry{{Day: Friday, Period: 1}},
		},
		{
			name:  "comma list",
			lines: []string{"火2, 4 ,5"},
			want:  []Entry{{Day: Tuesday, Period: 2}, {Day: Tuesday, Period: 4}, {Day: Tuesday, Period: 5}},
		},
		{
			name:  "ideographic comma list",
			lines: []string{"水1、2"},
			want:  []Entry{{Day: Wednesday, Period: 1}, {Day: Wednesday, Period: 2}},
		},
		{
			name:  "spaces between day and period",
			lines: []string{"月 2"},
			want:  []Entry{{Day: Monday, Period: 2}},
		},
		{
			name:  "full-width digits and dash",
			lines: []string{"金１－３"},
			want:  []Entry{{Day: Friday, Period: 1}, {Day: Friday, Period: 2}, {Day: Friday, Period: 3}},
		},
		{
			name:  "sunday is kept",
			lines: []string{"日4"},
			want:  []Entry{{Day: Sunday, Period: 4}},
		},
		{
			name:  "out of range periods pass through",
			lines: []string{"月12"},
			want:  []Entry{{Day: Monday, Period: 12}},
		},
		{
			name:  "bare values across lines",
			lines: []string{"授業時間", "月1 木3"},
			want:  []Entry{{Day: Monday, Period: 1}, {Day: Thursday, Period: 3}},
		},
		{
			name:  "no schedule text",
			lines: []string{"この授業はオンデマンドです"},
			want:  []Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.lines, Japanese)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, lines := range [][]string{nil, {}, {"", "   ", "\t"}} {
		got := Parse(lines, Japanese)
		if got == nil || len(got) != 0 {
			t.Errorf("Parse(%q) = %#v, want empty non-nil slice", lines, got)
		}
	}
}

// Once a higher priority notation matches anywhere, lower ones are never consulted,
// so "火3" below is dropped even though the bare notation would have found it.
func TestParse_FirstSuccessfulPatternWins(t *testing.T) {
	got := Parse([]string{"月1,2", "火3"}, Japanese)
	want := []Entry{{Day: Monday, Period: 1}, {Day: Monday, Period: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	got = Parse([]string{"金1(1-2) 月3-4"}, Japanese)
	want = []Entry{{Day: Friday, Period: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// A reversed range still counts as a match and suppresses the bare notation
	got = Parse([]string{"金5-3 月2"}, Japanese)
	if len(got) != 0 {
		t.Errorf("expected no entries once the range notation matched, got %+v", got)
	}
}

func TestParse_LocationAttachment(t *testing.T) {
	lines := []string{"木3", "木3：  301 　 教室"}
	got := Parse(lines, Japanese)

	want := []Entry{{Day: Thursday, Period: 3, Classroom: "301 教室"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	got = Parse([]string{"木3：301教室"}, Japanese)
	if len(got) != 1 || got[0].Classroom != "301教室" {
		t.Errorf("expected classroom 301教室 for (Thu,3), got %+v", got)
	}
}

func TestParse_LocationOnlyForMatchingSlot(t *testing.T) {
	lines := []string{"月1-2", "月2: B棟 202"}
	got := Parse(lines, Japanese)

	want := []Entry{
		{Day: Monday, Period: 1},
		{Day: Monday, Period: 2, Classroom: "B棟 202"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParse_FullWidthLocationKeptAsWritten(t *testing.T) {
	lines := []string{"月１－２", "月２：Ａ棟１０１"}
	got := Parse(lines, Japanese)

	want := []Entry{
		{Day: Monday, Period: 1},
		{Day: Monday, Period: 2, Classroom: "Ａ棟１０１"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// a line that is only a head and a colon names no room
	got = Parse([]string{"火3：", "火3"}, Japanese)
	if len(got) != 1 || got[0].Classroom != "" {
		t.Errorf("expected (Tue,3) without classroom, got %+v", got)
	}
}

func TestParse_DuplicateSlots(t *testing.T) {
	// Both lines describe (Mon,3). The location lines are last-write-wins, the
	// entry list keeps only the first (Mon,3).
	lines := []string{"月3：A101", "月3：B202"}
	got := Parse(lines, Japanese)

	want := []Entry{{Day: Monday, Period: 3, Classroom: "B202"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	in := []Entry{
		{Day: Monday, Period: 3, Classroom: "A101"},
		{Day: Tuesday, Period: 1},
		{Day: Monday, Period: 3, Classroom: "B202"},
	}
	got := dedupe(in)

	want := []Entry{
		{Day: Monday, Period: 3, Classroom: "A101"},
		{Day: Tuesday, Period: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParse_Idempotent(t *testing.T) {
	lines := []string{"月1,3", "月1: 講義室A", "火2"}
	p := NewParser(Japanese)

	first := p.Parse(lines)
	second := p.Parse(lines)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse is not repeatable: %+v vs %+v", first, second)
	}
}

func TestParse_English(t *testing.T) {
	tests := []struct {
		lines []string
		want  []Entry
	}{
		{
			lines: []string{"Mon 1, 2"},
			want:  []Entry{{Day: Monday, Period: 1}, {Day: Monday, Period: 2}},
		},
		{
			lines: []string{"Thursday 3-4"},
			want:  []Entry{{Day: Thursday, Period: 3}, {Day: Thursday, Period: 4}},
		},
		{
			lines: []string{"fri.2", "Fri 2: Room  5"},
			want:  []Entry{{Day: Friday, Period: 2, Classroom: "Room 5"}},
		},
		{
			lines: []string{"SAT4 sun5"},
			want:  []Entry{{Day: Saturday, Period: 4}, {Day: Sunday, Period: 5}},
		},
		{
			// kanji are not day tokens in English mode
			lines: []string{"月1"},
			want:  []Entry{},
		},
		{
			// "Monitor" must not be read as Monday
			lines: []string{"Monitor 3"},
			want:  []Entry{},
		},
	}

	for _, tt := range tests {
		got := Parse(tt.lines, English)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q, en) = %+v, want %+v", tt.lines, got, tt.want)
		}
	}
}

func TestStrategies_Order(t *testing.T) {
	var names []string
	for _, s := range Strategies(Japanese) {
		names = append(names, s.Name)
	}

	want := []string{"parenthetical", "comma-list", "range", "bare"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("strategy order = %v, want %v", names, want)
	}
}

func TestStrategy_Match(t *testing.T) {
	strategies := Strategies(Japanese)
	byName := make(map[string]Strategy)
	for _, s := range strategies {
		byName[s.Name] = s
	}

	tests := []struct {
		strategy string
		text     string
		matched  bool
		entries  int
	}{
		{"parenthetical", "金1(1-2)", true, 1},
		{"parenthetical", "金1-2", false, 0},
		{"comma-list", "金1,2,3", true, 3},
		{"comma-list", "金1", false, 0},
		{"range", "金1-3", true, 3},
		{"range", "金5-3", true, 0},
		{"bare", "金1 土2", true, 2},
		{"bare", "金曜日", false, 0},
	}

	for _, tt := range tests {
		entries, ok := byName[tt.strategy].Match(tt.text)
		if ok != tt.matched || len(entries) != tt.entries {
			t.Errorf("%s.Match(%q) = %d entries, matched %v; want %d, %v",
				tt.strategy, tt.text, len(entries), ok, tt.entries, tt.matched)
		}
	}
}

// Parsers and the compiled grammars are shared between goroutines by the course
// loader; run with -race.
func TestParse_ConcurrentSharedParsers(t *testing.T) {
	shared := map[Lang]*Parser{
		Japanese: NewParser(Japanese),
		English:  NewParser(English),
	}

	tests := []struct {
		name  string
		lang  Lang
		lines []string
		want  []Entry
	}{
		{"range", Japanese, []string{"金1-3"}, []Entry{{Day: Friday, Period: 1}, {Day: Friday, Period: 2}, {Day: Friday, Period: 3}}},
		{"location", Japanese, []string{"木3", "木3：301教室"}, []Entry{{Day: Thursday, Period: 3, Classroom: "301教室"}}},
		{"comma", English, []string{"Wed 1,2"}, []Entry{{Day: Wednesday, Period: 1}, {Day: Wednesday, Period: 2}}},
		{"parenthetical", English, []string{"Friday 1(1-2)"}, []Entry{{Day: Friday, Period: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var wg sync.WaitGroup
			errs := make(chan string, 64)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					var got []Entry
					if i%2 == 0 {
						got = shared[tt.lang].Parse(tt.lines)
					} else {
						got = Parse(tt.lines, tt.lang)
					}
					if !reflect.DeepEqual(got, tt.want) {
						errs <- fmt.Sprintf("got %+v, want %+v", got, tt.want)
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			for msg := range errs {
				t.Error(msg)
			}
		})
	}
}
