package schedule

import (
	"fmt"
	"strings"
)

// Day is the canonical weekday of a schedule entry, independent of the input language
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllDays lists every weekday in week order
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayKanji = [...]string{"月", "火", "水", "木", "金", "土", "日"}

func (d Day) valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the canonical three letter name (e.g. "Fri")
func (d Day) String() string {
	if !d.valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Label localizes the day for display.
func (d Day) Label(lang Lang) string {
	if !d.valid() {
		return d.String()
	}
	if lang == English {
		return dayNames[d]
	}
	return dayKanji[d]
}

func (d Day) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(dayNames[d]), nil
}

// UnmarshalText accepts the canonical name as well as the Japanese kanji.
func (d *Day) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for i := range dayNames {
		if strings.EqualFold(s, dayNames[i]) || s == dayKanji[i] {
			*d = Day(i)
			return nil
		}
	}
	return fmt.Errorf("unknown day %q", text)
}

// Entry is one weekly meeting: a day, a period index and an optional classroom
type Entry struct {
	Day       Day    `json:"day" yaml:"day"`
	Period    int    `json:"period" yaml:"period"`
	Classroom string `json:"classroom,omitempty" yaml:"classroom,omitempty"`
}

func (e Entry) String() string {
	if e.Classroom == "" {
		return fmt.Sprintf("%s%d", e.Day, e.Period)
	}
	return fmt.Sprintf("%s%d (%s)", e.Day, e.Period, e.Classroom)
}
