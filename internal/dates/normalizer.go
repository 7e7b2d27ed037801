// Package dates turns the loosely formatted timestamps sent by automation
// triggers ("May 31, 2022 at 08:00PM") into one canonical, storable form.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CanonicalLayout is the stored rendering (the "ja" locale style,
// e.g. 2022/5/31 20:00:00).
const CanonicalLayout = "2006/1/2 15:04:05"

// DefaultTimezone is the zone timestamps are interpreted and rendered in.
const DefaultTimezone = "Asia/Tokyo"

// validLayouts are accepted as-is: input matching any of them is already a
// usable timestamp and is returned unchanged.
var validLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.ANSIC,
	time.UnixDate,
	"2006",
	"2006-01",
	"2006-01-02",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/1/2",
	"2006/1/2 15:04",
	CanonicalLayout,
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
	"January 2, 2006 15:04:05",
	"Jan 2, 2006 15:04:05",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
}

// informalLayouts parse the "<date> <time>" string rebuilt from an
// informal match, before any meridiem adjustment.
var informalLayouts = []string{
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
	"January 2, 2006 15:04:05",
	"Jan 2, 2006 15:04:05",
}

// informal matches "<month> <day>, <year> at <h>:<mm><AM|PM>".
var informal = regexp.MustCompile(`(.+\d{4}) at (.+)([AP]M)`)

// Normalizer is safe for concurrent use.
type Normalizer struct {
	loc *time.Location
}

// New returns a Normalizer pinned to loc. A nil loc means UTC.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// NewInZone loads the named IANA zone and pins a Normalizer to it.
func NewInZone(name string) (*Normalizer, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the pinned zone.
func (n *Normalizer) Location() *time.Location { return n.loc }

// Format renders t in the canonical layout and pinned zone.
func (n *Normalizer) Format(t time.Time) string {
	return t.In(n.loc).Format(CanonicalLayout)
}

// IsValid reports whether input is already a directly parseable timestamp.
func (n *Normalizer) IsValid(input string) bool {
	_, ok := parseAny(validLayouts, input, n.loc)
	return ok
}

// Normalize returns input unchanged when it is already valid, the canonical
// rendering when it is a recoverable informal timestamp, and "" otherwise.
//
// PM always adds 12 hours to the parsed hour, so "12:30PM" lands on 00:30
// of the next day. Only "12:xxAM" is pulled back to midnight.
func (n *Normalizer) Normalize(input string) string {
	if n.IsValid(input) {
		return input
	}

	m := informal.FindStringSubmatch(input)
	if m == nil {
		return ""
	}
	date, clock, meridiem := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), m[3]

	t, ok := parseAny(informalLayouts, date+" "+clock, n.loc)
	if !ok {
		return ""
	}

	if meridiem == "PM" {
		t = addHours(t, 12)
	}
	if meridiem == "AM" && t.Hour() == 12 {
		t = addHours(t, -12)
	}

	return n.Format(t)
}

// addHours shifts the wall clock hour, letting time.Date roll the day over.
func addHours(t time.Time, h int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+h, t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func parseAny(layouts []string, s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
