// Package ics reads and writes the practical subset of the iCalendar
// format used by municipal waste collection feeds: VEVENT blocks with
// UID, SUMMARY, DTSTART, DTEND, DESCRIPTION and LOCATION properties.
package ics

import (
	"strings"
	"time"
)

// Event is a single VEVENT block decoded from an ICS document.
type Event struct {
	UID         string
	Summary     string
	Start       time.Time
	End         time.Time // zero when the event carried no DTEND
	Description string
	Location    string
}

// property tags the VEVENT content lines the parser understands.
type property int

const (
	propUnknown property = iota
	propUID
	propSummary
	propDTStart
	propDTEnd
	propDescription
	propLocation
)

// properties maps ICS property names to their tag. Names not listed here
// are ignored.
var properties = map[string]property{
	"UID":         propUID,
	"SUMMARY":     propSummary,
	"DTSTART":     propDTStart,
	"DTEND":       propDTEnd,
	"DESCRIPTION": propDescription,
	"LOCATION":    propLocation,
}

// Parse decodes the VEVENT blocks of an ICS document.
//
// The parser is deliberately tolerant of real-world feeds: events missing
// UID, SUMMARY or DTSTART are dropped without error, unknown properties
// are skipped, and an unparseable date only invalidates the single event
// it belongs to. Both CRLF and LF line endings are accepted. Parse does
// not require the VCALENDAR wrapper; that check belongs to the caller.
func Parse(text string) []Event {
	var events []Event

	var current Event
	inEvent := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		switch line {
		case "BEGIN:VEVENT":
			current = Event{}
			inEvent = true
			continue
		case "END:VEVENT":
			if inEvent && current.UID != "" && current.Summary != "" && !current.Start.IsZero() {
				events = append(events, current)
			}
			inEvent = false
			continue
		}

		if !inEvent {
			continue
		}

		key, value, ok := splitContentLine(line)
		if !ok {
			continue
		}

		switch properties[key] {
		case propUID:
			current.UID = strings.TrimSpace(value)
		case propSummary:
			current.Summary = strings.TrimSpace(value)
		case propDTStart:
			current.Start = parseDate(value)
		case propDTEnd:
			current.End = parseDate(value)
		case propDescription:
			current.Description = strings.ReplaceAll(value, `\n`, "\n")
		case propLocation:
			current.Location = strings.TrimSpace(strings.ReplaceAll(value, `\,`, ","))
		}
	}

	return events
}

// splitContentLine splits "KEY[;params]:VALUE" at the first colon and
// strips any parameters from the key.
func splitContentLine(line string) (key, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	key = line[:colon]
	value = line[colon+1:]
	if semi := strings.Index(key, ";"); semi >= 0 {
		key = key[:semi]
	}
	return key, value, true
}

// parseDate decodes an ICS date or date-time value. An 8-character value
// is a plain calendar day at local midnight. Longer values are
// YYYYMMDDTHHMMSS, interpreted as UTC when suffixed with Z and as local
// time otherwise. Returns the zero time when the value cannot be decoded.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)

	if len(value) == 8 {
		t, err := time.ParseInLocation("20060102", value, time.Local)
		if err != nil {
			return time.Time{}
		}
		return t
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405", strings.TrimSuffix(value, "Z"))
		if err != nil {
			return time.Time{}
		}
		return t
	}

	t, err := time.ParseInLocation("20060102T150405", value, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
