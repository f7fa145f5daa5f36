package ics

import (
	"strings"
	"testing"
	"time"
)

func TestParseDropsIncompleteEvents(t *testing.T) {
	tests := []struct {
		name string
		ics  string
		want int
	}{
		{
			name: "complete event",
			ics: "BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT",
			want: 1,
		},
		{
			name: "missing UID",
			ics:  "BEGIN:VEVENT\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT",
			want: 0,
		},
		{
			name: "missing SUMMARY",
			ics:  "BEGIN:VEVENT\nUID:1\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT",
			want: 0,
		},
		{
			name: "missing DTSTART",
			ics:  "BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nEND:VEVENT",
			want: 0,
		},
		{
			name: "unparseable DTSTART drops only that event",
			ics: "BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART:not-a-date-at-all\nEND:VEVENT\n" +
				"BEGIN:VEVENT\nUID:2\nSUMMARY:Papiertonne\nDTSTART;VALUE=DATE:20250611\nEND:VEVENT",
			want: 1,
		},
		{
			name: "empty input",
			ics:  "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Parse(tt.ics)
			if len(events) != tt.want {
				t.Errorf("Parse() returned %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestParseDateOnly(t *testing.T) {
	events := Parse("BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT")
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}

	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)
	if !events[0].Start.Equal(want) {
		t.Errorf("Start = %v, want local midnight %v", events[0].Start, want)
	}
}

func TestParseUTCDateTime(t *testing.T) {
	events := Parse("BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART:20250610T063000Z\nEND:VEVENT")
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}

	want := time.Date(2025, 6, 10, 6, 30, 0, 0, time.UTC)
	if !events[0].Start.Equal(want) {
		t.Errorf("Start = %v, want UTC instant %v", events[0].Start, want)
	}
}

func TestParseLocalDateTime(t *testing.T) {
	events := Parse("BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART:20250610T063000\nEND:VEVENT")
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}

	want := time.Date(2025, 6, 10, 6, 30, 0, 0, time.Local)
	if !events[0].Start.Equal(want) {
		t.Errorf("Start = %v, want local time %v", events[0].Start, want)
	}
}

func TestParseCRLFLineEndings(t *testing.T) {
	ics := "BEGIN:VEVENT\r\nUID:1\r\nSUMMARY: Restmüll \r\nDTSTART;VALUE=DATE:20250610\r\nEND:VEVENT\r\n"
	events := Parse(ics)
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}
	if events[0].Summary != "Restmüll" {
		t.Errorf("Summary = %q, want trimmed %q", events[0].Summary, "Restmüll")
	}
}

func TestParseUnescaping(t *testing.T) {
	ics := "BEGIN:VEVENT\n" +
		"UID:1\n" +
		"SUMMARY:Restmüll\n" +
		"DTSTART;VALUE=DATE:20250610\n" +
		`DESCRIPTION:Zeile 1\nZeile 2` + "\n" +
		`LOCATION: Dorfaue\, Zeuthen ` + "\n" +
		"END:VEVENT"

	events := Parse(ics)
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}

	if !strings.Contains(events[0].Description, "Zeile 1\nZeile 2") {
		t.Errorf("Description = %q, want unescaped newline", events[0].Description)
	}
	if events[0].Location != "Dorfaue, Zeuthen" {
		t.Errorf("Location = %q, want unescaped and trimmed %q", events[0].Location, "Dorfaue, Zeuthen")
	}
}

func TestParseIgnoresUnknownProperties(t *testing.T) {
	ics := "BEGIN:VEVENT\n" +
		"UID:1\n" +
		"SEQUENCE:0\n" +
		"X-CUSTOM;PARAM=1:whatever\n" +
		"SUMMARY:Restmüll\n" +
		"DTSTART;VALUE=DATE:20250610\n" +
		"STATUS:CONFIRMED\n" +
		"END:VEVENT"

	events := Parse(ics)
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}
	if events[0].UID != "1" || events[0].Summary != "Restmüll" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestParseDTEnd(t *testing.T) {
	events := Parse("BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nDTEND;VALUE=DATE:20250611\nEND:VEVENT")
	if len(events) != 1 {
		t.Fatalf("Parse() returned %d events, want 1", len(events))
	}

	want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local)
	if !events[0].End.Equal(want) {
		t.Errorf("End = %v, want %v", events[0].End, want)
	}

	// Events without DTEND keep the zero time.
	events = Parse("BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT")
	if !events[0].End.IsZero() {
		t.Errorf("End = %v, want zero time", events[0].End)
	}
}

func TestParseMultipleEvents(t *testing.T) {
	ics := "BEGIN:VCALENDAR\n" +
		"VERSION:2.0\n" +
		"BEGIN:VEVENT\nUID:1\nSUMMARY:Restmüll\nDTSTART;VALUE=DATE:20250610\nEND:VEVENT\n" +
		"BEGIN:VEVENT\nUID:2\nSUMMARY:Biotonne\nDTSTART;VALUE=DATE:20250613\nEND:VEVENT\n" +
		"END:VCALENDAR\n"

	events := Parse(ics)
	if len(events) != 2 {
		t.Fatalf("Parse() returned %d events, want 2", len(events))
	}
	if events[0].UID != "1" || events[1].UID != "2" {
		t.Errorf("events out of order: %q, %q", events[0].UID, events[1].UID)
	}
}
