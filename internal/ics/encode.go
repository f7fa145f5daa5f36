package ics

import (
	"fmt"
	"strings"
)

// ICS header constants for generated calendars.
const (
	ProductID = "-//Gemeindeportal//Abfall-Feed//DE"
	Timezone  = "Europe/Berlin"
)

// Encode renders events as a minimal ICS document with the given calendar
// display name. Events are written as whole-day entries; the output is
// deterministic and round-trips through Parse.
func Encode(events []Event, title string) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\n")
	b.WriteString("VERSION:2.0\n")
	fmt.Fprintf(&b, "PRODID:%s\n", ProductID)
	b.WriteString("CALSCALE:GREGORIAN\n")
	b.WriteString("METHOD:PUBLISH\n")
	fmt.Fprintf(&b, "X-WR-CALNAME:%s\n", title)
	fmt.Fprintf(&b, "X-WR-TIMEZONE:%s\n", Timezone)

	for _, event := range events {
		b.WriteString("BEGIN:VEVENT\n")
		fmt.Fprintf(&b, "UID:%s\n", event.UID)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\n", event.Start.Format("20060102"))
		if !event.End.IsZero() {
			fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\n", event.End.Format("20060102"))
		}
		fmt.Fprintf(&b, "SUMMARY:%s\n", event.Summary)
		if event.Description != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\n", strings.ReplaceAll(event.Description, "\n", `\n`))
		}
		if event.Location != "" {
			fmt.Fprintf(&b, "LOCATION:%s\n", strings.ReplaceAll(event.Location, ",", `\,`))
		}
		b.WriteString("END:VEVENT\n")
	}

	b.WriteString("END:VCALENDAR\n")
	return b.String()
}
