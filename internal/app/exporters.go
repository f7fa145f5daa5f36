package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/ics"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

// WriteICS generates a downloadable iCalendar file with optional reminders.
// Query params: reminder2Days, reminder1Day, reminderSameDay (bool) with
// their trigger times time2Days, time1Day, timeSameDay (HH:MM).
func (s *Server) WriteICS(w http.ResponseWriter, r *http.Request, street string, collections []waste.Collection) {
	reminder2Days := r.URL.Query().Get("reminder2Days") == "true"
	reminder1Day := r.URL.Query().Get("reminder1Day") == "true"
	reminderSameDay := r.URL.Query().Get("reminderSameDay") == "true"
	time2Days := r.URL.Query().Get("time2Days")
	time1Day := r.URL.Query().Get("time1Day")
	timeSameDay := r.URL.Query().Get("timeSameDay")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=abfallkalender_%s.ics", exportName(street)))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ics.ProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Abfallkalender %s\n", street)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ics.Timezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	for _, collection := range collections {
		name := waste.DisplayNames[collection.Category]

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s@abfall.gemeinde-portal.de\n", collection.ID)
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", collection.Date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", collection.Date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", name)
		fmt.Fprintf(w, "DESCRIPTION:Abfuhr %s in %s\n", name, street)
		fmt.Fprintf(w, "LOCATION:%s\n", street)

		if reminder2Days && time2Days != "" {
			WriteAlarm(w, collection.Date, 2, time2Days, name)
		}
		if reminder1Day && time1Day != "" {
			WriteAlarm(w, collection.Date, 1, time1Day, name)
		}
		if reminderSameDay && timeSameDay != "" {
			WriteAlarm(w, collection.Date, 0, timeSameDay, name)
		}

		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// WriteAlarm adds a display reminder to an ICS event. The trigger is the
// offset from the whole-day event start (midnight) to alarmTime (HH:MM)
// daysBefore days earlier.
func WriteAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}

	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmDateTime := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	duration := alarmDateTime.Sub(eventStart)

	totalMinutes := int(duration.Minutes())
	isNegative := totalMinutes < 0
	if isNegative {
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	remainingMinutes := totalMinutes % (24 * 60)
	hours := remainingMinutes / 60
	minutes := remainingMinutes % 60

	var trigger string
	if isNegative {
		trigger = fmt.Sprintf("-P%dDT%dH%dM", days, hours, minutes)
	} else {
		trigger = fmt.Sprintf("P%dDT%dH%dM", days, hours, minutes)
	}

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Erinnerung: %s\n", description)
	fmt.Fprintf(w, "TRIGGER:%s\n", trigger)
	fmt.Fprintln(w, "END:VALARM")
}

// WriteCSV generates a CSV export of the collection schedule.
func (s *Server) WriteCSV(w http.ResponseWriter, street string, collections []waste.Collection) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=abfallkalender_%s.csv", exportName(street)))

	fmt.Fprintln(w, "Datum,Abfalltyp,Beschreibung")
	for _, collection := range collections {
		fmt.Fprintf(w, "%s,%s,%s\n", collection.Date.Format("2006-01-02"), collection.Category, waste.DisplayNames[collection.Category])
	}
}

// WriteJSONExport generates a JSON export of the collection schedule.
func (s *Server) WriteJSONExport(w http.ResponseWriter, street string, collections []waste.Collection) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=abfallkalender_%s.json", exportName(street)))

	data := map[string]interface{}{
		"street":      street,
		"collections": collections,
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Error encoding JSON export: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// WriteSubscriptionICS generates an iCalendar subscription feed.
// Unlike WriteICS this serves inline content (no attachment header), adds
// METHOD:PUBLISH plus a refresh hint and skips VALARM blocks, which most
// calendar apps ignore in subscriptions anyway. A fallback-sourced feed
// is marked as approximate in the calendar description.
func (s *Server) WriteSubscriptionICS(w http.ResponseWriter, street string, collections []waste.Collection, source waste.Source) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ics.ProductID)
	fmt.Fprintln(w, "METHOD:PUBLISH")
	fmt.Fprintf(w, "X-WR-CALNAME:Abfallkalender %s\n", street)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ics.Timezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")
	fmt.Fprintln(w, "X-PUBLISHED-TTL:PT12H")
	if source == waste.SourceFallback {
		fmt.Fprintln(w, "X-WR-CALDESC:Voraussichtliche Termine (Livedaten derzeit nicht verfügbar)")
	}

	for _, collection := range collections {
		name := waste.DisplayNames[collection.Category]

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s@abfall.gemeinde-portal.de\n", collection.ID)
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", collection.Date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", collection.Date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", name)
		fmt.Fprintf(w, "DESCRIPTION:Abfuhr %s in %s\n", name, street)
		fmt.Fprintf(w, "LOCATION:%s\n", street)
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// exportName makes a street name safe for a filename.
func exportName(street string) string {
	if street == "" {
		return "alle"
	}
	return strings.ReplaceAll(street, " ", "_")
}
