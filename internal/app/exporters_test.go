package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

func testServer() *Server {
	log := testLogger()
	client := sbazv.NewClient(sbazv.ClientConfig{Logger: log})
	return NewServer(Config{}, client, &Authenticator{log: log}, log)
}

func testCollections() []waste.Collection {
	return []waste.Collection{
		{ID: "r1", Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), Category: waste.CategoryRestmuell, Street: "Dorfaue"},
		{ID: "p1", Date: time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local), Category: waste.CategoryPapier, Street: "Dorfaue"},
	}
}

func TestWriteICSWithReminders(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodGet,
		"/api/abfall/download?format=ics&reminder2Days=true&time2Days=18:00&reminder1Day=true&time1Day=19:30&reminderSameDay=true&timeSameDay=06:00", nil)
	rec := httptest.NewRecorder()

	server.WriteICS(rec, req, "Dorfaue", testCollections())
	body := rec.Body.String()

	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("event count = %d, want 2", got)
	}
	// Three reminders per event.
	if got := strings.Count(body, "BEGIN:VALARM"); got != 6 {
		t.Errorf("alarm count = %d, want 6", got)
	}
	if !strings.Contains(body, "SUMMARY:Restmüll") {
		t.Error("missing Restmüll event")
	}
	if !strings.Contains(body, "SUMMARY:Papiertonne") {
		t.Error("missing Papiertonne event")
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "abfallkalender_Dorfaue.ics") {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestWriteICSWithoutReminders(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/abfall/download?format=ics", nil)
	rec := httptest.NewRecorder()

	server.WriteICS(rec, req, "", testCollections())

	if strings.Contains(rec.Body.String(), "BEGIN:VALARM") {
		t.Error("no reminders requested, no alarms expected")
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "abfallkalender_alle.ics") {
		t.Errorf("Content-Disposition = %q, want alle filename", got)
	}
}

func TestWriteAlarmTriggers(t *testing.T) {
	eventDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		daysBefore int
		alarmTime  string
		want       string
	}{
		{name: "two days before at 18:00", daysBefore: 2, alarmTime: "18:00", want: "TRIGGER:-P1DT6H0M"},
		{name: "one day before at 19:00", daysBefore: 1, alarmTime: "19:00", want: "TRIGGER:-P0DT5H0M"},
		{name: "same day at 07:00", daysBefore: 0, alarmTime: "07:00", want: "TRIGGER:P0DT7H0M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			WriteAlarm(&buf, eventDate, tt.daysBefore, tt.alarmTime, "Restmüll")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("alarm output missing %s:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestWriteAlarmSkipsInvalidTime(t *testing.T) {
	var buf strings.Builder
	WriteAlarm(&buf, time.Now(), 1, "kein-zeitformat", "Restmüll")

	if buf.Len() != 0 {
		t.Errorf("invalid time should produce no alarm, got: %s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()

	server.WriteCSV(rec, "Dorfaue", testCollections())
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")

	if lines[0] != "Datum,Abfalltyp,Beschreibung" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[1] != "2025-06-10,restmuell,Restmüll" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestWriteJSONExport(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()

	server.WriteJSONExport(rec, "Dorfaue", testCollections())

	var data struct {
		Street      string             `json:"street"`
		Collections []waste.Collection `json:"collections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if data.Street != "Dorfaue" {
		t.Errorf("street = %q, want Dorfaue", data.Street)
	}
	if len(data.Collections) != 2 {
		t.Errorf("got %d collections, want 2", len(data.Collections))
	}
}

func TestWriteSubscriptionICSLiveSource(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()

	server.WriteSubscriptionICS(rec, "Dorfaue", testCollections(), waste.SourceSBAZV)
	body := rec.Body.String()

	if strings.Contains(body, "X-WR-CALDESC") {
		t.Error("live-sourced feed should not carry the approximate marker")
	}
	if strings.Contains(body, "BEGIN:VALARM") {
		t.Error("subscription feeds carry no alarms")
	}
	if !strings.Contains(body, "X-PUBLISHED-TTL:PT12H") {
		t.Error("missing refresh hint")
	}
}
