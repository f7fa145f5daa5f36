package app

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

// Server wires the HTTP API of the waste calendar service.
type Server struct {
	cfg    Config
	client *sbazv.Client
	auth   *Authenticator
	log    *logrus.Logger
}

// NewServer builds the HTTP layer around a fetch client.
func NewServer(cfg Config, client *sbazv.Client, auth *Authenticator, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, client: client, auth: auth, log: logger}
}

// Routes registers all handlers on mux. The admin surface (status,
// test-url, upload, invalidate) sits behind basic auth.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/abfall", s.HandleCalendar)
	mux.HandleFunc("/api/abfall/streets", s.HandleStreets)
	mux.HandleFunc("/api/abfall/download", s.HandleDownload)
	mux.HandleFunc("/api/abfall/subscribe/", s.HandleSubscribe)
	mux.HandleFunc("/api/config", s.HandleConfig)

	mux.HandleFunc("/api/abfall/status", s.auth.Require(s.HandleStatus))
	mux.HandleFunc("/api/abfall/test-url", s.auth.Require(s.HandleTestURL))
	mux.HandleFunc("/api/abfall/upload", s.auth.Require(s.HandleUpload))
	mux.HandleFunc("/api/abfall/invalidate", s.auth.Require(s.HandleInvalidate))
}

// HandleCalendar returns the collection schedule as JSON.
// Query param: street (optional, filters cached data and tags fetches).
func (s *Server) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	street := r.URL.Query().Get("street")
	result := s.client.FetchCalendar(r.Context(), street)
	s.writeJSON(w, result)
}

// HandleStreets returns the known street names for UI autocomplete.
func (s *Server) HandleStreets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string][]string{"streets": sbazv.Streets()})
}

// HandleConfig returns the portal configuration for the web UI.
func (s *Server) HandleConfig(w http.ResponseWriter, r *http.Request) {
	currentYear := time.Now().Year()
	s.writeJSON(w, ConfigResponse{
		Streets:        sbazv.Streets(),
		WasteTypes:     waste.DisplayNames,
		FeedConfigured: s.client.Configured(),
		CurrentYear:    currentYear,
		Holidays:       BrandenburgHolidays(currentYear),
	})
}

// HandleStatus returns whether a feed URL is configured and the current
// cache state (admin).
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, StatusResponse{
		FeedConfigured: s.client.Configured(),
		Cache:          s.client.CacheStatus(),
	})
}

// HandleTestURL probes a candidate feed URL without touching the cache
// (admin). Body: {"url": "..."}.
func (s *Server) HandleTestURL(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req testURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}

	s.writeJSON(w, s.client.TestFeedURL(r.Context(), req.URL))
}

// HandleUpload accepts raw ICS text as the request body and runs it
// through the regular parse pipeline (admin).
// Query param: street (optional tag for the imported records).
func (s *Server) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}

	result := s.client.ImportICS(string(body), r.URL.Query().Get("street"))
	if !result.Success {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			s.log.Errorf("Error encoding response: %v", err)
		}
		return
	}
	s.writeJSON(w, result)
}

// HandleInvalidate clears the cache unconditionally (admin).
func (s *Server) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	s.client.InvalidateCache()
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// HandleDownload exports the schedule in ICS, CSV or JSON format.
// Query params: street (optional), format (ics|csv|json), plus the
// reminder params understood by WriteICS.
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	street := r.URL.Query().Get("street")
	format := r.URL.Query().Get("format")

	result := s.client.FetchCalendar(r.Context(), street)
	collections := append([]waste.Collection(nil), result.Collections...)
	SortCollectionsByDate(collections)

	switch format {
	case "ics":
		s.WriteICS(w, r, street, collections)
	case "csv":
		s.WriteCSV(w, street, collections)
	case "json":
		s.WriteJSONExport(w, street, collections)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleSubscribe serves an ICS subscription feed for one street.
// URL: /api/abfall/subscribe/{street}
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	street := strings.TrimPrefix(r.URL.Path, "/api/abfall/subscribe/")

	result := s.client.FetchForStreet(r.Context(), street)
	collections := append([]waste.Collection(nil), result.Collections...)
	SortCollectionsByDate(collections)

	s.WriteSubscriptionICS(w, street, collections, result.Source)
}
