package app

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

// RequireMethod validates that the request uses the specified HTTP method.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, ErrMethodNotAllow, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// SortCollectionsByDate sorts collections by date in ascending order.
func SortCollectionsByDate(collections []waste.Collection) {
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Date.Before(collections[j].Date)
	})
}

// writeJSON encodes v to the response with the JSON content type.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("Error encoding response: %v", err)
	}
}
