package app

import (
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

// StatusResponse is the diagnostic view served to the admin surface.
type StatusResponse struct {
	FeedConfigured bool              `json:"feedConfigured"`
	Cache          sbazv.CacheStatus `json:"cache"`
}

// ConfigResponse is the portal configuration consumed by the web UI.
type ConfigResponse struct {
	Streets        []string                  `json:"streets"`
	WasteTypes     map[waste.Category]string `json:"wasteTypes"`
	FeedConfigured bool                      `json:"feedConfigured"`
	CurrentYear    int                       `json:"currentYear"`
	Holidays       map[string]string         `json:"holidays"`
}

// testURLRequest is the body of a feed URL probe request.
type testURLRequest struct {
	URL string `json:"url"`
}
