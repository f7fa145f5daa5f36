// Package waste holds the domain model of the collection calendar: the
// closed set of waste categories, the collection records served to the
// portal and the fallback schedule used when the SBAZV feed is down.
package waste

import "time"

// Category is one of the tracked waste collection categories.
type Category string

const (
	CategoryRestmuell  Category = "restmuell"
	CategoryPapier     Category = "papier"
	CategoryGelberSack Category = "gelbesack"
	CategoryBio        Category = "bio"
	CategoryLaubsaecke Category = "laubsaecke"

	// CategoryNone marks summaries that belong to no tracked category.
	// Christmas tree pickups classify to CategoryNone on purpose.
	CategoryNone Category = ""
)

// DisplayNames maps categories to their German display names.
var DisplayNames = map[Category]string{
	CategoryRestmuell:  "Restmüll",
	CategoryPapier:     "Papiertonne",
	CategoryGelberSack: "Gelber Sack",
	CategoryBio:        "Biotonne",
	CategoryLaubsaecke: "Laubsäcke",
}

// Collection is one scheduled waste pickup for an address. Date carries
// calendar-day semantics; the time component is not meaningful.
type Collection struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Category Category  `json:"type"`
	Street   string    `json:"street,omitempty"`
}

// Source tags where the data of a FetchResult came from.
type Source string

const (
	// SourceSBAZV marks a live fetch (or manual import) of real feed data.
	SourceSBAZV Source = "sbazv"
	// SourceCache marks data served from the in-process cache.
	SourceCache Source = "cache"
	// SourceFallback marks a synthetically generated schedule.
	SourceFallback Source = "fallback"
)

// FetchResult is what every fetch operation resolves to. Fetching never
// fails outright: the worst case is a generated schedule tagged
// SourceFallback with Error explaining why. Success stays true for
// expected states (fresh data, cache hits, missing configuration) and
// turns false only when a live fetch was attempted and failed without a
// cache to fall back on.
type FetchResult struct {
	Success     bool         `json:"success"`
	Collections []Collection `json:"collections"`
	FetchedAt   time.Time    `json:"fetchedAt"`
	Source      Source       `json:"source"`
	Error       string       `json:"error,omitempty"`
}
