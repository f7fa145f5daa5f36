package waste

import (
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/ics"
)

// ToICS renders collections as a downloadable calendar with the given
// display name. Every collection becomes a whole-day event whose summary
// is the German category name, so the output round-trips through the
// parser and classifier.
func ToICS(collections []Collection, title string) string {
	events := make([]ics.Event, 0, len(collections))
	for _, collection := range collections {
		name := DisplayNames[collection.Category]
		description := "Abfuhr " + name
		if collection.Street != "" {
			description += " in " + collection.Street
		}
		events = append(events, ics.Event{
			UID:         collection.ID,
			Summary:     name,
			Start:       collection.Date,
			End:         collection.Date.AddDate(0, 0, 1),
			Description: description,
			Location:    collection.Street,
		})
	}
	return ics.Encode(events, title)
}
