package waste

import (
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/ics"
)

// ToCollections maps parsed calendar events to collection records. Events
// whose summary matches no tracked category are dropped; input order is
// preserved. The street tag is attached uniformly to every record - the
// events' own LOCATION property is not consulted, because the feed is
// already address-specific.
func ToCollections(events []ics.Event, street string) []Collection {
	var collections []Collection
	for _, event := range events {
		category := Classify(event.Summary)
		if category == CategoryNone {
			continue
		}
		collections = append(collections, Collection{
			ID:       event.UID,
			Date:     event.Start,
			Category: category,
			Street:   street,
		})
	}
	return collections
}
