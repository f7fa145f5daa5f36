// Package sbazv talks to the waste collection feed service of the
// Südbrandenburgischer Abfallzweckverband (SBAZV). It holds the street
// registry, the feed URL codec and the fetch orchestrator with its
// in-process cache and graceful degradation chain.
package sbazv

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	feedHost = "www.sbazv.de"

	// feedURLTemplate requests all five fraction codes:
	// R Restmüll, P Papier, GS Gelber Sack, B Biotonne, L Laubsäcke.
	feedURLTemplate = "https://" + feedHost + "/calendar/ics?standortID=%s&aboID=%s&fraktionen=R;P;GS;B;L"

	paramStandort = "standortID"
	paramAbo      = "aboID"
)

// streetNames holds every street of the municipality, in the order the
// civil registry lists them.
var streetNames = []string{
	"Dorfaue",
	"Schulzendorfer Straße",
	"Bahnhofstraße",
	"Am Anger",
	"Ahornweg",
	"Äußere Dorfstraße",
	"Birkenweg",
	"Eichenallee",
	"Feldstraße",
	"Friedensstraße",
	"Gartenweg",
	"Goethestraße",
	"Karl-Marx-Straße",
	"Kiefernweg",
	"Lindenstraße",
	"Miersdorfer Weg",
	"Mühlenweg",
	"Seestraße",
	"Waldstraße",
	"Wildauer Straße",
	"Zum Großen Zug",
	"Üderseestraße",
}

// Streets returns the known street names sorted for display with German
// collation, so umlauts sort next to their base letters.
func Streets() []string {
	streets := make([]string, len(streetNames))
	copy(streets, streetNames)
	collate.New(language.German).SortStrings(streets)
	return streets
}

// KnownStreet reports whether name is in the street registry.
func KnownStreet(name string) bool {
	for _, street := range streetNames {
		if street == name {
			return true
		}
	}
	return false
}

// FeedIdentifiers are the two query parameters that identify an address
// subscription in the upstream service.
type FeedIdentifiers struct {
	LocationID     string
	SubscriptionID string
}

// BuildFeedURL assembles the upstream feed URL for a location and
// subscription identifier pair, requesting all five categories.
func BuildFeedURL(locationID, subscriptionID string) string {
	return fmt.Sprintf(feedURLTemplate, url.QueryEscape(locationID), url.QueryEscape(subscriptionID))
}

var (
	standortPattern = regexp.MustCompile(`standortID=(\d+)`)
	aboPattern      = regexp.MustCompile(`aboID=(\d+)`)
)

// ParseFeedURL extracts the location and subscription identifiers from a
// feed URL. Input that does not parse as a URL, or parses without a query
// string, is scanned with regular expressions instead, so pasted URL
// fragments still work. Returns false when either identifier is missing.
func ParseFeedURL(raw string) (FeedIdentifiers, bool) {
	if u, err := url.Parse(raw); err == nil {
		q := u.Query()
		ids := FeedIdentifiers{
			LocationID:     q.Get(paramStandort),
			SubscriptionID: q.Get(paramAbo),
		}
		if ids.LocationID != "" && ids.SubscriptionID != "" {
			return ids, true
		}
	}

	var ids FeedIdentifiers
	if m := standortPattern.FindStringSubmatch(raw); m != nil {
		ids.LocationID = m[1]
	}
	if m := aboPattern.FindStringSubmatch(raw); m != nil {
		ids.SubscriptionID = m[1]
	}
	if ids.LocationID == "" || ids.SubscriptionID == "" {
		return FeedIdentifiers{}, false
	}
	return ids, true
}

// IsValidFeedURL reports whether raw points at the SBAZV feed service and
// carries both required identifiers.
func IsValidFeedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if !strings.EqualFold(host, feedHost) && !strings.EqualFold(host, "sbazv.de") {
		return false
	}
	q := u.Query()
	return q.Get(paramStandort) != "" && q.Get(paramAbo) != ""
}

// FeedURLForStreet looks up the per-street feed URL. Every address has its
// own upstream StandortID that cannot be derived from the street name, and
// the registry has no such mapping table yet, so the lookup never succeeds.
// Configuring SBAZV_FEED_URL with a full feed URL is the supported way to
// wire up real per-address data.
func FeedURLForStreet(street string) (string, bool) {
	return "", false
}
