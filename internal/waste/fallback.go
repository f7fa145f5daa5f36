package waste

import (
	"fmt"
	"sort"
	"time"
)

// GenerateFallback synthesizes an approximate collection schedule from
// today's date. It is used when no live feed is configured or reachable
// and mirrors the usual SBAZV cadences closely enough to be useful, while
// staying clearly distinguishable from real data through its synthetic
// "fallback-" ids.
func GenerateFallback(street string) []Collection {
	return generateFallback(time.Now(), street)
}

func generateFallback(now time.Time, street string) []Collection {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var collections []Collection
	add := func(category Category, first time.Time, intervalDays, count int) {
		for i := 0; i < count; i++ {
			collections = append(collections, Collection{
				ID:       fmt.Sprintf("fallback-%s-%d", category, i),
				Date:     first.AddDate(0, 0, i*intervalDays),
				Category: category,
				Street:   street,
			})
		}
	}

	// Restmüll every two weeks from the next Tuesday.
	add(CategoryRestmuell, nextWeekday(today, time.Tuesday), 14, 12)

	// Papiertonne every four weeks, skipping the immediate next Wednesday.
	add(CategoryPapier, nextWeekday(today, time.Wednesday).AddDate(0, 0, 7), 28, 6)

	// Gelber Sack every two weeks from the next Thursday.
	add(CategoryGelberSack, nextWeekday(today, time.Thursday), 14, 12)

	// Biotonne runs weekly, April through October only.
	if m := today.Month(); m >= time.April && m <= time.October {
		add(CategoryBio, nextWeekday(today, time.Friday), 7, 12)
	}

	// Laubsäcke only during leaf season, October and November.
	if m := today.Month(); m == time.October || m == time.November {
		add(CategoryLaubsaecke, nextWeekday(today, time.Monday), 14, 4)
	}

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Date.Before(collections[j].Date)
	})
	return collections
}

// nextWeekday returns the first occurrence of weekday on or after from.
func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, days)
}
