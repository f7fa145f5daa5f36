package waste

import "strings"

// classifierRule pairs one category with the summary keywords that select
// it. Matching is case-insensitive substring search.
type classifierRule struct {
	category Category
	keywords []string
}

// classifierRules is evaluated top to bottom; the first keyword hit wins.
// The final rule recognizes Christmas tree pickups and deliberately maps
// them to no category, so they are recognized but never tracked.
var classifierRules = []classifierRule{
	{CategoryRestmuell, []string{"restmüll", "restmuell", "restabfall"}},
	{CategoryPapier, []string{"papier", "altpapier"}},
	{CategoryGelberSack, []string{"gelb", "wertstoff", "verpackung"}},
	{CategoryBio, []string{"bio", "biomüll"}},
	{CategoryLaubsaecke, []string{"laub", "grün"}},
	{CategoryNone, []string{"weihnacht"}},
}

// Classify maps a free-text event summary to a waste category. Returns
// CategoryNone when the summary matches no tracked category.
func Classify(summary string) Category {
	s := strings.ToLower(summary)
	for _, rule := range classifierRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(s, keyword) {
				return rule.category
			}
		}
	}
	return CategoryNone
}
