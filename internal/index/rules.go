package index

import "regexp"

// Rules describes how one story's text is structured. Each story id maps
// to a rule set; stories without an entry use the default markdown
// chapter-heading rule and no volume grouping.
type Rules struct {
	// Chapter matches lines that start a chapter.
	Chapter *regexp.Regexp
	// Volume matches lines that start a volume; nil for flat stories.
	Volume *regexp.Regexp
	// ContinuationMark merges a split two-line heading: a line carrying
	// this marker extends the label of the most recently recorded
	// chapter offset instead of starting a new one.
	ContinuationMark string
	// ChapterTrim and CollectionTrim are prefixes stripped from resolved
	// labels before display.
	ChapterTrim    string
	CollectionTrim string
}

var defaultRules = Rules{
	Chapter: regexp.MustCompile(`^# \w+`),
}

// rulesByStory carries the format-specific cases that the reference texts
// need. "acvr" (A Cadmean Victory Remastered) has volume running headers
// and a prologue title split across two physical lines.
var rulesByStory = map[string]Rules{
	"acvr": {
		Chapter:          regexp.MustCompile(`^# \w+`),
		Volume:           regexp.MustCompile(`^A Cadmean Victory Volume \w+`),
		ContinuationMark: "*A Quest for Europa*",
		ChapterTrim:      "# ",
		CollectionTrim:   "A Cadmean Victory ",
	},
}

// RulesFor returns the rule set for a story id.
func RulesFor(storyID string) Rules {
	if r, ok := rulesByStory[storyID]; ok {
		return r
	}
	return defaultRules
}
