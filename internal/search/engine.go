package search

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"storyquote/internal/catalog"
	"storyquote/internal/domain"
	"storyquote/internal/index"
)

const (
	// passageLines is how many lines a passage spans: the matching line
	// plus the two following it.
	passageLines = 3
	// maxPassageLen caps a passage at the platform's field size.
	maxPassageLen = 1024
	truncateAt    = 1020
	ellipsis      = "..."

	emphasisMarker = "__"

	// minRandomLines is the shortest story RandomExcerpt can sample: the
	// start index range [2, len-3] is empty below five lines.
	minRandomLines = 5
)

// Engine answers search and random-excerpt queries against an immutable
// catalog. All methods are read-only with respect to the catalog and safe
// for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// New creates an engine over the given catalog. rng drives random-excerpt
// selection; pass nil for a time-seeded source.
func New(c *catalog.Catalog, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{catalog: c, rng: rng}
}

// Search scans a story's lines for the query and returns one Match per
// hit, in ascending line order. With exact set, the whole query must
// appear as a substring of the line; otherwise any whitespace-delimited
// token of the query suffices. Both modes are case-insensitive.
//
// A story with zero loaded lines yields an empty, non-error result; a
// blank query fails with ErrEmptyQuery.
func (e *Engine) Search(storyID, query string, exact bool) ([]domain.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	story, ok := e.catalog.Get(storyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrStoryNotFound, storyID)
	}
	rules := index.RulesFor(storyID)
	emphasize := emphasizer(query)

	var results []domain.Match
	for i, line := range story.Lines {
		if !matches(line, query, exact) {
			continue
		}
		end := i + passageLines
		if end > len(story.Lines) {
			end = len(story.Lines)
		}
		passage := truncate(emphasize(strings.Join(story.Lines[i:end], "\n")))

		results = append(results, domain.Match{
			StoryID:    storyID,
			Line:       i,
			Collection: labelAt(story, story.VolumeOffsets, i, rules.CollectionTrim),
			Chapter:    labelAt(story, story.ChapterOffsets, i, rules.ChapterTrim),
			Passage:    passage,
		})
	}
	return results, nil
}

// RandomExcerpt picks a story uniformly at random and returns a two-line
// passage from a uniformly random position. Stories shorter than five
// lines fail with ErrStoryTooShort rather than sampling a degenerate
// range; an empty catalog fails with ErrNoStories.
func (e *Engine) RandomExcerpt() (domain.Match, error) {
	ids := e.catalog.IDs()
	if len(ids) == 0 {
		return domain.Match{}, domain.ErrNoStories
	}
	storyID := ids[e.rng.Intn(len(ids))]
	story, _ := e.catalog.Get(storyID)
	if len(story.Lines) < minRandomLines {
		return domain.Match{}, fmt.Errorf("%w: %q has %d lines", domain.ErrStoryTooShort, storyID, len(story.Lines))
	}
	rules := index.RulesFor(storyID)

	// Start index uniform over [2, len-3]; labels resolve two lines past
	// the start so the excerpt is attributed to the unit it sits in.
	start := 2 + e.rng.Intn(len(story.Lines)-4)
	return domain.Match{
		StoryID:    storyID,
		Line:       start,
		Collection: labelAt(story, story.VolumeOffsets, start+2, rules.CollectionTrim),
		Chapter:    labelAt(story, story.ChapterOffsets, start+2, rules.ChapterTrim),
		Passage:    strings.Join(story.Lines[start:start+2], "\n"),
	}, nil
}

func matches(line, query string, exact bool) bool {
	l := strings.ToLower(line)
	if exact {
		return strings.Contains(l, strings.ToLower(query))
	}
	for _, term := range strings.Fields(query) {
		if strings.Contains(l, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// emphasizer wraps every case-insensitive occurrence of the query that is
// bounded on the left by whitespace or the passage start. Casing and
// surrounding text are untouched.
func emphasizer(query string) func(string) string {
	re := regexp.MustCompile(`(?i)(\s|^)(` + regexp.QuoteMeta(query) + `)`)
	repl := "${1}" + emphasisMarker + "${2}" + emphasisMarker
	return func(s string) string { return re.ReplaceAllString(s, repl) }
}

// truncate fits a passage into the display field, counting runes.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxPassageLen {
		return s
	}
	return string(runes[:truncateAt]) + ellipsis
}

// labelAt resolves the structural label for a line position: the text of
// the nearest preceding offset's line, with any merged-heading override
// applied and the story's display prefix stripped.
func labelAt(story *domain.Story, offsets []int, position int, trim string) domain.Label {
	off, ok := index.Locate(offsets, position)
	if !ok {
		return domain.Label{}
	}
	text := story.Lines[off]
	if o, ok := story.LabelOverrides[off]; ok {
		text = o
	}
	return domain.Label{Text: strings.TrimPrefix(text, trim), Found: true}
}
