package domain

import "errors"

// Story is one literary work: its display metadata plus the loaded,
// indexed text. Built once at startup and never mutated afterwards, so it
// is safe to share across concurrent queries without locking.
type Story struct {
	ID     string
	Title  string
	Author string
	Link   string
	// EmojiID references the platform emoji used as the story's icon.
	EmojiID int64

	// Lines holds the story text with blank lines stripped, 0-indexed.
	Lines []string
	// ChapterOffsets and VolumeOffsets are strictly increasing indexes
	// into Lines marking where chapters and volumes begin. VolumeOffsets
	// may be empty for stories without a volume grouping.
	ChapterOffsets []int
	VolumeOffsets  []int
	// LabelOverrides replaces the line text of an offset when resolving
	// its label (two-line headings merged during indexing).
	LabelOverrides map[int]string
}

// Label is a structural location resolved for a match. Found is false when
// the story has no recorded offset preceding the match; presenters render
// a placeholder in that case.
type Label struct {
	Text  string
	Found bool
}

// Match is one search hit: a short passage with the matched terms wrapped
// in the emphasis marker, attributed to its volume and chapter.
type Match struct {
	StoryID    string
	Line       int
	Collection Label
	Chapter    Label
	Passage    string
}

// Searcher is the presenter-facing surface of the search engine.
type Searcher interface {
	Search(storyID, query string, exact bool) ([]Match, error)
	RandomExcerpt() (Match, error)
}

var (
	// ErrStoryNotFound reports a story id absent from the catalog.
	ErrStoryNotFound = errors.New("story not found")
	// ErrEmptyQuery reports a blank search query.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrStoryTooShort reports a story with too few lines for a random excerpt.
	ErrStoryTooShort = errors.New("story too short for a random excerpt")
	// ErrNoStories reports an empty catalog.
	ErrNoStories = errors.New("no stories loaded")
)
