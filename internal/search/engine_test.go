package search

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyquote/internal/catalog"
	"storyquote/internal/domain"
	"storyquote/internal/index"
)

func buildStory(id string, lines []string) *domain.Story {
	idx := index.Build(lines, index.RulesFor(id))
	return &domain.Story{
		ID:             id,
		Title:          "Test Story",
		Author:         "Tester",
		Lines:          lines,
		ChapterOffsets: idx.Chapters,
		VolumeOffsets:  idx.Volumes,
		LabelOverrides: idx.LabelOverrides,
	}
}

func acvrStory() *domain.Story {
	return buildStory("acvr", []string{
		"A Cadmean Victory Volume One",
		"# Prologue",
		"He had been searching for Europa in the depths.",
		"The trail went cold.",
		"# Two",
		"Europa was gone.",
	})
}

func TestSearch(t *testing.T) {
	engine := New(catalog.New(acvrStory()), nil)

	t.Run("Should return matches in ascending line order", func(t *testing.T) {
		results, err := engine.Search("acvr", "Europa", true)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 2, results[0].Line)
		assert.Equal(t, 5, results[1].Line)
	})

	t.Run("Should emphasize the matched term without altering surrounding text", func(t *testing.T) {
		results, err := engine.Search("acvr", "Europa", true)
		require.NoError(t, err)
		assert.Contains(t, results[0].Passage, "searching for __Europa__ in the depths.")
		assert.True(t, strings.HasPrefix(results[1].Passage, "__Europa__ was gone."))
	})

	t.Run("Should resolve chapter and collection labels with trims applied", func(t *testing.T) {
		results, err := engine.Search("acvr", "Europa", true)
		require.NoError(t, err)
		assert.Equal(t, domain.Label{Text: "Volume One", Found: true}, results[0].Collection)
		assert.Equal(t, domain.Label{Text: "Prologue", Found: true}, results[0].Chapter)
		assert.Equal(t, domain.Label{Text: "Two", Found: true}, results[1].Chapter)
	})

	t.Run("Should join the matching line with up to two following lines", func(t *testing.T) {
		results, err := engine.Search("acvr", "trail", true)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "The __trail__ went cold.\n# Two\nEuropa was gone.", results[0].Passage)
	})

	t.Run("Should match case-insensitively", func(t *testing.T) {
		results, err := engine.Search("acvr", "eurOPA", true)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("Should match any token in keyword mode", func(t *testing.T) {
		exact, err := engine.Search("acvr", "Europa dragon", true)
		require.NoError(t, err)
		assert.Empty(t, exact)

		keyword, err := engine.Search("acvr", "Europa dragon", false)
		require.NoError(t, err)
		assert.Len(t, keyword, 2)
	})

	t.Run("Should return an empty result set for zero matches", func(t *testing.T) {
		results, err := engine.Search("acvr", "zebra", true)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Should fail with ErrStoryNotFound for an unknown story", func(t *testing.T) {
		_, err := engine.Search("missing_story", "x", true)
		assert.ErrorIs(t, err, domain.ErrStoryNotFound)
	})

	t.Run("Should fail with ErrEmptyQuery for a blank query", func(t *testing.T) {
		_, err := engine.Search("acvr", "", true)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
		_, err = engine.Search("acvr", "   ", false)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("Should return empty results for a story with no lines", func(t *testing.T) {
		e := New(catalog.New(&domain.Story{ID: "empty"}), nil)
		results, err := e.Search("empty", "anything", true)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Should yield identical results when re-run", func(t *testing.T) {
		a, err := engine.Search("acvr", "Europa", true)
		require.NoError(t, err)
		b, err := engine.Search("acvr", "Europa", true)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestSearchTruncation(t *testing.T) {
	t.Run("Should cap long passages at 1023 runes with an ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 400)
		story := buildStory("verbose", []string{"the needle " + long, long, long})
		engine := New(catalog.New(story), nil)

		results, err := engine.Search("verbose", "needle", true)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1023, utf8.RuneCountInString(results[0].Passage))
		assert.True(t, strings.HasSuffix(results[0].Passage, "..."))
	})
}

func TestRandomExcerpt(t *testing.T) {
	t.Run("Should sample the only legal start index of a five-line story", func(t *testing.T) {
		story := buildStory("short", []string{"# One", "alpha", "beta", "gamma", "delta"})
		engine := New(catalog.New(story), rand.New(rand.NewSource(1)))

		m, err := engine.RandomExcerpt()
		require.NoError(t, err)
		assert.Equal(t, "short", m.StoryID)
		assert.Equal(t, 2, m.Line)
		assert.Equal(t, "beta\ngamma", m.Passage)
		assert.Equal(t, domain.Label{Text: "# One", Found: true}, m.Chapter)
		assert.False(t, m.Collection.Found)
	})

	t.Run("Should always sample within bounds", func(t *testing.T) {
		engine := New(catalog.New(acvrStory()), rand.New(rand.NewSource(7)))
		for i := 0; i < 50; i++ {
			m, err := engine.RandomExcerpt()
			require.NoError(t, err)
			require.GreaterOrEqual(t, m.Line, 2)
			require.LessOrEqual(t, m.Line, 3)
		}
	})

	t.Run("Should fail with ErrStoryTooShort below five lines", func(t *testing.T) {
		story := buildStory("tiny", []string{"# One", "alpha", "beta"})
		engine := New(catalog.New(story), nil)

		_, err := engine.RandomExcerpt()
		assert.ErrorIs(t, err, domain.ErrStoryTooShort)
	})

	t.Run("Should fail with ErrNoStories on an empty catalog", func(t *testing.T) {
		engine := New(catalog.New(), nil)
		_, err := engine.RandomExcerpt()
		assert.ErrorIs(t, err, domain.ErrNoStories)
	})
}
