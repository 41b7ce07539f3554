package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"storyquote/internal/domain"
	"storyquote/internal/index"
	"storyquote/internal/loader"
)

// Metadata is one story's entry in the metadata file.
type Metadata struct {
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Link    string `yaml:"link"`
	EmojiID int64  `yaml:"emoji_id"`
}

// Catalog is the full set of loaded stories. It is built once at startup
// and read-only afterwards, so concurrent queries need no locking.
type Catalog struct {
	stories map[string]*domain.Story
	ids     []string
}

// New builds a catalog from already-constructed stories. Used by code that
// assembles stories without the file layout, such as tests.
func New(stories ...*domain.Story) *Catalog {
	c := &Catalog{stories: make(map[string]*domain.Story, len(stories))}
	for _, s := range stories {
		c.stories[s.ID] = s
	}
	c.ids = sortedIDs(c.stories)
	return c
}

// Load reads the metadata file and every story's text from dataDir and
// builds the catalog. Failures are isolated per story: a missing or
// malformed story is logged and skipped, the rest still load.
//
// Layout: dataDir/stories.yaml plus dataDir/story_text/<id>_text.md.
func Load(dataDir string, logger *log.Logger) (*Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, "stories.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read story metadata: %w", err)
	}
	var meta map[string]Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse story metadata: %w", err)
	}

	c := &Catalog{stories: make(map[string]*domain.Story, len(meta))}
	for id, m := range meta {
		if err := validate(id, m); err != nil {
			logger.Error("skipping story with bad metadata", "story", id, "err", err)
			continue
		}
		s, err := loadStory(dataDir, id, m, logger)
		if err != nil {
			logger.Error("skipping story", "story", id, "err", err)
			continue
		}
		c.stories[id] = s
		logger.Info("loaded story", "story", id, "lines", len(s.Lines),
			"chapters", len(s.ChapterOffsets), "volumes", len(s.VolumeOffsets))
	}
	c.ids = sortedIDs(c.stories)
	return c, nil
}

func validate(id string, m Metadata) error {
	if id == "" {
		return fmt.Errorf("empty story id")
	}
	if m.Title == "" {
		return fmt.Errorf("missing title")
	}
	if m.Author == "" {
		return fmt.Errorf("missing author")
	}
	return nil
}

func loadStory(dataDir, id string, m Metadata, logger *log.Logger) (*domain.Story, error) {
	path := filepath.Join(dataDir, "story_text", id+"_text.md")
	lines, err := loader.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("read story text: %w", err)
	}

	start := time.Now()
	idx := index.Build(lines, index.RulesFor(id))
	logger.Debug("indexed story", "story", id, "took", time.Since(start))

	return &domain.Story{
		ID:             id,
		Title:          m.Title,
		Author:         m.Author,
		Link:           m.Link,
		EmojiID:        m.EmojiID,
		Lines:          lines,
		ChapterOffsets: idx.Chapters,
		VolumeOffsets:  idx.Volumes,
		LabelOverrides: idx.LabelOverrides,
	}, nil
}

// Get returns the story for an id.
func (c *Catalog) Get(id string) (*domain.Story, bool) {
	s, ok := c.stories[id]
	return s, ok
}

// IDs returns the catalog's story ids in sorted order.
func (c *Catalog) IDs() []string {
	return c.ids
}

// Stories returns all loaded stories, ordered by id.
func (c *Catalog) Stories() []*domain.Story {
	out := make([]*domain.Story, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.stories[id])
	}
	return out
}

// Len reports how many stories loaded.
func (c *Catalog) Len() int { return len(c.stories) }

func sortedIDs(m map[string]*domain.Story) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
