package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"storyquote/internal/catalog"
	"storyquote/internal/config"
	"storyquote/internal/domain"
	"storyquote/internal/search"
	"storyquote/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	storyID := flag.String("story", "", "Story id to search (default from config)")
	keywords := flag.Bool("keywords", false, "Match any word of the query instead of the whole phrase")
	random := flag.Bool("random", false, "Print a random excerpt instead of searching")
	flag.Parse()

	logger := log.New(os.Stderr)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	cat, err := catalog.Load(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to load story catalog", "err", err)
	}

	engine := search.New(cat, nil)

	if *random {
		m, err := engine.RandomExcerpt()
		if err != nil {
			logger.Fatal("random excerpt failed", "err", err)
		}
		if s, ok := cat.Get(m.StoryID); ok {
			fmt.Printf("%s — %s\n", s.Title, s.Author)
		}
		printMatch(m, 1, 1)
		return
	}

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		fmt.Println("Usage: storyquote-search [--config=config.yaml] [--story=id] [--keywords] query...")
		os.Exit(1)
	}
	id := *storyID
	if id == "" {
		id = cfg.DefaultStory
	}

	results, err := engine.Search(id, query, !*keywords)
	if err != nil {
		logger.Fatal("search failed", "err", err)
	}
	if len(results) == 0 {
		fmt.Println("No quotes found!")
		return
	}
	for i, m := range results {
		printMatch(m, i+1, len(results))
	}
}

func printMatch(m domain.Match, page, total int) {
	fmt.Printf("%s | %s (page %d/%d)\n", labelText(m.Collection), labelText(m.Chapter), page, total)
	fmt.Println(m.Passage)
	fmt.Println()
}

func labelText(l domain.Label) string {
	if !l.Found {
		return tui.Placeholder
	}
	return l.Text
}
