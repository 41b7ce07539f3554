package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"storyquote/internal/catalog"
	"storyquote/internal/config"
	"storyquote/internal/search"
	"storyquote/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/storyquote/config.yaml if not provided)")
	flag.Parse()

	logger := newLogger()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	cat, err := catalog.Load(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to load story catalog", "err", err)
	}
	if cat.Len() == 0 {
		logger.Fatal("no stories loaded", "data_dir", cfg.DataDir)
	}

	engine := search.New(cat, nil)
	m := tui.New(engine, cat.Stories(), cfg.DefaultStory)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Fatal("tui exited", "err", err)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if lvl, err := log.ParseLevel(os.Getenv("STORYQUOTE_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
