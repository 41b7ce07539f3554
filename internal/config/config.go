package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BotConfig holds the bot-wide settings the platform layer consumes:
// command prefixes and the channels each guild allows commands in.
// Updates follow a read-modify-write-then-reload discipline via Update;
// concurrent writers are best-effort, not transactional.
type BotConfig struct {
	Prefixes        []string            `yaml:"prefixes"`
	AllowedChannels map[string][]string `yaml:"allowed_channels,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	// DataDir holds stories.yaml and the story_text tree.
	DataDir string `yaml:"data_dir"`
	// DefaultStory is the story searched when none is named.
	DefaultStory string    `yaml:"default_story"`
	Bot          BotConfig `yaml:"bot"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/storyquote/config.yaml.
// If neither exists, it writes defaults to ~/.config/storyquote/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Update loads the config at path, applies fn to it, saves, and returns a
// fresh reload. Last writer wins when invoked concurrently.
func Update(path string, fn func(*AppConfig)) (*AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fn(cfg)
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return Load(path)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "storyquote", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		DataDir:      "data",
		DefaultStory: "acvr",
		Bot:          BotConfig{Prefixes: []string{"?"}},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DefaultStory == "" {
		cfg.DefaultStory = "acvr"
	}
	if len(cfg.Bot.Prefixes) == 0 {
		cfg.Bot.Prefixes = []string{"?"}
	}
}
