package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/narrative"
)

// Config is the root configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Sources    SourcesConfig    `yaml:"sources"`
	Narratives []narrative.Rule `yaml:"narratives"`
	Server     ServerConfig     `yaml:"server"`
	Alerts     AlertsConfig     `yaml:"alerts"`
}

// DatabaseConfig configures SQLite corpus storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig holds configuration for corpus acquisition sources.
type SourcesConfig struct {
	Reddit RedditConfig `yaml:"reddit"`
	RSS    RSSConfig    `yaml:"rss"`
}

// RedditConfig for the authenticated Reddit API source.
type RedditConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Subreddits   []string `yaml:"subreddits"`
	Limit        int      `yaml:"limit"`
}

// RSSConfig for the unauthenticated subreddit feed source.
type RSSConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Subreddits []string `yaml:"subreddits"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AlertsConfig configures digest delivery destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook digests.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook digests.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook digests.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with sensible defaults, including the base
// narrative rule set.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./narrspread.db"},
		Sources: SourcesConfig{
			Reddit: RedditConfig{
				Enabled: false,
				Subreddits: []string{
					"worldnews", "news", "politics",
					"technology", "Economics",
				},
				Limit: 100,
			},
			RSS: RSSConfig{
				Enabled: true,
				Subreddits: []string{
					"worldnews", "news", "politics",
					"technology", "Economics",
				},
			},
		},
		Narratives: narrative.DefaultRules(),
		Server:     ServerConfig{Port: 8080},
		Alerts:     AlertsConfig{},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Narratives) == 0 {
		return fmt.Errorf("config: at least one narrative rule is required")
	}
	seen := make(map[string]bool)
	for _, r := range cfg.Narratives {
		if r.Name == "" {
			return fmt.Errorf("config: narrative rule with empty name")
		}
		if seen[r.Name] {
			return fmt.Errorf("config: duplicate narrative rule %q", r.Name)
		}
		seen[r.Name] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("config: narrative %q has no keywords", r.Name)
		}
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NARRSPREAD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.Sources.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.Sources.Reddit.ClientSecret = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
