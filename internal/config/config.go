package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultPath = "dashboard.yaml"
)

type Config struct {
	ListenAddr      string       `yaml:"listen_addr"`
	Provider        string       `yaml:"provider"`
	Gemini          GeminiConfig `yaml:"gemini"`
	OpenAI          OpenAIConfig `yaml:"openai"`
	DBPath          string       `yaml:"db_path"`
	FeedTimeoutSecs int          `yaml:"feed_timeout_secs"`
	Cloud           CloudConfig  `yaml:"cloud"`

	// Unwatched dashboards are dropped after DashboardIdleMins, and at most
	// MaxDashboards are kept in memory.
	DashboardIdleMins int `yaml:"dashboard_idle_mins"`
	MaxDashboards     int `yaml:"max_dashboards"`
}

type GeminiConfig struct {
	APIKey         string `yaml:"-"`
	FastModel      string `yaml:"fast_model"`
	ThinkingModel  string `yaml:"thinking_model"`
	ChatModel      string `yaml:"chat_model"`
	ThinkingBudget int32  `yaml:"thinking_budget"`
}

type OpenAIConfig struct {
	APIKey        string `yaml:"-"`
	FastModel     string `yaml:"fast_model"`
	ThinkingModel string `yaml:"thinking_model"`
	ChatModel     string `yaml:"chat_model"`
}

// CloudConfig sizes the chart and word cloud canvases.
type CloudConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Seed   int64   `yaml:"seed"`
}

func Defaults() Config {
	return Config{
		ListenAddr: ":1323",
		Provider:   ProviderGemini,
		Gemini: GeminiConfig{
			FastModel:      "gemini-2.5-flash",
			ThinkingModel:  "gemini-2.5-pro",
			ChatModel:      "gemini-2.5-flash",
			ThinkingBudget: 32768,
		},
		OpenAI: OpenAIConfig{
			FastModel:     "gpt-5-mini",
			ThinkingModel: "gpt-5",
			ChatModel:     "gpt-5-mini",
		},
		DBPath:          "dashboard.db",
		FeedTimeoutSecs: 10,
		Cloud: CloudConfig{
			Width:  600,
			Height: 300,
			Seed:   1,
		},
		DashboardIdleMins: 60,
		MaxDashboards:     1000,
	}
}

// Load reads the YAML file at path over Defaults, applies environment overrides and
// validates the result. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyEnvironmentOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Path returns DASHBOARD_CONFIG when set, otherwise fallback.
func Path(fallback string) string {
	if p := os.Getenv("DASHBOARD_CONFIG"); p != "" {
		return p
	}
	return fallback
}

func applyEnvironmentOverrides(cfg *Config) {
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	if dbPath, ok := os.LookupEnv("DASHBOARD_DB"); ok {
		cfg.DBPath = dbPath
	}
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.Provider)
		}
		if c.Gemini.FastModel == "" || c.Gemini.ThinkingModel == "" || c.Gemini.ChatModel == "" {
			return fmt.Errorf("gemini models must not be empty")
		}
		if c.Gemini.ThinkingBudget < 0 {
			return fmt.Errorf("gemini.thinking_budget must not be negative, got %d", c.Gemini.ThinkingBudget)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.Provider)
		}
		if c.OpenAI.FastModel == "" || c.OpenAI.ThinkingModel == "" || c.OpenAI.ChatModel == "" {
			return fmt.Errorf("openai models must not be empty")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.FeedTimeoutSecs <= 0 {
		return fmt.Errorf("feed_timeout_secs must be positive, got %d", c.FeedTimeoutSecs)
	}
	if c.DashboardIdleMins <= 0 {
		return fmt.Errorf("dashboard_idle_mins must be positive, got %d", c.DashboardIdleMins)
	}
	if c.MaxDashboards <= 0 {
		return fmt.Errorf("max_dashboards must be positive, got %d", c.MaxDashboards)
	}
	if c.Cloud.Width <= 0 || c.Cloud.Height <= 0 {
		return fmt.Errorf("cloud size must be positive, got %vx%v", c.Cloud.Width, c.Cloud.Height)
	}
	return nil
}

func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSecs) * time.Second
}

func (c *Config) DashboardIdleTTL() time.Duration {
	return time.Duration(c.DashboardIdleMins) * time.Minute
}
