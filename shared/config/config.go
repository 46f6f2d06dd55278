package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Bilibili   BilibiliConfig   `yaml:"bilibili"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Export     ExportConfig     `yaml:"export"`
	AI         AIConfig         `yaml:"ai"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
	DataDir    string           `yaml:"data_dir"`
}

type BilibiliConfig struct {
	APIBase    string `yaml:"api_base"`
	WebBase    string `yaml:"web_base"`
	UserAgent  string `yaml:"user_agent"`
	Referer    string `yaml:"referer"`
	CookieFile string `yaml:"cookie_file"`

	ListingTimeoutSeconds int `yaml:"listing_timeout_seconds"`
	DetailTimeoutSeconds  int `yaml:"detail_timeout_seconds"`
	PageDelayMs           int `yaml:"page_delay_ms"`
	ItemDelayMs           int `yaml:"item_delay_ms"`
}

type FetchConfig struct {
	PageSize  int `yaml:"page_size"`
	StartPage int `yaml:"start_page"`
	MaxPages  int `yaml:"max_pages"`
}

type ExportConfig struct {
	// Formats selects which exporters run: any of "json", "csv", "markdown".
	Formats    []string `yaml:"formats"`
	OutputDir  string   `yaml:"output_dir"`
	JSONFile   string   `yaml:"json_file"`
	CSVFile    string   `yaml:"csv_file"`
	ReportFile string   `yaml:"report_file"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether enough email settings are present to send a
// digest. Email is optional; missing settings just skip delivery.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.Username != "" && e.Password != "" && e.ToEmail != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		// The tool runs fine on defaults; only a present-but-broken
		// config file is an error.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Bilibili.APIBase == "" {
		c.Bilibili.APIBase = "https://api.bilibili.com"
	}
	if c.Bilibili.WebBase == "" {
		c.Bilibili.WebBase = "https://www.bilibili.com"
	}
	if c.Bilibili.UserAgent == "" {
		c.Bilibili.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:143.0) Gecko/20100101 Firefox/143.0"
	}
	if c.Bilibili.Referer == "" {
		c.Bilibili.Referer = "https://www.bilibili.com/"
	}
	if c.Bilibili.CookieFile == "" {
		c.Bilibili.CookieFile = "cookie.token"
	}
	if c.Bilibili.ListingTimeoutSeconds == 0 {
		c.Bilibili.ListingTimeoutSeconds = 15
	}
	if c.Bilibili.DetailTimeoutSeconds == 0 {
		c.Bilibili.DetailTimeoutSeconds = 10
	}
	if c.Bilibili.PageDelayMs == 0 {
		c.Bilibili.PageDelayMs = 1000
	}
	if c.Bilibili.ItemDelayMs == 0 {
		c.Bilibili.ItemDelayMs = 300
	}

	if c.Fetch.PageSize == 0 {
		c.Fetch.PageSize = 50
	}
	if c.Fetch.StartPage == 0 {
		c.Fetch.StartPage = 1
	}
	if c.Fetch.MaxPages == 0 {
		c.Fetch.MaxPages = 1
	}

	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"json", "csv", "markdown"}
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "."
	}

	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 9 * * *" // Daily at 9 AM
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
}

// Validate checks the fetch and export parameters. It runs during
// Load and again after CLI flag overrides.
func (c *Config) Validate() error {
	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100, got %d", c.Fetch.PageSize)
	}
	if c.Fetch.StartPage < 1 {
		return fmt.Errorf("start page must be at least 1, got %d", c.Fetch.StartPage)
	}
	if c.Fetch.MaxPages < 1 {
		return fmt.Errorf("max pages must be at least 1, got %d", c.Fetch.MaxPages)
	}
	for _, f := range c.Export.Formats {
		switch f {
		case "json", "csv", "markdown":
		default:
			return fmt.Errorf("unknown export format %q (want json, csv or markdown)", f)
		}
	}
	return nil
}
