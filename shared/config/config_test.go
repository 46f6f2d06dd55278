package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EMAIL_USERNAME", "")
	t.Setenv("EMAIL_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with missing config file should succeed, got: %v", err)
	}

	if cfg.Bilibili.APIBase != "https://api.bilibili.com" {
		t.Errorf("APIBase = %q", cfg.Bilibili.APIBase)
	}
	if cfg.Bilibili.ListingTimeoutSeconds != 15 {
		t.Errorf("ListingTimeoutSeconds = %d, want 15", cfg.Bilibili.ListingTimeoutSeconds)
	}
	if cfg.Bilibili.DetailTimeoutSeconds != 10 {
		t.Errorf("DetailTimeoutSeconds = %d, want 10", cfg.Bilibili.DetailTimeoutSeconds)
	}
	if cfg.Bilibili.PageDelayMs != 1000 || cfg.Bilibili.ItemDelayMs != 300 {
		t.Errorf("Delays = %d/%d, want 1000/300", cfg.Bilibili.PageDelayMs, cfg.Bilibili.ItemDelayMs)
	}
	if cfg.Fetch.PageSize != 50 || cfg.Fetch.StartPage != 1 || cfg.Fetch.MaxPages != 1 {
		t.Errorf("Fetch defaults = %+v", cfg.Fetch)
	}
	if len(cfg.Export.Formats) != 3 {
		t.Errorf("Formats = %v, want all three", cfg.Export.Formats)
	}
	if cfg.Schedule != "0 0 9 * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Email.Enabled() {
		t.Error("Email should be disabled without credentials")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
bilibili:
  cookie_file: /tmp/cookie.token
  page_delay_ms: 50
fetch:
  page_size: 20
  max_pages: 3
export:
  formats: [csv]
  output_dir: /tmp/out
schedule: "0 30 8 * * *"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Bilibili.CookieFile != "/tmp/cookie.token" {
		t.Errorf("CookieFile = %q", cfg.Bilibili.CookieFile)
	}
	if cfg.Bilibili.PageDelayMs != 50 {
		t.Errorf("PageDelayMs = %d, want 50", cfg.Bilibili.PageDelayMs)
	}
	// Unset values still get defaults.
	if cfg.Bilibili.ItemDelayMs != 300 {
		t.Errorf("ItemDelayMs = %d, want default 300", cfg.Bilibili.ItemDelayMs)
	}
	if cfg.Fetch.PageSize != 20 || cfg.Fetch.MaxPages != 3 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if len(cfg.Export.Formats) != 1 || cfg.Export.Formats[0] != "csv" {
		t.Errorf("Formats = %v", cfg.Export.Formats)
	}
	if cfg.Schedule != "0 30 8 * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EMAIL_USERNAME", "digest@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.AI.GeminiAPIKey)
	}
	if cfg.Email.Username != "digest@example.com" || cfg.Email.Password != "secret" {
		t.Errorf("Email credentials not taken from environment: %+v", cfg.Email)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fetch: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Error("Expected error for unparseable config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(c *Config) {}, ""},
		{"PageSizeTooSmall", func(c *Config) { c.Fetch.PageSize = 0; c.applyDefaults() }, ""},
		{"PageSizeTooLarge", func(c *Config) { c.Fetch.PageSize = 101 }, "page size"},
		{"PageSizeNegative", func(c *Config) { c.Fetch.PageSize = -5 }, "page size"},
		{"StartPageNegative", func(c *Config) { c.Fetch.StartPage = -1 }, "start page"},
		{"MaxPagesNegative", func(c *Config) { c.Fetch.MaxPages = -1 }, "max pages"},
		{"UnknownFormat", func(c *Config) { c.Export.Formats = []string{"xml"} }, "unknown export format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
