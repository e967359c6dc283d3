package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Site.Language != DefaultLanguage {
		t.Errorf("Site.Language = %q, want %q", cfg.Site.Language, DefaultLanguage)
	}
	if cfg.Render.Timeout != DefaultRenderTimeout {
		t.Errorf("Render.Timeout = %v, want %v", cfg.Render.Timeout, DefaultRenderTimeout)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit is invalid", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test", tt.value, tt.maxLength)
			if tt.wantErr && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("validateFieldLength() error = %v, want ErrFieldTooLong", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateFieldLength() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid full config",
			mutate: func(c *Config) { c.Site.BaseURL = "https://www.example.com"; c.Render.Viewports = []string{"1280x800"} },
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.Site.BaseURL = "/site" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "non http base URL",
			mutate:  func(c *Config) { c.Site.BaseURL = "ftp://example.com" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "base URL too long",
			mutate:  func(c *Config) { c.Site.BaseURL = "https://" + strings.Repeat("a", MaxURLLength) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "bad language tag",
			mutate:  func(c *Config) { c.Site.Language = "not a tag!" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad translation language",
			mutate:  func(c *Config) { c.Translations = map[string]Messages{"??": {}} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "media without id",
			mutate:  func(c *Config) { c.Media = []MediaEntry{{Src: "/a.png"}} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "duplicate media id",
			mutate:  func(c *Config) { c.Media = []MediaEntry{{ID: "1"}, {ID: "1"}} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "duplicate file id",
			mutate:  func(c *Config) { c.Files = []FileEntry{{ID: "f"}, {ID: "f"}} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative character limit",
			mutate:  func(c *Config) { c.CharacterLimits.CTATitle = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad viewport",
			mutate:  func(c *Config) { c.Render.Viewports = []string{"wide"} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Render.Workers = -2 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "override color too long",
			mutate:  func(c *Config) { c.Theme.OverrideTextColor = strings.Repeat("f", MaxColorLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseViewport(t *testing.T) {
	tests := []struct {
		input  string
		w, h   int
		wantOK bool
	}{
		{input: "1280x800", w: 1280, h: 800, wantOK: true},
		{input: " 375X667 ", w: 375, h: 667, wantOK: true},
		{input: "0x100"},
		{input: "100"},
		{input: "axb"},
		{input: "20000x10"},
	}

	for _, tt := range tests {
		w, h, err := ParseViewport(tt.input)
		if tt.wantOK {
			if err != nil || w != tt.w || h != tt.h {
				t.Errorf("ParseViewport(%q) = %d, %d, %v; want %d, %d", tt.input, w, h, err, tt.w, tt.h)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ParseViewport(%q) error = %v, want ErrInvalidValue", tt.input, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "site.yaml")
		content := `site:
  baseURL: "https://www.example.com"
  language: "fr"
lighthouse:
  apiVersion: "v3"
  playerID: "player1"
  accountID: "acct1"
media:
  - id: "12"
    src: "/files/hero.png"
    alt: "Hero"
translations:
  fr:
    "Header 1": "Titre 1"
render:
  timeout: 45s
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		want := DefaultConfig()
		want.Site = SiteConfig{BaseURL: "https://www.example.com", Language: "fr"}
		want.Lighthouse = LighthouseConfig{APIVersion: "v3", PlayerID: "player1", AccountID: "acct1"}
		want.Media = []MediaEntry{{ID: "12", Src: "/files/hero.png", Alt: "Hero"}}
		want.Translations = map[string]Messages{"fr": {"Header 1": "Titre 1"}}
		want.Render.Timeout = 45 * time.Second
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown name returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("definitely-not-a-config-xyz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("sitee:\n  baseURL: x\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("log:\n  level: loud\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides file values", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Site.BaseURL = "https://file.example.com"
		cfg.Lighthouse.PlayerID = "from-file"

		unknown, err := ApplyEnv(cfg, []string{
			"CMSBLOCKS_SITE_BASE_URL=https://env.example.com",
			"CMSBLOCKS_RENDER_WORKERS=3",
			"CMSBLOCKS_RENDER_VIEWPORTS=1280x800,375x667",
			"CMSBLOCKS_LOG_FORMAT=console",
			"HOME=/root",
		})
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if len(unknown) != 0 {
			t.Errorf("unknown = %v, want none", unknown)
		}
		if cfg.Site.BaseURL != "https://env.example.com" {
			t.Errorf("Site.BaseURL = %q, want env value", cfg.Site.BaseURL)
		}
		if cfg.Lighthouse.PlayerID != "from-file" {
			t.Errorf("Lighthouse.PlayerID = %q, want untouched file value", cfg.Lighthouse.PlayerID)
		}
		if cfg.Render.Workers != 3 {
			t.Errorf("Render.Workers = %d, want 3", cfg.Render.Workers)
		}
		if diff := cmp.Diff([]string{"1280x800", "375x667"}, cfg.Render.Viewports); diff != "" {
			t.Errorf("Render.Viewports mismatch (-want +got):\n%s", diff)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %q, want console", cfg.Log.Format)
		}
	})

	t.Run("reports unknown prefixed variables", func(t *testing.T) {
		unknown, err := ApplyEnv(DefaultConfig(), []string{"CMSBLOCKS_SITE_BASEURL=x", "CMSBLOCKS_LOG_LEVEL=debug"})
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if diff := cmp.Diff([]string{"CMSBLOCKS_SITE_BASEURL"}, unknown); diff != "" {
			t.Errorf("unknown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid override fails validation", func(t *testing.T) {
		_, err := ApplyEnv(DefaultConfig(), []string{"CMSBLOCKS_LOG_LEVEL=chatty"})
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("malformed number returns ErrConfigParse", func(t *testing.T) {
		_, err := ApplyEnv(DefaultConfig(), []string{"CMSBLOCKS_RENDER_WORKERS=many"})
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("ApplyEnv() error = %v, want ErrConfigParse", err)
		}
	})
}
