// Package config loads the site configuration consumed by block rendering:
// site URLs, media catalog, theme, translations, limits and service settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/alnah/go-cmsblocks/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxIDLength       = 128  // Media and file ids
	MaxColorLength    = 32   // "#RRGGBBAA" or a CSS color name
	MaxVersionLength  = 10   // Lighthouse API version, "v3"
	MaxPlayerIDLength = 64   // Brightcove ids
	MaxTextLength     = 500  // Alt texts
)

// Config holds the site settings a render needs.
type Config struct {
	Site            SiteConfig            `yaml:"site"`
	Lighthouse      LighthouseConfig      `yaml:"lighthouse"`
	Theme           ThemeConfig           `yaml:"theme"`
	Media           []MediaEntry          `yaml:"media"`
	Files           []FileEntry           `yaml:"files"`
	Translations    map[string]Messages   `yaml:"translations"`
	CharacterLimits CharacterLimitsConfig `yaml:"characterLimits"`
	Assets          AssetsConfig          `yaml:"assets"`
	Render          RenderConfig          `yaml:"render"`
	Server          ServerConfig          `yaml:"server"`
	Log             LogConfig             `yaml:"log"`
}

// SiteConfig identifies the site blocks are rendered for.
type SiteConfig struct {
	BaseURL  string `yaml:"baseURL" env:"CMSBLOCKS_SITE_BASE_URL"` // Absolute URL media paths resolve against
	AppRoot  string `yaml:"appRoot" env:"CMSBLOCKS_SITE_APP_ROOT"` // Directory served at the site root (icon files)
	Language string `yaml:"language" env:"CMSBLOCKS_SITE_LANGUAGE"`
}

// LighthouseConfig holds the video platform settings.
type LighthouseConfig struct {
	APIVersion string `yaml:"apiVersion" env:"CMSBLOCKS_LIGHTHOUSE_API_VERSION"` // "v3" enables Brightcove embeds
	PlayerID   string `yaml:"playerID" env:"CMSBLOCKS_LIGHTHOUSE_PLAYER_ID"`
	AccountID  string `yaml:"accountID" env:"CMSBLOCKS_LIGHTHOUSE_ACCOUNT_ID"`
}

// ThemeConfig points at the theme artwork and text color override.
type ThemeConfig struct {
	Name              string `yaml:"name"`
	GraphicDivider    string `yaml:"graphicDivider"`    // SVG file, relative to site.appRoot
	BrandShape        string `yaml:"brandShape"`        // SVG file, relative to site.appRoot
	OverrideTextColor string `yaml:"overrideTextColor"` // Used when a block enables override_text_color
}

// MediaEntry describes one media item the site can reference.
type MediaEntry struct {
	ID    string `yaml:"id"`
	Src   string `yaml:"src"`
	Alt   string `yaml:"alt"`
	Bcove string `yaml:"bcove"` // Brightcove video id
}

// FileEntry maps an uploaded file id to its stream URI.
type FileEntry struct {
	ID  string `yaml:"id"`
	URI string `yaml:"uri"` // "public://audio/a.mp3" or a site path
}

// Messages maps source strings to their translation.
type Messages map[string]string

// CharacterLimitsConfig overrides editor field limits. Zero keeps the default.
type CharacterLimitsConfig struct {
	Header1     int `yaml:"header1"`
	Header2     int `yaml:"header2"`
	CTATitle    int `yaml:"ctaTitle"`
	CTAURL      int `yaml:"ctaURL"`
	Description int `yaml:"description"`
	VideoTitle  int `yaml:"videoTitle"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath" env:"CMSBLOCKS_ASSETS_BASE_PATH"` // Empty = use embedded assets
	Style       string `yaml:"style" env:"CMSBLOCKS_ASSETS_STYLE"`
	TemplateSet string `yaml:"templateSet" env:"CMSBLOCKS_ASSETS_TEMPLATE_SET"`
}

// RenderConfig tunes block rendering.
type RenderConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"CMSBLOCKS_RENDER_TIMEOUT"`
	Workers   int           `yaml:"workers" env:"CMSBLOCKS_RENDER_WORKERS"`
	Viewports []string      `yaml:"viewports" env:"CMSBLOCKS_RENDER_VIEWPORTS" envSeparator:","` // "1280x800"
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"CMSBLOCKS_SERVER_ADDR"`
	RateLimit    int           `yaml:"rateLimit" env:"CMSBLOCKS_SERVER_RATE_LIMIT"` // Requests per minute and client IP, 0 = off
	MaxBodyBytes int64         `yaml:"maxBodyBytes" env:"CMSBLOCKS_SERVER_MAX_BODY_BYTES"`
	CacheTTL     time.Duration `yaml:"cacheTTL" env:"CMSBLOCKS_SERVER_CACHE_TTL"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"CMSBLOCKS_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"CMSBLOCKS_LOG_FORMAT"` // json, console
}

// Validate checks field lengths, enums and cross-field constraints.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	if err := validateFieldLength("site.baseURL", c.Site.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: site.baseURL must be an absolute http(s) URL, got %q", ErrInvalidValue, c.Site.BaseURL)
		}
	}
	if c.Site.Language != "" {
		if _, err := language.Parse(c.Site.Language); err != nil {
			return fmt.Errorf("%w: site.language %q: %v", ErrInvalidValue, c.Site.Language, err)
		}
	}
	for lang := range c.Translations {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("%w: translations.%s: %v", ErrInvalidValue, lang, err)
		}
	}

	if err := validateFieldLength("lighthouse.apiVersion", c.Lighthouse.APIVersion, MaxVersionLength); err != nil {
		return err
	}
	if err := validateFieldLength("lighthouse.playerID", c.Lighthouse.PlayerID, MaxPlayerIDLength); err != nil {
		return err
	}
	if err := validateFieldLength("lighthouse.accountID", c.Lighthouse.AccountID, MaxPlayerIDLength); err != nil {
		return err
	}
	if err := validateFieldLength("theme.overrideTextColor", c.Theme.OverrideTextColor, MaxColorLength); err != nil {
		return err
	}

	if err := validateEntries("media", c.Media, func(m MediaEntry) string { return m.ID }); err != nil {
		return err
	}
	for i, m := range c.Media {
		if err := validateFieldLength(fmt.Sprintf("media[%d].src", i), m.Src, MaxURLLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("media[%d].alt", i), m.Alt, MaxTextLength); err != nil {
			return err
		}
	}
	if err := validateEntries("files", c.Files, func(f FileEntry) string { return f.ID }); err != nil {
		return err
	}
	for i, f := range c.Files {
		if err := validateFieldLength(fmt.Sprintf("files[%d].uri", i), f.URI, MaxURLLength); err != nil {
			return err
		}
	}

	limits := map[string]int{
		"characterLimits.header1":     c.CharacterLimits.Header1,
		"characterLimits.header2":     c.CharacterLimits.Header2,
		"characterLimits.ctaTitle":    c.CharacterLimits.CTATitle,
		"characterLimits.ctaURL":      c.CharacterLimits.CTAURL,
		"characterLimits.description": c.CharacterLimits.Description,
		"characterLimits.videoTitle":  c.CharacterLimits.VideoTitle,
	}
	for field, v := range limits {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidValue, field, v)
		}
	}

	if c.Render.Timeout < 0 {
		return fmt.Errorf("%w: render.timeout must not be negative", ErrInvalidValue)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must not be negative", ErrInvalidValue)
	}
	for i, v := range c.Render.Viewports {
		if _, _, err := ParseViewport(v); err != nil {
			return fmt.Errorf("render.viewports[%d]: %w", i, err)
		}
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rateLimit must not be negative", ErrInvalidValue)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative", ErrInvalidValue)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q (must be json or console)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// ParseViewport parses a "WIDTHxHEIGHT" viewport such as "1280x800".
func ParseViewport(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if ok {
		_, err = fmt.Sscanf(w+" "+h, "%d %d", &width, &height)
	}
	if !ok || err != nil || width <= 0 || height <= 0 || width > 10000 || height > 10000 {
		return 0, 0, fmt.Errorf("%w: viewport %q (want WIDTHxHEIGHT)", ErrInvalidValue, s)
	}
	return width, height, nil
}

// validateEntries requires a non-empty, unique, bounded id on every entry.
func validateEntries[T any](section string, entries []T, id func(T) string) error {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		key := id(e)
		if key == "" {
			return fmt.Errorf("%w: %s[%d].id is required", ErrInvalidValue, section, i)
		}
		if err := validateFieldLength(fmt.Sprintf("%s[%d].id", section, i), key, MaxIDLength); err != nil {
			return err
		}
		if seen[key] {
			return fmt.Errorf("%w: %s[%d].id %q is duplicated", ErrInvalidValue, section, i, key)
		}
		seen[key] = true
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Defaults used when the config leaves a setting empty.
const (
	DefaultLanguage      = "en"
	DefaultRenderTimeout = 30 * time.Second
	DefaultServerAddr    = ":8080"
	DefaultMaxBodyBytes  = 1 << 20
	DefaultCacheTTL      = 10 * time.Minute
)

// DefaultConfig returns a configuration with embedded assets, no media catalog
// and the service defaults.
func DefaultConfig() *Config {
	return &Config{
		Site:   SiteConfig{Language: DefaultLanguage},
		Render: RenderConfig{Timeout: DefaultRenderTimeout},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			CacheTTL:     DefaultCacheTTL,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value. Returns error
// if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-cmsblocks/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-cmsblocks", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
