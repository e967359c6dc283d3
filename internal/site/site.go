// Package site assembles the services a block render reads from out of the
// site configuration file.
package site

import (
	"errors"
	"fmt"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/config"
	"github.com/alnah/go-cmsblocks/internal/fileutil"
	"github.com/alnah/go-cmsblocks/internal/i18n"
)

// ErrThemeLoad is returned when theme artwork cannot be read.
var ErrThemeLoad = errors.New("failed to load theme artwork")

// Bundle is a configured site plus the render settings derived from it.
type Bundle struct {
	Site      cmsblocks.Site
	Limits    cmsblocks.CharacterLimits
	Viewports []cmsblocks.Viewport
}

// FromConfig builds the media and file catalogs, URL generator, icon loader,
// theme and translator described by cfg.
func FromConfig(cfg *config.Config) (*Bundle, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	lang := cfg.Site.Language
	if lang == "" {
		lang = config.DefaultLanguage
	}

	translator, err := i18n.New(lang, catalogs(cfg.Translations))
	if err != nil {
		return nil, err
	}

	theme, err := loadTheme(cfg.Site.AppRoot, cfg.Theme)
	if err != nil {
		return nil, err
	}

	s := cmsblocks.Site{
		Media:      mediaCatalog(cfg.Media),
		Translator: translator,
		Theme:      theme,
		Files:      fileCatalog(cfg.Files),
		Lighthouse: cmsblocks.LighthouseSettings{
			APIVersion: cfg.Lighthouse.APIVersion,
			PlayerID:   cfg.Lighthouse.PlayerID,
			AccountID:  cfg.Lighthouse.AccountID,
		},
		Language: lang,
	}
	if cfg.Site.BaseURL != "" {
		urls, err := cmsblocks.NewSiteURLs(cfg.Site.BaseURL, "")
		if err != nil {
			return nil, err
		}
		s.URLs = urls
	}
	if cfg.Site.AppRoot != "" {
		s.Icons = cmsblocks.DirIconLoader{Root: cfg.Site.AppRoot}
	}

	viewports := make([]cmsblocks.Viewport, 0, len(cfg.Render.Viewports))
	for _, v := range cfg.Render.Viewports {
		vp, err := cmsblocks.ParseViewport(v)
		if err != nil {
			return nil, err
		}
		viewports = append(viewports, vp)
	}

	return &Bundle{
		Site:      s,
		Limits:    Limits(cfg.CharacterLimits),
		Viewports: viewports,
	}, nil
}

// Limits converts configured character limits. Zero keeps the editor default.
func Limits(c config.CharacterLimitsConfig) cmsblocks.CharacterLimits {
	return cmsblocks.CharacterLimits{
		Header1:     c.Header1,
		Header2:     c.Header2,
		CTATitle:    c.CTATitle,
		CTAURL:      c.CTAURL,
		Description: c.Description,
		VideoTitle:  c.VideoTitle,
	}
}

// RendererOptions returns the renderer options for cfg and b.
func RendererOptions(cfg *config.Config, b *Bundle) []cmsblocks.Option {
	opts := []cmsblocks.Option{
		cmsblocks.WithSite(b.Site),
		cmsblocks.WithCharacterLimits(b.Limits),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cmsblocks.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Style != "" {
		opts = append(opts, cmsblocks.WithStyle(cfg.Assets.Style))
	}
	if cfg.Assets.TemplateSet != "" {
		opts = append(opts, cmsblocks.WithTemplateSetName(cfg.Assets.TemplateSet))
	}
	if cfg.Render.Timeout > 0 {
		opts = append(opts, cmsblocks.WithTimeout(cfg.Render.Timeout))
	}
	return opts
}

func mediaCatalog(entries []config.MediaEntry) cmsblocks.MediaCatalog {
	c := make(cmsblocks.MediaCatalog, len(entries))
	for _, m := range entries {
		c[m.ID] = cmsblocks.MediaParams{Src: m.Src, Alt: m.Alt, Bcove: m.Bcove}
	}
	return c
}

func fileCatalog(entries []config.FileEntry) cmsblocks.FileCatalog {
	c := make(cmsblocks.FileCatalog, len(entries))
	for _, f := range entries {
		c[f.ID] = f.URI
	}
	return c
}

func catalogs(translations map[string]config.Messages) map[string]map[string]string {
	out := make(map[string]map[string]string, len(translations))
	for lang, msgs := range translations {
		out[lang] = msgs
	}
	return out
}

// loadTheme reads the divider and brand shape SVG files from appRoot.
func loadTheme(appRoot string, t config.ThemeConfig) (cmsblocks.StaticTheme, error) {
	theme := cmsblocks.StaticTheme{TextColor: t.OverrideTextColor}

	read := func(name, rel string) (string, error) {
		if rel == "" {
			return "", nil
		}
		if appRoot == "" {
			return "", fmt.Errorf("%w: theme.%s requires site.appRoot", ErrThemeLoad, name)
		}
		data, err := fileutil.ReadFileWithin(appRoot, rel)
		if err != nil {
			return "", fmt.Errorf("%w: theme.%s: %w", ErrThemeLoad, name, err)
		}
		return string(data), nil
	}

	var err error
	if theme.Divider, err = read("graphicDivider", t.GraphicDivider); err != nil {
		return theme, err
	}
	if theme.BrandShape, err = read("brandShape", t.BrandShape); err != nil {
		return theme, err
	}
	if theme.BrandShape != "" {
		if _, err := cmsblocks.RemoveSVGFills(theme.BrandShape); err != nil {
			return theme, fmt.Errorf("%w: theme.brandShape: %w", ErrThemeLoad, err)
		}
	}
	return theme, nil
}
