package cmsblocks

import (
	"context"
	"strings"
)

// MediaParams describes a resolved media item.
type MediaParams struct {
	Src   string // Site path or absolute URL of the file
	Alt   string
	Bcove string // Brightcove video id, empty for non-video media
}

// MediaResolver looks up media referenced by block settings.
type MediaResolver interface {
	// MediaID extracts the media id from an editor selection such as
	// "media:42". Returns false when the selection names no media.
	MediaID(selection string) (string, bool)
	// MediaParams returns the media item with the given id. Returns an error
	// wrapping ErrMediaNotFound for unknown ids.
	MediaParams(ctx context.Context, id string) (MediaParams, error)
}

// Translator translates editor-entered strings into the site language.
type Translator interface {
	Translate(text string) string
}

// ThemeParser exposes the artwork and colors of the active theme.
type ThemeParser interface {
	// GraphicDivider returns the divider drawn under the first header, as
	// inline SVG markup.
	GraphicDivider() string
	// BrandShapeWithoutFill returns the brand background shape as inline SVG
	// markup with its fills removed so CSS can color it.
	BrandShapeWithoutFill() (string, error)
	// OverrideTextColor returns the color that replaces custom text colors
	// when a block enables the text color override.
	OverrideTextColor() string
}

// FileURLGenerator turns stored file URIs and site paths into URLs.
type FileURLGenerator interface {
	AbsoluteURL(uri string) string
	RelativeURL(url string) string
}

// FileStore resolves uploaded file ids.
type FileStore interface {
	// FileURI returns the stream URI of an uploaded file. Returns an error
	// wrapping ErrFileNotFound for unknown ids.
	FileURI(ctx context.Context, id string) (string, error)
}

// IconLoader reads the SVG markup of a bullet icon given its URL.
type IconLoader interface {
	LoadIcon(ctx context.Context, url string) (string, error)
}

// LighthouseSettings configures the video platform embeds.
type LighthouseSettings struct {
	APIVersion string // "v3" enables Brightcove player embeds
	PlayerID   string
	AccountID  string
}

// Site bundles the services a block build reads from. Nil fields fall back
// to no-op implementations: no media, identity translation, an empty theme,
// URLs returned unchanged, no uploaded files and no icons.
type Site struct {
	Media      MediaResolver
	Translator Translator
	Theme      ThemeParser
	URLs       FileURLGenerator
	Files      FileStore
	Icons      IconLoader
	Lighthouse LighthouseSettings
	Language   string // BCP 47 tag, used as the page language
}

func (s Site) withDefaults() Site {
	if s.Media == nil {
		s.Media = noMedia{}
	}
	if s.Translator == nil {
		s.Translator = identityTranslator{}
	}
	if s.Theme == nil {
		s.Theme = emptyTheme{}
	}
	if s.URLs == nil {
		s.URLs = identityURLs{}
	}
	if s.Files == nil {
		s.Files = noFiles{}
	}
	if s.Icons == nil {
		s.Icons = noIcons{}
	}
	if s.Language == "" {
		s.Language = "en"
	}
	return s
}

type noMedia struct{}

func (noMedia) MediaID(selection string) (string, bool) { return ParseMediaSelection(selection) }

func (noMedia) MediaParams(_ context.Context, id string) (MediaParams, error) {
	return MediaParams{}, mediaNotFound(id)
}

type identityTranslator struct{}

func (identityTranslator) Translate(text string) string { return text }

type emptyTheme struct{}

func (emptyTheme) GraphicDivider() string                 { return "" }
func (emptyTheme) BrandShapeWithoutFill() (string, error) { return "", nil }
func (emptyTheme) OverrideTextColor() string              { return "" }

type identityURLs struct{}

func (identityURLs) AbsoluteURL(uri string) string { return uri }
func (identityURLs) RelativeURL(url string) string { return url }

type noFiles struct{}

func (noFiles) FileURI(_ context.Context, id string) (string, error) {
	return "", fileNotFound(id)
}

type noIcons struct{}

func (noIcons) LoadIcon(_ context.Context, url string) (string, error) {
	return "", iconLoadError(url, ErrFileNotFound)
}

// ParseMediaSelection extracts the id from an entity browser selection.
// "media:42" and a bare "42" both yield "42". For multi-item selections
// ("media:42 media:43") the first item wins.
func ParseMediaSelection(selection string) (string, bool) {
	fields := strings.Fields(selection)
	if len(fields) == 0 {
		return "", false
	}
	first := fields[0]
	if _, id, ok := strings.Cut(first, ":"); ok {
		first = id
	}
	if first == "" {
		return "", false
	}
	return first, true
}
