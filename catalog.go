package cmsblocks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alnah/go-cmsblocks/internal/fileutil"
)

// MediaCatalog is an in-memory MediaResolver keyed by media id.
type MediaCatalog map[string]MediaParams

// MediaID implements MediaResolver.
func (MediaCatalog) MediaID(selection string) (string, bool) {
	return ParseMediaSelection(selection)
}

// MediaParams implements MediaResolver.
func (c MediaCatalog) MediaParams(ctx context.Context, id string) (MediaParams, error) {
	if err := ctx.Err(); err != nil {
		return MediaParams{}, err
	}
	params, ok := c[id]
	if !ok {
		return MediaParams{}, mediaNotFound(id)
	}
	return params, nil
}

// FileCatalog is an in-memory FileStore mapping file ids to stream URIs.
type FileCatalog map[string]string

// FileURI implements FileStore.
func (c FileCatalog) FileURI(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	uri, ok := c[id]
	if !ok {
		return "", fileNotFound(id)
	}
	return uri, nil
}

// DefaultPublicFilesPath is where "public://" URIs are served from.
const DefaultPublicFilesPath = "/sites/default/files"

// SiteURLs resolves file URIs and site paths against the site base URL.
type SiteURLs struct {
	base        *url.URL
	publicFiles string
}

// NewSiteURLs creates a SiteURLs for an absolute base URL such as
// "https://www.example.com". An empty publicFilesPath uses
// DefaultPublicFilesPath.
func NewSiteURLs(baseURL, publicFilesPath string) (*SiteURLs, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid site base URL %q: must be an absolute URL", baseURL)
	}
	if publicFilesPath == "" {
		publicFilesPath = DefaultPublicFilesPath
	}
	return &SiteURLs{
		base:        base,
		publicFiles: "/" + strings.Trim(publicFilesPath, "/"),
	}, nil
}

// AbsoluteURL implements FileURLGenerator. "public://a.mp3" maps under the
// public files path, site paths are joined to the base URL and absolute URLs
// are returned unchanged.
func (s *SiteURLs) AbsoluteURL(uri string) string {
	if uri == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(uri, "public://"); ok {
		uri = s.publicFiles + "/" + strings.TrimLeft(rest, "/")
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	if ref.IsAbs() {
		return uri
	}
	if !strings.HasPrefix(ref.Path, "/") {
		ref.Path = "/" + ref.Path
	}
	return s.base.ResolveReference(ref).String()
}

// RelativeURL implements FileURLGenerator. URLs on the site host lose their
// scheme and host. Other URLs are returned unchanged.
func (s *SiteURLs) RelativeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || !strings.EqualFold(u.Host, s.base.Host) {
		return raw
	}
	rel := u.EscapedPath()
	if rel == "" {
		rel = "/"
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		rel += "#" + u.EscapedFragment()
	}
	return rel
}

// DirIconLoader reads icons from the directory served at the site root.
type DirIconLoader struct {
	Root string
}

// LoadIcon implements IconLoader. Only the path of iconURL is used, and it
// must stay inside Root.
func (d DirIconLoader) LoadIcon(ctx context.Context, iconURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := iconURL
	if u, err := url.Parse(iconURL); err == nil {
		path = u.Path
	}
	data, err := fileutil.ReadFileWithin(d.Root, path)
	if err != nil {
		return "", iconLoadError(iconURL, err)
	}
	return string(data), nil
}

// StaticTheme is a ThemeParser over preloaded artwork.
type StaticTheme struct {
	Divider    string // Inline SVG markup
	BrandShape string // Inline SVG markup, fills are stripped on read
	TextColor  string
}

// GraphicDivider implements ThemeParser.
func (t StaticTheme) GraphicDivider() string { return t.Divider }

// BrandShapeWithoutFill implements ThemeParser.
func (t StaticTheme) BrandShapeWithoutFill() (string, error) {
	if t.BrandShape == "" {
		return "", nil
	}
	return RemoveSVGFills(t.BrandShape)
}

// OverrideTextColor implements ThemeParser.
func (t StaticTheme) OverrideTextColor() string { return t.TextColor }

func mediaNotFound(id string) error {
	return fmt.Errorf("%w: %q", ErrMediaNotFound, id)
}

func fileNotFound(id string) error {
	return fmt.Errorf("%w: %q", ErrFileNotFound, id)
}

func iconLoadError(iconURL string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIconLoad, iconURL, err)
}

var (
	_ MediaResolver    = MediaCatalog(nil)
	_ FileStore        = FileCatalog(nil)
	_ FileURLGenerator = (*SiteURLs)(nil)
	_ IconLoader       = DirIconLoader{}
	_ ThemeParser      = StaticTheme{}
)
