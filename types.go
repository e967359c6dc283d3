package cmsblocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Viewport bounds, in CSS pixels.
const (
	MinViewportSize = 1
	MaxViewportSize = 10000
)

// Viewport is the browser window size used for a preview screenshot.
type Viewport struct {
	Width  int
	Height int
}

// Default preview viewports.
var (
	DesktopViewport = Viewport{Width: 1280, Height: 800}
	MobileViewport  = Viewport{Width: 375, Height: 812}
)

// DefaultViewports are used when PreviewSettings lists none.
var DefaultViewports = []Viewport{DesktopViewport, MobileViewport}

// ParseViewport parses "WIDTHxHEIGHT", e.g. "1280x800".
func ParseViewport(s string) (Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Viewport{}, fmt.Errorf("%w: %q: expected WIDTHxHEIGHT", ErrInvalidViewport, s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return Viewport{}, fmt.Errorf("%w: %q: expected WIDTHxHEIGHT", ErrInvalidViewport, s)
	}
	vp := Viewport{Width: width, Height: height}
	if err := vp.Validate(); err != nil {
		return Viewport{}, err
	}
	return vp, nil
}

// Validate checks both dimensions are within bounds.
func (v Viewport) Validate() error {
	if v.Width < MinViewportSize || v.Width > MaxViewportSize ||
		v.Height < MinViewportSize || v.Height > MaxViewportSize {
		return fmt.Errorf("%w: %dx%d (each side must be %d-%d)",
			ErrInvalidViewport, v.Width, v.Height, MinViewportSize, MaxViewportSize)
	}
	return nil
}

// String returns the "WIDTHxHEIGHT" form.
func (v Viewport) String() string {
	return strconv.Itoa(v.Width) + "x" + strconv.Itoa(v.Height)
}

// PreviewSettings requests PNG screenshots of the rendered block.
type PreviewSettings struct {
	Viewports []Viewport // Empty uses DefaultViewports
}

// Validate checks every viewport.
func (p *PreviewSettings) Validate() error {
	if p == nil {
		return nil
	}
	for _, vp := range p.Viewports {
		if err := vp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *PreviewSettings) viewports() []Viewport {
	if len(p.Viewports) == 0 {
		return DefaultViewports
	}
	return p.Viewports
}

// Input contains the data for a single render.
type Input struct {
	Block    *Block           // Required
	FullPage bool             // Wrap the block into a standalone HTML page
	Title    string           // Page title, defaults to the block id
	Preview  *PreviewSettings // Nil skips screenshots; implies FullPage
}

// Preview is a screenshot of a rendered block.
type Preview struct {
	Viewport Viewport
	PNG      []byte
}

// RenderResult contains the output of a render.
type RenderResult struct {
	HTML     []byte
	Previews []Preview // One per requested viewport, in request order
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout        time.Duration
	assetPath      string
	styleInput     string
	resolvedStyle  string
	templateSet    *TemplateSet
	templateSetRef string
	baseURL        string
}

// defaultTimeout bounds preview capture when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the preview capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cmsblocks: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithAssetPath loads templates and stylesheets from a directory, falling
// back to the embedded defaults for anything it lacks.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(r *Renderer) {
		r.publicAssetLoader = loader
	}
}

// WithStyle selects the page stylesheet: a style name resolved by the asset
// loader, a path to a CSS file, or CSS content.
func WithStyle(nameOrPathOrCSS string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = nameOrPathOrCSS
	}
}

// WithTemplateSet uses ts instead of loading a template set.
func WithTemplateSet(ts *TemplateSet) Option {
	return func(r *Renderer) {
		r.cfg.templateSet = ts
	}
}

// WithTemplateSetName loads the named template set from the asset loader.
func WithTemplateSetName(name string) Option {
	return func(r *Renderer) {
		r.cfg.templateSetRef = name
	}
}

// WithSite sets the services blocks read media, translations and theme
// artwork from.
func WithSite(site Site) Option {
	return func(r *Renderer) {
		r.site = site
	}
}

// WithCharacterLimits overrides the editor field limits used by validation.
func WithCharacterLimits(limits CharacterLimits) Option {
	return func(r *Renderer) {
		r.limits = limits
	}
}

// WithBaseURL resolves relative URLs of the rendered markup against baseURL,
// so the output works outside the site.
func WithBaseURL(baseURL string) Option {
	return func(r *Renderer) {
		r.cfg.baseURL = baseURL
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}
