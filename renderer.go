package cmsblocks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cmsblocks/internal/assets"
	"github.com/alnah/go-cmsblocks/internal/fileutil"
	"github.com/alnah/go-cmsblocks/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector        = (*pipeline.CSSInjection)(nil)
	_ pipeline.BulletIconInjector = (*pipeline.BulletInjection)(nil)
	_ pipeline.BodyConverter      = (*pipeline.GoldmarkConverter)(nil)
	_ previewer                   = (*rodPreviewer)(nil)
)

// Renderer turns block documents into HTML and optional PNG previews.
// Create with NewRenderer, use Render, and Close when done.
//
// Render is safe for concurrent use when no preview is requested. Previews
// share one browser, so batch preview work should use a RendererPool.
type Renderer struct {
	cfg               rendererConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	site              Site
	limits            CharacterLimits
	logger            zerolog.Logger
	cssInjector       pipeline.CSSInjector
	freeform          *FreeformStoryBuilder
	templates         *blockTemplates
	previewer         previewer
}

// publicToInternalAdapter wraps a public AssetLoader as an internal one.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadTemplateSet(name string) (*assets.TemplateSet, error) {
	ts, err := a.pub.LoadTemplateSet(name)
	if err != nil {
		return nil, err
	}
	return &assets.TemplateSet{
		Name:           ts.Name,
		FreeformStory:  ts.FreeformStory,
		CampaignBanner: ts.CampaignBanner,
		Page:           ts.Page,
	}, nil
}

// NewRenderer creates a Renderer with embedded templates and stylesheet.
// Returns error if asset loading or template parsing fails.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:         rendererConfig{timeout: defaultTimeout},
		assetLoader: assets.NewEmbeddedLoader(),
		logger:      zerolog.Nop(),
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.assetLoader = resolver
	}
	if r.publicAssetLoader != nil {
		r.assetLoader = &publicToInternalAdapter{pub: r.publicAssetLoader}
	}

	if err := r.resolveStyle(); err != nil {
		return nil, err
	}

	ts := r.cfg.templateSet
	if ts == nil {
		name := r.cfg.templateSetRef
		if name == "" {
			name = DefaultTemplateSet
		}
		loaded, err := r.assetLoader.LoadTemplateSet(name)
		if err != nil {
			return nil, fmt.Errorf("loading template set %q: %w", name, convertAssetError(err))
		}
		ts = NewTemplateSet(loaded.Name, loaded.FreeformStory, loaded.CampaignBanner, loaded.Page)
	}
	templates, err := parseTemplateSet(ts)
	if err != nil {
		return nil, err
	}
	r.templates = templates

	r.site = r.site.withDefaults()
	if r.freeform == nil {
		r.freeform = NewFreeformStoryBuilder(r.site)
	}
	if r.previewer == nil {
		r.previewer = newRodPreviewer(r.cfg.timeout, r.logger)
	}

	return r, nil
}

// Render validates, builds and renders a block. The context is used for
// cancellation and bounds preview capture.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *RenderResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if err := r.validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	block := input.Block
	log := r.logger.With().Str("block_type", string(block.Type)).Str("block_id", block.ID).Logger()

	fragment, err := r.renderBlock(ctx, block)
	if err != nil {
		return nil, err
	}

	out := fragment
	if input.FullPage || input.Preview != nil {
		title := input.Title
		if title == "" {
			title = block.ID
		}
		out, err = execute(r.templates.page, pageData{
			Language: r.site.Language,
			Title:    title,
			Style:    r.cfg.resolvedStyle,
			Block:    fragment,
		})
		if err != nil {
			return nil, err
		}
	}

	out, err = pipeline.RewriteRelativeURLs(out, r.cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("rewriting relative URLs: %w", err)
	}

	res := &RenderResult{HTML: []byte(out)}

	if input.Preview != nil {
		previews, err := r.previewer.Capture(ctx, out, input.Preview.viewports())
		if err != nil {
			return nil, fmt.Errorf("capturing previews: %w", err)
		}
		res.Previews = previews
	}

	log.Debug().
		Int("bytes", len(res.HTML)).
		Int("previews", len(res.Previews)).
		Dur("elapsed", time.Since(start)).
		Msg("block rendered")

	return res, nil
}

// renderBlock returns the block markup with its color overrides.
func (r *Renderer) renderBlock(ctx context.Context, block *Block) (string, error) {
	switch block.Type {
	case BlockTypeFreeformStory:
		cfg := *block.FreeformStory
		cfg.Normalize()
		view, err := r.freeform.Build(ctx, block.ID, &cfg)
		if err != nil {
			return "", err
		}
		markup, err := execute(r.templates.freeformStory, view)
		if err != nil {
			return "", err
		}
		markup = r.cssInjector.InjectCSS(ctx, markup, view.HeadStyle, "block-style-"+view.ThemeID)
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return markup, nil
	case BlockTypeCampaignBanner:
		return execute(r.templates.campaignBanner, block.CampaignBanner.Build())
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBlockType, string(block.Type))
	}
}

// Close releases resources (headless Chrome browser).
func (r *Renderer) Close() error {
	if r.previewer != nil {
		return r.previewer.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. Without a style input, the built-in stylesheet is used.
func (r *Renderer) resolveStyle() error {
	input := r.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		r.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		r.cfg.resolvedStyle = input
		return nil
	}

	css, err := r.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	r.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that the block is present and valid.
//
// This is a TRUST BOUNDARY for library users who build Input manually. CLI
// and HTTP inputs come from ParseBlock and are validated here as well.
func (r *Renderer) validateInput(input Input) error {
	if input.Block == nil {
		return ErrEmptyBlock
	}
	if err := input.Block.Validate(r.limits); err != nil {
		return err
	}
	return input.Preview.Validate()
}
