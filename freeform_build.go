package cmsblocks

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-cmsblocks/internal/pipeline"
)

// brightcovePlayerScript is the player loader URL, filled with the account
// and player ids.
const brightcovePlayerScript = "https://players.brightcove.net/%s/%s_default/index.min.js"

// lighthouseV3 is the API version that enables Brightcove embeds.
const lighthouseV3 = "v3"

// MediaEmbed describes a Brightcove player embed.
type MediaEmbed struct {
	Video     bool
	Src       string
	VideoID   string
	AccountID string
	Player    string
	Embed     string
	ScriptSrc string
}

// CTAView is the call to action link of a block.
type CTAView struct {
	Title  string
	URL    string
	Target string // "_blank" or "_self"
	Border string // "yes_border" or "no_border"
}

// FreeformStoryView is the template data of a Freeform Story.
type FreeformStoryView struct {
	ThemeID   string
	HeadStyle string // Scoped color overrides, injected by the renderer

	ElementID                string
	BlockAligned             string
	TextAlignment            string
	AvailableResolutions     string
	ImageVideoPositionMobile string
	BackgroundShape          string // "true" or "false"
	AddTopSpacing            string // "true" or "false"
	AddBottomSpacing         string // "true" or "false"
	VerticalAlignment        bool
	IconView                 bool
	UseActualSize            bool
	BrandShape               template.HTML
	GraphicDivider           template.HTML
	HideGraphicDivider       bool

	Header1              string
	Header2              string
	Body                 template.HTML
	OverrideBulletPoints bool

	WithCTA           bool
	CTA               *CTAView // Nil unless WithCTA
	CTARemoveGradient string   // "cta_remove_gradian" or ""
	ImgClickable      bool

	MediaItemType    string
	Image            string
	ImageAlt         string
	UseOriginalImage bool

	Media          *MediaEmbed
	MediaMobile    *MediaEmbed
	VideoTitle     string
	VideoSrc       string
	VideoSrcMobile string
	UseMobileVideo bool
	HideVolume     bool
	StopAutoplay   bool

	ExternalVideoURL      string
	ExternalVideoURLTitle string
	AssetURL3D            string

	AudioURL              string
	AudioPlayerPlacement  string
	AudioPlayerBackground string

	UseCustomColor            bool
	CustomBackgroundColor     string
	UseCustomHeader1Color     bool
	UseCustomHeader2Color     bool
	UseCustomDescriptionColor bool
	TextColorOverride         string
	CustomHeader1Color        string
	CustomHeader2Color        string
	CustomDescriptionColor    string
	UseCTABackgroundTextColor bool
}

// FreeformStoryBuilder maps Freeform Story settings to template data.
type FreeformStoryBuilder struct {
	site     Site
	bullets  pipeline.BulletIconInjector
	markdown pipeline.BodyConverter
}

// NewFreeformStoryBuilder creates a builder reading from site. Nil site
// services fall back to no-op implementations.
func NewFreeformStoryBuilder(site Site) *FreeformStoryBuilder {
	return &FreeformStoryBuilder{
		site:     site.withDefaults(),
		bullets:  pipeline.NewBulletInjection(),
		markdown: pipeline.NewGoldmarkConverter(),
	}
}

// Build resolves media, translations and theme artwork for cfg. blockID
// feeds the block theme id. Missing media are left out of the view. A bullet
// icon that cannot be loaded or parsed fails the build.
func (b *FreeformStoryBuilder) Build(ctx context.Context, blockID string, cfg *FreeformStoryConfig) (*FreeformStoryView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := b.site

	v := &FreeformStoryView{
		ElementID:                 cfg.ElementID,
		BlockAligned:              string(cfg.BlockAligned),
		TextAlignment:             string(cfg.TextAlignment),
		AvailableResolutions:      string(cfg.AvailableResolutions),
		BackgroundShape:           boolString(cfg.BackgroundShape),
		AddTopSpacing:             boolString(cfg.AddTopSpacing),
		AddBottomSpacing:          boolString(cfg.AddBottomSpacing),
		VerticalAlignment:         cfg.VerticalAlignment,
		IconView:                  cfg.IconView,
		UseActualSize:             cfg.UseActualSize,
		GraphicDivider:            template.HTML(s.Theme.GraphicDivider()), // #nosec G203 -- theme artwork is trusted
		HideGraphicDivider:        cfg.HideGraphicDivider,
		Header1:                   s.Translator.Translate(cfg.Header1),
		Header2:                   s.Translator.Translate(cfg.Header2),
		OverrideBulletPoints:      cfg.OverrideBulletPoints,
		WithCTA:                   cfg.WithCTA,
		MediaItemType:             string(cfg.EffectiveMediaItemType()),
		UseOriginalImage:          cfg.UseOriginalImage,
		VideoTitle:                cfg.VideoTitle,
		UseMobileVideo:            cfg.UseMobileVideo,
		ExternalVideoURL:          cfg.ExternalVideoURL,
		ExternalVideoURLTitle:     cfg.ExternalVideoURLTitle,
		AssetURL3D:                cfg.AssetURL3D,
		AudioPlayerPlacement:      string(cfg.AudioPlayerPlacement),
		AudioPlayerBackground:     cfg.AudioPlayerBackground,
		UseCustomColor:            cfg.UseCustomColor,
		CustomBackgroundColor:     cfg.CustomBackgroundColor,
		UseCustomHeader1Color:     cfg.UseCustomHeader1Color,
		UseCustomHeader2Color:     cfg.UseCustomHeader2Color,
		UseCustomDescriptionColor: cfg.UseCustomDescriptionColor,
		UseCTABackgroundTextColor: cfg.CTABgText,
		ImageVideoPositionMobile:  string(cfg.ImageVideoPositionMobile),
	}
	if v.ImageVideoPositionMobile == "" {
		v.ImageVideoPositionMobile = string(PlacementTop)
	}

	if cfg.WithCTA {
		v.CTA = &CTAView{
			Title:  s.Translator.Translate(cfg.CTATitle),
			URL:    cfg.CTAURL,
			Target: pick(cfg.CTANewWindow, "_blank", "_self"),
			Border: pick(cfg.CTABorder, "yes_border", "no_border"),
		}
	}
	if cfg.CTARemoveGradient {
		v.CTARemoveGradient = "cta_remove_gradian"
	}
	if cfg.MediaItemType == MediaItemImage && cfg.WithCTA {
		v.ImgClickable = cfg.ImgClickable
	}

	if err := b.resolveImage(ctx, cfg, v); err != nil {
		return nil, err
	}
	if err := b.resolveVideos(ctx, cfg, v); err != nil {
		return nil, err
	}
	if err := b.resolveAudio(ctx, cfg, v); err != nil {
		return nil, err
	}

	body, err := b.buildBody(ctx, cfg)
	if err != nil {
		return nil, err
	}
	v.Body = template.HTML(body) // #nosec G203 -- editor rich text is trusted markup

	if cfg.BackgroundShape {
		shape, err := s.Theme.BrandShapeWithoutFill()
		if err != nil {
			return nil, fmt.Errorf("loading brand shape: %w", err)
		}
		v.BrandShape = template.HTML(shape) // #nosec G203 -- theme artwork is trusted
	}

	b.resolveTextColors(cfg, v)

	v.ThemeID = blockThemeID(BlockTypeFreeformStory, blockID, cfg.ElementID)
	v.HeadStyle = buildBlockStyle(v.ThemeID, blockColors{
		Background:  pick(cfg.UseCustomColor, cfg.CustomBackgroundColor, ""),
		Header1:     v.CustomHeader1Color,
		Header2:     v.CustomHeader2Color,
		Description: v.CustomDescriptionColor,
		CTABg:       pick(cfg.CTABgText, cfg.CTABackground, ""),
		CTAText:     pick(cfg.CTABgText, cfg.CTATextColor, ""),
		AudioBg:     cfg.AudioPlayerBackground,
	})

	return v, nil
}

// lookupMedia resolves an editor selection. A selection naming no media or
// an unknown media id yields ok == false.
func (b *FreeformStoryBuilder) lookupMedia(ctx context.Context, selection string) (params MediaParams, ok bool, err error) {
	if selection == "" {
		return MediaParams{}, false, nil
	}
	id, found := b.site.Media.MediaID(selection)
	if !found {
		return MediaParams{}, false, nil
	}
	params, err = b.site.Media.MediaParams(ctx, id)
	if errors.Is(err, ErrMediaNotFound) {
		return MediaParams{}, false, nil
	}
	if err != nil {
		return MediaParams{}, false, fmt.Errorf("resolving media %q: %w", id, err)
	}
	return params, true, nil
}

func (b *FreeformStoryBuilder) resolveImage(ctx context.Context, cfg *FreeformStoryConfig, v *FreeformStoryView) error {
	params, ok, err := b.lookupMedia(ctx, cfg.Image)
	if err != nil {
		return err
	}
	if ok && params.Src != "" {
		v.Image = params.Src
		v.ImageAlt = params.Alt
	}
	return nil
}

func (b *FreeformStoryBuilder) resolveVideos(ctx context.Context, cfg *FreeformStoryConfig, v *FreeformStoryView) error {
	if cfg.Video != "" {
		embed, src, err := b.resolveVideo(ctx, cfg.Video)
		if err != nil {
			return err
		}
		v.Media = embed
		v.VideoSrc = src
		v.HideVolume = cfg.HideVolume
		v.StopAutoplay = cfg.StopAutoplay
	}
	if cfg.VideoMobile != "" {
		embed, src, err := b.resolveVideo(ctx, cfg.VideoMobile)
		if err != nil {
			return err
		}
		v.MediaMobile = embed
		v.VideoSrcMobile = src
	}
	return nil
}

// resolveVideo returns the Brightcove embed of a video when the Lighthouse
// v3 API is enabled and the media carries a Brightcove id, and the absolute
// URL of the video file.
func (b *FreeformStoryBuilder) resolveVideo(ctx context.Context, selection string) (*MediaEmbed, string, error) {
	params, ok, err := b.lookupMedia(ctx, selection)
	if err != nil || !ok {
		return nil, "", err
	}

	var embed *MediaEmbed
	lh := b.site.Lighthouse
	if lh.APIVersion == lighthouseV3 && params.Bcove != "" {
		embed = &MediaEmbed{
			Video:     true,
			Src:       params.Src,
			VideoID:   params.Bcove,
			AccountID: lh.AccountID,
			Player:    lh.PlayerID,
			Embed:     "default",
			ScriptSrc: fmt.Sprintf(brightcovePlayerScript, lh.AccountID, lh.PlayerID),
		}
	}
	return embed, b.site.URLs.AbsoluteURL(params.Src), nil
}

func (b *FreeformStoryBuilder) resolveAudio(ctx context.Context, cfg *FreeformStoryConfig, v *FreeformStoryView) error {
	switch {
	case cfg.SelectAudioUploadOption == AudioFromUpload && len(cfg.FileUpload) > 0:
		uri, err := b.site.Files.FileURI(ctx, cfg.FileUpload[0])
		if errors.Is(err, ErrFileNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolving audio file %q: %w", cfg.FileUpload[0], err)
		}
		v.AudioURL = b.site.URLs.RelativeURL(b.site.URLs.AbsoluteURL(uri))
	case cfg.SelectAudioUploadOption == AudioFromURL && cfg.FileUploadURL != "":
		v.AudioURL = cfg.FileUploadURL
	}
	return nil
}

// buildBody translates the body, converts markdown bodies to HTML and
// replaces list markers with the configured icon.
func (b *FreeformStoryBuilder) buildBody(ctx context.Context, cfg *FreeformStoryConfig) (string, error) {
	body := b.site.Translator.Translate(cfg.Body.Value)
	if cfg.Body.Format == FormatMarkdown && body != "" {
		converted, err := b.markdown.ToHTML(ctx, body)
		if err != nil {
			return "", fmt.Errorf("converting body: %w", err)
		}
		body = converted
	}

	if !cfg.OverrideBulletPoints || cfg.Icon == "" {
		return body, nil
	}
	params, ok, err := b.lookupMedia(ctx, cfg.Icon)
	if err != nil {
		return "", err
	}
	if !ok || params.Src == "" {
		return body, nil
	}
	iconURL := b.site.URLs.AbsoluteURL(params.Src)
	if !strings.Contains(iconURL, "svg") {
		return body, nil
	}

	svg, err := b.site.Icons.LoadIcon(ctx, iconURL)
	if err != nil {
		if !errors.Is(err, ErrIconLoad) {
			err = iconLoadError(iconURL, err)
		}
		return "", err
	}
	dataURI, err := pipeline.RecolorSVG(svg, cfg.IconBgColorOverride, cfg.IconColorOverride)
	if err != nil {
		return "", fmt.Errorf("recoloring bullet icon %s: %w", iconURL, err)
	}
	return b.bullets.InjectBulletIcons(ctx, body, dataURI), nil
}

// resolveTextColors applies the theme text color override, which replaces
// every custom text color, or else the custom colors that are switched on.
func (b *FreeformStoryBuilder) resolveTextColors(cfg *FreeformStoryConfig, v *FreeformStoryView) {
	if cfg.OverrideTextColor.OverrideColor {
		v.TextColorOverride = b.site.Theme.OverrideTextColor()
	}
	if v.TextColorOverride != "" {
		v.CustomHeader1Color = v.TextColorOverride
		v.CustomHeader2Color = v.TextColorOverride
		v.CustomDescriptionColor = v.TextColorOverride
		return
	}
	v.CustomHeader1Color = pick(cfg.UseCustomHeader1Color, cfg.CustomHeader1Color, "")
	v.CustomHeader2Color = pick(cfg.UseCustomHeader2Color, cfg.CustomHeader2Color, "")
	v.CustomDescriptionColor = pick(cfg.UseCustomDescriptionColor, cfg.CustomDescriptionColor, "")
}

func boolString(b bool) string {
	return pick(b, "true", "false")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
