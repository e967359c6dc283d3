package cmsblocks

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Alignment positions a block or its text.
type Alignment string

// Alignments. The empty value lets the theme decide.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignRight   Alignment = "right"
	AlignCenter  Alignment = "center"
)

func (a Alignment) valid() bool {
	switch a {
	case AlignDefault, AlignLeft, AlignRight, AlignCenter:
		return true
	}
	return false
}

// Placement puts the media above or below the text.
type Placement string

// Placements. The empty value renders as PlacementTop.
const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
)

func (p Placement) valid() bool {
	return p == "" || p == PlacementTop || p == PlacementBottom
}

// AudioSource selects where an audio block reads its file from.
type AudioSource string

// Audio sources.
const (
	AudioFromUpload AudioSource = "audio_upload"
	AudioFromURL    AudioSource = "audio_upload_url"
)

func (s AudioSource) valid() bool {
	return s == "" || s == AudioFromUpload || s == AudioFromURL
}

// Resolution splits the block width between media and text, "30:70" giving
// the media 30 percent.
type Resolution string

// Resolutions lists the accepted splits, in editor order.
var Resolutions = []Resolution{
	"10:90", "20:80", "30:70", "40:60", "50:50", "60:40", "70:30", "80:20", "90:10",
}

func (r Resolution) valid() bool {
	if r == "" {
		return true
	}
	for _, known := range Resolutions {
		if r == known {
			return true
		}
	}
	return false
}

// Text formats for FormattedText.
const (
	FormatRichText = "rich_text"
	FormatPlain    = "plain_text"
	FormatMarkdown = "markdown"
)

// FormattedText is an editor text value with its input format. In block
// documents it is either a mapping with value and format keys or a plain
// string, which keeps the default format.
type FormattedText struct {
	Value  string `yaml:"value" json:"value"`
	Format string `yaml:"format" json:"format"`
}

// UnmarshalYAML accepts the mapping and the plain string forms.
func (t *FormattedText) UnmarshalYAML(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		t.Value = v
		return nil
	case map[string]any:
		type plain FormattedText
		decoded := plain(*t)
		if err := yaml.UnmarshalWithOptions(data, &decoded, yaml.Strict()); err != nil {
			return err
		}
		*t = FormattedText(decoded)
		return nil
	default:
		return fmt.Errorf("body: expected a string or a value/format mapping, got %T", raw)
	}
}

// TextColorOverride switches every custom text color to the theme override
// color.
type TextColorOverride struct {
	OverrideColor bool `yaml:"override_color" json:"override_color"`
}

// FreeformStoryConfig holds the editor settings of a Freeform Story block.
// Keys match the stored block settings.
type FreeformStoryConfig struct {
	BlockAligned  Alignment `yaml:"block_aligned"`
	TextAlignment Alignment `yaml:"text_alignment"`

	MediaItemType MediaItemType `yaml:"media_item_type"`
	Enable3DAsset bool          `yaml:"enable_3D_asset"` // Legacy, read when media_item_type is empty
	AssetURL3D    string        `yaml:"asset_url_3D"`

	SelectAudioUploadOption AudioSource `yaml:"select_audio_upload_option"`
	FileUpload              []string    `yaml:"file_upload"` // Uploaded file ids
	FileUploadURL           string      `yaml:"file_upload_url"`
	AudioPlayerPlacement    Placement   `yaml:"audio_player_placement"`
	AudioPlayerBackground   string      `yaml:"audio_player_background"`

	Image                 string `yaml:"image"` // Media selection, "media:ID"
	VideoTitle            string `yaml:"video_title"`
	Video                 string `yaml:"video"`
	UseMobileVideo        bool   `yaml:"use_mobile_video"`
	VideoMobile           string `yaml:"video_mobile"`
	HideVolume            bool   `yaml:"hide_volume"`
	StopAutoplay          bool   `yaml:"stop_autoplay"`
	ExternalVideoURL      string `yaml:"external_video_url"`
	ExternalVideoURLTitle string `yaml:"external_video_url_title"`

	IconView                 bool       `yaml:"icon_view"`
	UseActualSize            bool       `yaml:"use_actual_size"`
	AvailableResolutions     Resolution `yaml:"available_resolutions"`
	ImageVideoPositionMobile Placement  `yaml:"image_video_position_mobile"`
	UseOriginalImage         bool       `yaml:"use_original_image"`

	Header1               string `yaml:"header_1"`
	UseCustomHeader1Color bool   `yaml:"use_custom_header_1_color"`
	CustomHeader1Color    string `yaml:"custom_header_1_color"`
	Header2               string `yaml:"header_2"`
	UseCustomHeader2Color bool   `yaml:"use_custom_header_2_color"`
	CustomHeader2Color    string `yaml:"custom_header_2_color"`
	HideGraphicDivider    bool   `yaml:"hide_graphic_divider"`

	WithCTA           bool   `yaml:"with_cta"`
	ImgClickable      bool   `yaml:"img_clickable"`
	CTATitle          string `yaml:"cta_title"`
	CTAURL            string `yaml:"cta_url"`
	CTANewWindow      bool   `yaml:"cta_new_window"`
	CTABorder         bool   `yaml:"cta_border"`
	CTARemoveGradient bool   `yaml:"cta_remove_gradian"`
	CTABgText         bool   `yaml:"cta_bg_text"`
	CTABackground     string `yaml:"cta_background"`
	CTATextColor      string `yaml:"cta_text_color"`

	ElementID                 string        `yaml:"element_id"`
	Body                      FormattedText `yaml:"body"`
	UseCustomDescriptionColor bool          `yaml:"use_custom_description_color"`
	CustomDescriptionColor    string        `yaml:"custom_description_color"`

	AddTopSpacing         bool   `yaml:"add_top_spacing"`
	AddBottomSpacing      bool   `yaml:"add_bottom_spacing"`
	BackgroundShape       bool   `yaml:"background_shape"`
	VerticalAlignment     bool   `yaml:"vertical_alignment"`
	UseCustomColor        bool   `yaml:"use_custom_color"`
	CustomBackgroundColor string `yaml:"custom_background_color"`

	OverrideBulletPoints bool   `yaml:"override_bullet_points"`
	Icon                 string `yaml:"icon"`
	IconColorOverride    string `yaml:"icon_color_override"`
	IconBgColorOverride  string `yaml:"icon_bg_color_override"`

	OverrideTextColor TextColorOverride `yaml:"override_text_color"`
}

// DefaultFreeformStoryConfig returns the settings of a newly placed block.
func DefaultFreeformStoryConfig() FreeformStoryConfig {
	return FreeformStoryConfig{
		Header1:                  "Header 1",
		Body:                     FormattedText{Format: FormatRichText},
		AudioPlayerPlacement:     PlacementTop,
		ImageVideoPositionMobile: PlacementTop,
		StopAutoplay:             true,
		HideGraphicDivider:       true,
		AddTopSpacing:            true,
		AddBottomSpacing:         true,
	}
}

// EffectiveMediaItemType returns the selected media item type, falling back
// to the legacy image and 3D asset settings when none was selected.
func (c *FreeformStoryConfig) EffectiveMediaItemType() MediaItemType {
	if c.MediaItemType != MediaItemNone {
		return c.MediaItemType
	}
	return ResolveLegacyMediaItemType(c.Image, c.Enable3DAsset)
}

// Normalize clears settings the editor hides for the current selection.
// Centered blocks drop their side layout options, and an audio block keeps
// only the source it uses.
func (c *FreeformStoryConfig) Normalize() {
	if c.BlockAligned == AlignCenter {
		c.IconView = false
		c.UseActualSize = false
		c.VerticalAlignment = false
	}
	if c.MediaItemType != MediaItemAudio {
		return
	}
	switch {
	case c.SelectAudioUploadOption == AudioFromUpload && len(c.FileUpload) > 0:
		c.FileUploadURL = ""
	case c.SelectAudioUploadOption == AudioFromURL && c.FileUploadURL != "":
		c.FileUpload = nil
	}
}

// Validate checks the settings against the editor rules and the character
// limits. All violations are reported in a single *ValidationError.
func (c *FreeformStoryConfig) Validate(limits CharacterLimits) error {
	limits = limits.withDefaults()
	var v validator

	v.check("block_aligned", c.BlockAligned.valid(), errInvalidOption(string(c.BlockAligned)))
	v.check("text_alignment", c.TextAlignment.valid(), errInvalidOption(string(c.TextAlignment)))
	v.check("media_item_type", c.MediaItemType == MediaItemNone || c.MediaItemType.valid(),
		fmt.Errorf("%w: %q", ErrInvalidMediaItemType, string(c.MediaItemType)))
	v.check("select_audio_upload_option", c.SelectAudioUploadOption.valid(), errInvalidOption(string(c.SelectAudioUploadOption)))
	v.check("audio_player_placement", c.AudioPlayerPlacement.valid(), errInvalidOption(string(c.AudioPlayerPlacement)))
	v.check("image_video_position_mobile", c.ImageVideoPositionMobile.valid(), errInvalidOption(string(c.ImageVideoPositionMobile)))
	v.check("available_resolutions", c.AvailableResolutions.valid(), errInvalidOption(string(c.AvailableResolutions)))
	v.check("body.format", validFormat(c.Body.Format), errInvalidOption(c.Body.Format))

	switch c.MediaItemType {
	case MediaItemAudio:
		v.check("file_upload", !(c.SelectAudioUploadOption == AudioFromUpload && len(c.FileUpload) == 0),
			errRequired(`Audio File Upload is required when the media item type is "audio"`))
		v.check("file_upload_url", !(c.SelectAudioUploadOption == AudioFromURL && c.FileUploadURL == ""),
			errRequired(`Audio URL is required when the media item type is "audio"`))
	case MediaItem3DAsset:
		v.check("asset_url_3D", c.AssetURL3D != "",
			errRequired(`3D Asset URL is required when the media item type is "enable_3D_asset"`))
	case MediaItemVideo:
		v.check("video_title", c.VideoTitle != "",
			errRequired(`video title is required when the media item type is "video"`))
		v.check("video_mobile", !c.UseMobileVideo || c.VideoMobile != "",
			errRequired("mobile video is required when use_mobile_video is set"))
	case MediaItemYoutubeVideo:
		v.check("external_video_url", c.ExternalVideoURL != "",
			errRequired(`external video URL is required when the media item type is "youtube"`))
	}

	if c.WithCTA && c.CTAURL != "" {
		v.check("cta_url", validLinkTarget(c.CTAURL),
			fmt.Errorf("%w: must start with \"/\", \"http://\" or \"https://\"", ErrInvalidLink))
	}

	v.length("header_1", c.Header1, limits.Header1)
	v.length("header_2", c.Header2, limits.Header2)
	v.length("cta_title", c.CTATitle, limits.CTATitle)
	v.length("cta_url", c.CTAURL, limits.CTAURL)
	v.length("body", c.Body.Value, limits.Description)
	v.length("video_title", c.VideoTitle, limits.VideoTitle)

	return v.err()
}

func validFormat(format string) bool {
	switch format {
	case "", FormatRichText, FormatPlain, FormatMarkdown:
		return true
	}
	return false
}

// validLinkTarget accepts site paths and absolute http(s) URLs.
func validLinkTarget(s string) bool {
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}

// Default character limits of the editor fields.
const (
	DefaultHeader1Limit     = 60
	DefaultHeader2Limit     = 60
	DefaultCTATitleLimit    = 15
	DefaultCTAURLLimit      = 2048
	DefaultDescriptionLimit = 1000
	DefaultVideoTitleLimit  = 60
)

// CharacterLimits caps the length of editor text fields, in characters.
// A zero field uses its default limit.
type CharacterLimits struct {
	Header1     int
	Header2     int
	CTATitle    int
	CTAURL      int
	Description int
	VideoTitle  int
}

func (l CharacterLimits) withDefaults() CharacterLimits {
	pick := func(v, def int) int {
		if v > 0 {
			return v
		}
		return def
	}
	return CharacterLimits{
		Header1:     pick(l.Header1, DefaultHeader1Limit),
		Header2:     pick(l.Header2, DefaultHeader2Limit),
		CTATitle:    pick(l.CTATitle, DefaultCTATitleLimit),
		CTAURL:      pick(l.CTAURL, DefaultCTAURLLimit),
		Description: pick(l.Description, DefaultDescriptionLimit),
		VideoTitle:  pick(l.VideoTitle, DefaultVideoTitleLimit),
	}
}

// Validation causes, matched with errors.Is on FieldError.Err.
var (
	ErrRequired      = errors.New("required")
	ErrTooLong       = errors.New("too long")
	ErrInvalidOption = errors.New("invalid option")
	ErrInvalidLink   = errors.New("invalid link")
)

func errRequired(msg string) error { return fmt.Errorf("%w: %s", ErrRequired, msg) }

func errInvalidOption(value string) error {
	return fmt.Errorf("%w: %q", ErrInvalidOption, value)
}

// FieldError is a validation failure of one setting.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e FieldError) Unwrap() error { return e.Err }

// ValidationError lists every invalid setting of a block.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Unwrap exposes the field errors.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// validator accumulates field errors in check order.
type validator struct {
	fields []FieldError
}

func (v *validator) check(field string, ok bool, err error) {
	if !ok {
		v.fields = append(v.fields, FieldError{Field: field, Err: err})
	}
}

func (v *validator) length(field, value string, limit int) {
	if n := utf8.RuneCountInString(value); n > limit {
		v.fields = append(v.fields, FieldError{
			Field: field,
			Err:   fmt.Errorf("%w: %d characters (max %d)", ErrTooLong, n, limit),
		})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
