package cmsblocks

import (
	"errors"
	"testing"
)

func TestParseBlock(t *testing.T) {
	t.Parallel()

	t.Run("freeform story keeps defaults for absent settings", func(t *testing.T) {
		t.Parallel()

		block, err := ParseBlock([]byte(`
type: freeform_story
id: homepage-story
settings:
  header_2: Since 1901
  block_aligned: right
  stop_autoplay: false
`))
		if err != nil {
			t.Fatalf("ParseBlock() error = %v", err)
		}
		if block.Type != BlockTypeFreeformStory || block.ID != "homepage-story" {
			t.Errorf("ParseBlock() = %s/%s, want freeform_story/homepage-story", block.Type, block.ID)
		}
		cfg := block.FreeformStory
		if cfg == nil {
			t.Fatal("FreeformStory settings are nil")
		}
		if cfg.Header1 != "Header 1" {
			t.Errorf("Header1 = %q, want default %q", cfg.Header1, "Header 1")
		}
		if cfg.Header2 != "Since 1901" || cfg.BlockAligned != AlignRight {
			t.Errorf("decoded settings = %q/%q", cfg.Header2, cfg.BlockAligned)
		}
		if cfg.StopAutoplay {
			t.Error("StopAutoplay should be overridden to false")
		}
		if !cfg.AddTopSpacing || !cfg.HideGraphicDivider {
			t.Error("absent boolean settings should keep their true defaults")
		}
		if cfg.Body.Format != FormatRichText {
			t.Errorf("Body.Format = %q, want %q", cfg.Body.Format, FormatRichText)
		}
		if block.CampaignBanner != nil {
			t.Error("CampaignBanner should be nil for a freeform story")
		}
	})

	t.Run("body as plain string keeps default format", func(t *testing.T) {
		t.Parallel()

		block, err := ParseBlock([]byte("type: freeform_story\nsettings:\n  body: <p>Hello</p>\n"))
		if err != nil {
			t.Fatalf("ParseBlock() error = %v", err)
		}
		want := FormattedText{Value: "<p>Hello</p>", Format: FormatRichText}
		if block.FreeformStory.Body != want {
			t.Errorf("Body = %+v, want %+v", block.FreeformStory.Body, want)
		}
	})

	t.Run("body as mapping", func(t *testing.T) {
		t.Parallel()

		block, err := ParseBlock([]byte("type: freeform_story\nsettings:\n  body:\n    value: '- one'\n    format: markdown\n"))
		if err != nil {
			t.Fatalf("ParseBlock() error = %v", err)
		}
		want := FormattedText{Value: "- one", Format: FormatMarkdown}
		if block.FreeformStory.Body != want {
			t.Errorf("Body = %+v, want %+v", block.FreeformStory.Body, want)
		}
	})

	t.Run("JSON documents", func(t *testing.T) {
		t.Parallel()

		block, err := ParseBlock([]byte(`{"type":"campaign_banner","id":"b1","settings":{"enable_url":true,"set_url":"/offers"}}`))
		if err != nil {
			t.Fatalf("ParseBlock() error = %v", err)
		}
		want := CampaignBannerConfig{EnableURL: true, SetURL: "/offers"}
		if block.CampaignBanner == nil || *block.CampaignBanner != want {
			t.Errorf("CampaignBanner = %+v, want %+v", block.CampaignBanner, want)
		}
	})

	t.Run("legacy settings without media item type", func(t *testing.T) {
		t.Parallel()

		block, err := ParseBlock([]byte("type: freeform_story\nsettings:\n  image: media:7\n"))
		if err != nil {
			t.Fatalf("ParseBlock() error = %v", err)
		}
		if got := block.FreeformStory.EffectiveMediaItemType(); got != MediaItemImage {
			t.Errorf("EffectiveMediaItemType() = %q, want %q", got, MediaItemImage)
		}
	})
}

func TestParseBlock_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrEmptyBlock},
		{"whitespace", "  \n\t", ErrEmptyBlock},
		{"missing type", "id: x\nsettings: {}\n", ErrUnknownBlockType},
		{"unknown type", "type: carousel\n", ErrUnknownBlockType},
		{"unknown setting", "type: freeform_story\nsettings:\n  header_3: nope\n", ErrBlockParse},
		{"unknown banner setting", "type: campaign_banner\nsettings:\n  target: _blank\n", ErrBlockParse},
		{"malformed YAML", "type: [freeform_story\n", ErrBlockParse},
		{"wrong value type", "type: freeform_story\nsettings:\n  add_top_spacing: [1, 2]\n", ErrBlockParse},
		{"unknown body key", "type: freeform_story\nsettings:\n  body:\n    value: x\n    colour: red\n", ErrBlockParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseBlock([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseBlock() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBlock_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		block   *Block
		wantErr error
	}{
		{
			name:  "valid freeform story",
			block: NewFreeformStoryBlock("a", DefaultFreeformStoryConfig()),
		},
		{
			name:    "invalid banner",
			block:   NewCampaignBannerBlock("b", CampaignBannerConfig{EnableURL: true}),
			wantErr: ErrValidation,
		},
		{
			name:    "type without settings",
			block:   &Block{Type: BlockTypeFreeformStory},
			wantErr: ErrUnknownBlockType,
		},
		{
			name:    "unknown type",
			block:   &Block{Type: "carousel"},
			wantErr: ErrUnknownBlockType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.block.Validate(CharacterLimits{})
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

func TestBlock_Normalize(t *testing.T) {
	t.Parallel()

	cfg := DefaultFreeformStoryConfig()
	cfg.BlockAligned = AlignCenter
	cfg.IconView = true
	block := NewFreeformStoryBlock("a", cfg)

	block.Normalize()

	if block.FreeformStory.IconView {
		t.Error("Normalize() should clear icon_view on centered blocks")
	}
	if !cfg.IconView {
		t.Error("Normalize() must not alter the config the block was built from")
	}

	// Banners have nothing to normalize.
	NewCampaignBannerBlock("b", CampaignBannerConfig{}).Normalize()
}
