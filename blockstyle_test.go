package cmsblocks

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBlockThemeID(t *testing.T) {
	t.Parallel()

	a := blockThemeID(BlockTypeFreeformStory, "story", "intro")
	if a != blockThemeID(BlockTypeFreeformStory, "story", "intro") {
		t.Error("blockThemeID() should be stable for the same block")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("blockThemeID() = %q is not a UUID: %v", a, err)
	}

	others := []string{
		blockThemeID(BlockTypeCampaignBanner, "story", "intro"),
		blockThemeID(BlockTypeFreeformStory, "story2", "intro"),
		blockThemeID(BlockTypeFreeformStory, "story", "outro"),
		blockThemeID(BlockTypeFreeformStory, "storyi", "ntro"),
	}
	for _, other := range others {
		if other == a {
			t.Errorf("blockThemeID() collision: %q", other)
		}
	}
}

func TestBuildBlockStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		colors     blockColors
		wantEmpty  bool
		contains   []string
		notContain []string
	}{
		{
			name:      "no colors",
			wantEmpty: true,
		},
		{
			name:      "whitespace only",
			colors:    blockColors{Background: "   "},
			wantEmpty: true,
		},
		{
			name:   "background and headers",
			colors: blockColors{Background: "#f5f1e8", Header1: "#0a0a0a", Header2: "rgb(1, 2, 3)"},
			contains: []string{
				`[data-block-theme-id="id-1"] {`,
				"--block-bg: #f5f1e8;",
				"--block-header-1-color: #0a0a0a;",
				"--block-header-2-color: rgb(1, 2, 3);",
			},
			notContain: []string{"--block-description-color", "--block-cta-bg"},
		},
		{
			name:   "cta and audio",
			colors: blockColors{CTABg: "#111", CTAText: "#eee", AudioBg: "#222"},
			contains: []string{
				"--block-cta-bg: #111;",
				"--block-cta-text-color: #eee;",
				"--block-audio-bg: #222;",
			},
		},
		{
			name:       "injection is truncated",
			colors:     blockColors{Background: "red; } body { display: none"},
			contains:   []string{"--block-bg: red;"},
			notContain: []string{"display", "body"},
		},
		{
			name:       "style element cannot be closed",
			colors:     blockColors{Description: "blue</style><script>"},
			contains:   []string{"--block-description-color: blue;"},
			notContain: []string{"</style>", "<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildBlockStyle("id-1", tt.colors)
			if tt.wantEmpty {
				if got != "" {
					t.Errorf("buildBlockStyle() = %q, want empty", got)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("buildBlockStyle() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContain {
				if strings.Contains(got, unwanted) {
					t.Errorf("buildBlockStyle() should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestEscapeCSSString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`a"b`, `a\"b`},
		{`a\b`, `a\\b`},
		{"a\nb", `a\A b`},
		{"a\r\nb", `a\A b`},
	}

	for _, tt := range tests {
		if got := escapeCSSString(tt.in); got != tt.want {
			t.Errorf("escapeCSSString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
