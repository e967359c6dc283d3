package cmsblocks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// themeNamespace scopes block theme ids. Ids are stable across renders of the
// same block so cached pages and their stylesheets keep matching.
var themeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/alnah/go-cmsblocks/block-theme"))

// blockThemeID derives the data-block-theme-id of a block from its document
// id and element id.
func blockThemeID(blockType BlockType, blockID, elementID string) string {
	name := string(blockType) + "\x00" + blockID + "\x00" + elementID
	return uuid.NewSHA1(themeNamespace, []byte(name)).String()
}

// blockColors are the per-block color overrides. Empty values keep the
// stylesheet defaults.
type blockColors struct {
	Background  string
	Header1     string
	Header2     string
	Description string
	CTABg       string
	CTAText     string
	AudioBg     string
}

// buildBlockStyle emits CSS custom properties scoped to one block. Returns an
// empty string when no color is overridden.
func buildBlockStyle(themeID string, c blockColors) string {
	props := []struct{ name, value string }{
		{"--block-bg", c.Background},
		{"--block-header-1-color", c.Header1},
		{"--block-header-2-color", c.Header2},
		{"--block-description-color", c.Description},
		{"--block-cta-bg", c.CTABg},
		{"--block-cta-text-color", c.CTAText},
		{"--block-audio-bg", c.AudioBg},
	}

	var buf strings.Builder
	for _, p := range props {
		v := sanitizeCSSValue(p.value)
		if v == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %s: %s;\n", p.name, v)
	}
	if buf.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("[data-block-theme-id=\"%s\"] {\n%s}\n", escapeCSSString(themeID), buf.String())
}

// sanitizeCSSValue keeps a color value from closing its declaration, its rule
// or the style element.
func sanitizeCSSValue(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ";{}<>\\\"'\n\r"); i != -1 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// escapeCSSString escapes a string for use inside a double-quoted CSS string.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
