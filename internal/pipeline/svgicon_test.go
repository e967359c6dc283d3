package pipeline

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// decodeDataURI strips the prefix and base64-decodes a RecolorSVG result.
func decodeDataURI(t *testing.T, uri string) string {
	t.Helper()

	if !strings.HasPrefix(uri, SVGDataURIPrefix) {
		t.Fatalf("data URI %q missing prefix %q", uri, SVGDataURIPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, SVGDataURIPrefix))
	if err != nil {
		t.Fatalf("decoding data URI: %v", err)
	}
	return string(raw)
}

func TestRecolorSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		svg      string
		bg       string
		fg       string
		expected string
	}{
		{
			name:     "sets both fills",
			svg:      "<svg><path/><path/></svg>",
			bg:       "#FF0000",
			fg:       "#00FF00",
			expected: `<svg><path fill="#FF0000"/><path fill="#00FF00"/></svg>`,
		},
		{
			name:     "replaces existing fill",
			svg:      `<svg><path d="M0 0" fill="#000"/><path fill="#111" d="M1 1"/></svg>`,
			bg:       "red",
			fg:       "blue",
			expected: `<svg><path d="M0 0" fill="red"/><path fill="blue" d="M1 1"/></svg>`,
		},
		{
			name:     "empty background keeps existing fill",
			svg:      `<svg><path fill="#000"/><path/></svg>`,
			bg:       "",
			fg:       "blue",
			expected: `<svg><path fill="#000"/><path fill="blue"/></svg>`,
		},
		{
			name:     "empty colors leave document untouched",
			svg:      `<svg viewBox="0 0 24 24"><path fill="#000"/><path/></svg>`,
			expected: `<svg viewBox="0 0 24 24"><path fill="#000"/><path/></svg>`,
		},
		{
			name:     "third path untouched",
			svg:      "<svg><path/><path/><path/></svg>",
			bg:       "a",
			fg:       "b",
			expected: `<svg><path fill="a"/><path fill="b"/><path/></svg>`,
		},
		{
			name:     "paths counted in document order across groups",
			svg:      "<svg><g><path/></g><circle/><g><path/></g></svg>",
			bg:       "a",
			fg:       "b",
			expected: `<svg><g><path fill="a"/></g><circle/><g><path fill="b"/></g></svg>`,
		},
		{
			name:     "namespaced svg keeps its prefixes",
			svg:      `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><path xlink:href="#a"/></svg>`,
			bg:       "#fff",
			expected: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><path xlink:href="#a" fill="#fff"/></svg>`,
		},
		{
			name:     "color written verbatim and escaped",
			svg:      "<svg><path/></svg>",
			bg:       `url("#g")`,
			expected: `<svg><path fill="url(&quot;#g&quot;)"/></svg>`,
		},
		{
			name:     "text content preserved",
			svg:      "<svg><title>A &amp; B</title><path/></svg>",
			bg:       "red",
			expected: `<svg><title>A &amp; B</title><path fill="red"/></svg>`,
		},
		{
			name:     "xml declaration preserved",
			svg:      `<?xml version="1.0" encoding="UTF-8"?><svg><path/></svg>`,
			bg:       "red",
			expected: `<?xml version="1.0" encoding="UTF-8"?><svg><path fill="red"/></svg>`,
		},
		{
			name:     "leading byte order mark dropped",
			svg:      "\ufeff<svg><path/><path/></svg>",
			bg:       "#FF0000",
			fg:       "#00FF00",
			expected: `<svg><path fill="#FF0000"/><path fill="#00FF00"/></svg>`,
		},
		{
			name:     "internal entities expanded",
			svg:      `<!DOCTYPE svg [<!ENTITY c "#fff">]><svg><path fill="&c;"/><path/></svg>`,
			fg:       "blue",
			expected: `<!DOCTYPE svg [<!ENTITY c "#fff">]><svg><path fill="#fff"/><path fill="blue"/></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RecolorSVG(tt.svg, tt.bg, tt.fg)
			if err != nil {
				t.Fatalf("RecolorSVG() error = %v", err)
			}
			if decoded := decodeDataURI(t, got); decoded != tt.expected {
				t.Errorf("decoded SVG = %q, want %q", decoded, tt.expected)
			}
		})
	}
}

func TestRecolorSVG_MissingPathsIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		svg  string
		bg   string
	}{
		{name: "no paths", svg: `<svg><circle r="1"/></svg>`, bg: "red"},
		{name: "one path", svg: `<svg><path d="M0"/></svg>`, bg: "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			withColor, err := RecolorSVG(tt.svg, tt.bg, "blue")
			if err != nil {
				t.Fatalf("RecolorSVG() error = %v", err)
			}
			withoutColor, err := RecolorSVG(tt.svg, tt.bg, "")
			if err != nil {
				t.Fatalf("RecolorSVG() error = %v", err)
			}
			if withColor != withoutColor {
				t.Errorf("icon color for a missing path changed output:\n%s\n%s",
					decodeDataURI(t, withColor), decodeDataURI(t, withoutColor))
			}
		})
	}
}

func TestRecolorSVG_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		svg  string
	}{
		{name: "empty", svg: ""},
		{name: "whitespace only", svg: "  \n"},
		{name: "plain text", svg: "not svg"},
		{name: "unclosed root", svg: "<svg><path/>"},
		{name: "mismatched close", svg: "<svg><g></svg></g>"},
		{name: "stray close", svg: "<svg/></g>"},
		{name: "multiple roots", svg: "<svg/><svg/>"},
		{name: "text after root", svg: "<svg/>trailing"},
		{name: "bad attribute", svg: "<svg a=1/>"},
		{name: "undeclared entity", svg: `<svg><path fill="&c;"/></svg>`},
		{name: "byte order mark only", svg: "\ufeff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RecolorSVG(tt.svg, "red", "blue")
			if !errors.Is(err, ErrMalformedSVG) {
				t.Fatalf("RecolorSVG() error = %v, want ErrMalformedSVG", err)
			}
			if got != "" {
				t.Errorf("RecolorSVG() = %q, want empty output on error", got)
			}
		})
	}
}

func TestRecolorSVG_Concurrent(t *testing.T) {
	t.Parallel()

	const svg = "<svg><path/><path/></svg>"
	want, err := RecolorSVG(svg, "red", "blue")
	if err != nil {
		t.Fatalf("RecolorSVG() error = %v", err)
	}

	errs := make(chan error, 16)
	for range 16 {
		go func() {
			got, err := RecolorSVG(svg, "red", "blue")
			if err == nil && got != want {
				err = errors.New("output differs between calls")
			}
			errs <- err
		}()
	}
	for range 16 {
		if err := <-errs; err != nil {
			t.Errorf("concurrent RecolorSVG(): %v", err)
		}
	}
}

func TestRemoveSVGFills(t *testing.T) {
	t.Parallel()

	got, err := RemoveSVGFills(`<svg fill="none"><path fill="#000" d="M0"/><rect xlink:fill="x"/></svg>`)
	if err != nil {
		t.Fatalf("RemoveSVGFills() error = %v", err)
	}
	want := `<svg><path d="M0"/><rect xlink:fill="x"/></svg>`
	if got != want {
		t.Errorf("RemoveSVGFills() = %q, want %q", got, want)
	}

	if _, err := RemoveSVGFills("<svg>"); !errors.Is(err, ErrMalformedSVG) {
		t.Errorf("RemoveSVGFills(malformed) error = %v, want ErrMalformedSVG", err)
	}
}
