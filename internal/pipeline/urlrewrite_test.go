package pipeline

import "testing"

func TestRewriteRelativeURLs(t *testing.T) {
	t.Parallel()

	const base = "https://www.example.com/sites/default/"

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "root relative image",
			html:     `<img src="/files/a.png"/>`,
			expected: `<img src="https://www.example.com/files/a.png"/>`,
		},
		{
			name:     "document relative link",
			html:     `<a href="page">x</a>`,
			expected: `<a href="https://www.example.com/sites/default/page">x</a>`,
		},
		{
			name:     "video poster and source",
			html:     `<video src="v.mp4" poster="/p.jpg"></video>`,
			expected: `<video src="https://www.example.com/sites/default/v.mp4" poster="https://www.example.com/p.jpg"></video>`,
		},
		{
			name:     "absolute url untouched",
			html:     `<a href="https://other.org/x">x</a>`,
			expected: `<a href="https://other.org/x">x</a>`,
		},
		{
			name:     "data uri untouched",
			html:     `<img src="data:image/svg+xml;base64,AA=="/>`,
			expected: `<img src="data:image/svg+xml;base64,AA=="/>`,
		},
		{
			name:     "anchor and mailto untouched",
			html:     `<a href="#top">t</a><a href="mailto:a@b.c">m</a>`,
			expected: `<a href="#top">t</a><a href="mailto:a@b.c">m</a>`,
		},
		{
			name:     "protocol relative untouched",
			html:     `<script src="//cdn.example.com/x.js"></script>`,
			expected: `<script src="//cdn.example.com/x.js"></script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativeURLs(tt.html, base)
			if err != nil {
				t.Fatalf("RewriteRelativeURLs() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("RewriteRelativeURLs() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRewriteRelativeURLs_BaseURL(t *testing.T) {
	t.Parallel()

	input := `<img src="/a.png"/>`
	got, err := RewriteRelativeURLs(input, "")
	if err != nil || got != input {
		t.Errorf("RewriteRelativeURLs(empty base) = %q, %v; want input unchanged", got, err)
	}

	if _, err := RewriteRelativeURLs(input, "/relative/base"); err == nil {
		t.Error("RewriteRelativeURLs(relative base) expected error")
	}
}
