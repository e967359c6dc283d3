package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-cmsblocks"
)

func TestRunIcon_Recolor(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := newTestEnv(iconSVG)
	if code := runMain([]string{"cmsblocks", "icon", "--bg", "#ffffff", "--fg", "#0055aa", "-"}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}

	uri := strings.TrimSpace(stdout.String())
	if !strings.HasPrefix(uri, cmsblocks.SVGDataURIPrefix) {
		t.Fatalf("output = %q, want a data URI", uri)
	}
	svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, cmsblocks.SVGDataURIPrefix))
	if err != nil {
		t.Fatalf("decoding data URI: %v", err)
	}
	want := `<svg><path d="M0 0h16v16H0z" fill="#ffffff"/><path d="M4 8l3 3" fill="#0055aa"/></svg>`
	if string(svg) != want {
		t.Errorf("svg = %s, want %s", svg, want)
	}
}

func TestRunIcon_StripFillsToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "check.svg", `<svg><path d="M1 1" fill="red"/></svg>`)
	out := filepath.Join(dir, "out", "check.svg")

	env, stdout, stderr := newTestEnv("")
	if code := runMain([]string{"cmsblocks", "icon", "--strip-fills", "-o", out, in}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "fill") {
		t.Errorf("output = %s, want fills removed", data)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing when writing a file", stdout)
	}
}

func TestRunIcon_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  int
	}{
		{"no argument", nil, "", ExitUsage},
		{"two arguments", []string{"a.svg", "b.svg"}, "", ExitUsage},
		{"strip fills with colors", []string{"--strip-fills", "--bg", "#fff", "-"}, iconSVG, ExitUsage},
		{"missing file", []string{"/nonexistent/icon.svg"}, "", ExitIO},
		{"malformed svg", []string{"-"}, "<svg><path", ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := newTestEnv(tt.stdin)
			if code := runMain(append([]string{"cmsblocks", "icon"}, tt.args...), env); code != tt.want {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.want, stderr)
			}
		})
	}
}
