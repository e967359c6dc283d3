package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	bannerDoc = `
type: campaign_banner
id: spring
settings:
  element_id: spring-sale
  enable_url: true
  set_url: /offers
`
	invalidBannerDoc = `
type: campaign_banner
id: spring
settings:
  enable_url: true
`
	iconSVG = `<svg><path d="M0 0h16v16H0z"/><path d="M4 8l3 3"/></svg>`
)

// fixedNow is the clock of every test environment.
var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// newTestEnv returns an environment reading stdin and capturing output.
func newTestEnv(stdin string, environ ...string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:     func() time.Time { return fixedNow },
		Stdin:   strings.NewReader(stdin),
		Stdout:  stdout,
		Stderr:  stderr,
		Environ: func() []string { return environ },
	}, stdout, stderr
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
