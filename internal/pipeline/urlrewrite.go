package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// urlAttributes lists, per element, the attributes holding a media or link URL.
var urlAttributes = map[string][]string{
	"img":    {"src"},
	"a":      {"href"},
	"source": {"src"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
	"iframe": {"src"},
	"script": {"src"},
}

// RewriteRelativeURLs resolves relative and root-relative URLs against baseURL
// so rendered blocks keep working outside the site (previews, exports).
// If baseURL is empty, returns the HTML unchanged.
//
// Left untouched: absolute URLs, protocol-relative URLs, data: URIs, anchors,
// and mailto:/tel: links.
func RewriteRelativeURLs(htmlContent, baseURL string) (string, error) {
	if baseURL == "" {
		return htmlContent, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base URL must be absolute: %q", baseURL)
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteURLs(doc, base)

	return renderHTML(doc, isFragment)
}

// rewriteURLs traverses the tree and resolves the URL attributes it knows.
func rewriteURLs(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		for _, key := range urlAttributes[n.Data] {
			rewriteURLAttr(n, key, base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteURLs(c, base)
	}
}

// rewriteURLAttr resolves a single attribute if it holds a relative reference.
func rewriteURLAttr(n *html.Node, key string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeURL(attr.Val) {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeURL returns true if the reference should be resolved against the base.
func isRelativeURL(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}

	lower := strings.ToLower(ref)
	for _, scheme := range []string{"http:", "https:", "data:", "mailto:", "tel:", "file:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
