package pipeline

import (
	"context"
	"html"
	"strings"
)

// CSSInjector defines the contract for stylesheet injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent, styleID string) string
}

// CSSInjection injects CSS as a <style> block into rendered block markup.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML, which is where a
// bare block fragment gets it. A non-empty styleID is written as the element id
// so a page embedding several blocks can tell their stylesheets apart.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent, styleID string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	open := "<style>"
	if styleID != "" {
		open = `<style id="` + html.EscapeString(styleID) + `">`
	}
	styleBlock := open + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
