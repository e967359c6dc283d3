// Package pipeline implements the markup transformations applied to a block
// while it is rendered.
//
// Stages, in the order the renderer runs them:
//   - Markdown bodies to HTML via goldmark (rich-text bodies pass through)
//   - SVG icon recoloring into a base64 data URI (RecolorSVG)
//   - Bullet icon injection into every list item (BulletInjection)
//   - Stylesheet injection for per-block color overrides (CSSInjection)
//   - Relative URL resolution against the site base URL (RewriteRelativeURLs)
//
// Every stage builds its own document tree per call and keeps no state
// between calls, so a single value may be shared by concurrent renders.
package pipeline
