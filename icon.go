package cmsblocks

import (
	"context"

	"github.com/alnah/go-cmsblocks/internal/pipeline"
)

// ErrMalformedSVG indicates icon markup that is not a well-formed XML document.
var ErrMalformedSVG = pipeline.ErrMalformedSVG

// SVGDataURIPrefix prefixes every data URI returned by RecolorSVG.
const SVGDataURIPrefix = pipeline.SVGDataURIPrefix

// BulletIconClass is the class of the images InjectBulletIcons adds.
const BulletIconClass = pipeline.BulletIconClass

// RecolorSVG sets the fill of the first <path> of svgMarkup to
// backgroundColor and the fill of the second to iconColor, then returns the
// document as a base64 SVG data URI. Empty colors and missing paths are
// skipped. Returns an error wrapping ErrMalformedSVG for markup that does not
// parse as XML.
func RecolorSVG(svgMarkup, backgroundColor, iconColor string) (string, error) {
	return pipeline.RecolorSVG(svgMarkup, backgroundColor, iconColor)
}

// RemoveSVGFills strips the fill attributes of an SVG document.
func RemoveSVGFills(svgMarkup string) (string, error) {
	return pipeline.RemoveSVGFills(svgMarkup)
}

// InjectBulletIcons appends <img src="iconDataURI" class="icon-blist"> to
// every <li> of htmlContent. Markup without list items is returned as is.
func InjectBulletIcons(ctx context.Context, htmlContent, iconDataURI string) string {
	return pipeline.NewBulletInjection().InjectBulletIcons(ctx, htmlContent, iconDataURI)
}
