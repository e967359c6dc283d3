package pipeline

import (
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BulletIconClass is the CSS class carried by every injected bullet icon.
const BulletIconClass = "icon-blist"

// BulletIconInjector defines the contract for replacing list markers with an icon.
type BulletIconInjector interface {
	InjectBulletIcons(ctx context.Context, htmlContent, iconDataURI string) string
}

// BulletInjection appends an icon image to every list item of rich-text markup.
type BulletInjection struct{}

// NewBulletInjection creates a BulletInjection.
func NewBulletInjection() *BulletInjection {
	return &BulletInjection{}
}

// InjectBulletIcons appends <img src="iconDataURI" class="icon-blist"> as the
// last child of every <li> present in htmlContent.
//
// Malformed markup is parsed leniently and never rejected. When there is no
// list item, or the context is already cancelled, htmlContent is returned as is.
// Each call appends a new icon, so applying it twice yields two icons per item.
func (b *BulletInjection) InjectBulletIcons(ctx context.Context, htmlContent, iconDataURI string) string {
	if ctx.Err() != nil {
		return htmlContent
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return htmlContent
	}

	// Collect first so only items present before injection receive an icon.
	items := findElements(doc, atom.Li)
	if len(items) == 0 {
		return htmlContent
	}

	icon := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     "img",
		Attr: []html.Attribute{
			{Key: "src", Val: iconDataURI},
			{Key: "class", Val: BulletIconClass},
		},
	}
	for _, li := range items {
		li.AppendChild(cloneNode(icon))
	}

	out, err := renderHTML(doc, isFragment)
	if err != nil {
		return htmlContent
	}
	return out
}
