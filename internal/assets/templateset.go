package assets

// TemplateSet holds the html/template sources used to render blocks.
type TemplateSet struct {
	Name           string // Identifier (name or directory path)
	FreeformStory  string // freeform_story.html
	CampaignBanner string // campaign_banner.html
	Page           string // page.html, wraps a rendered block into a document
}

// Template file names inside a template set directory.
const (
	FreeformStoryTemplate  = "freeform_story.html"
	CampaignBannerTemplate = "campaign_banner.html"
	PageTemplate           = "page.html"
)

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in block stylesheet.
const DefaultStyleName = "blocks"

// templateFiles lists every file a complete template set provides, with the
// field it fills.
func (ts *TemplateSet) templateFiles() map[string]*string {
	return map[string]*string{
		FreeformStoryTemplate:  &ts.FreeformStory,
		CampaignBannerTemplate: &ts.CampaignBanner,
		PageTemplate:           &ts.Page,
	}
}
