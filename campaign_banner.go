package cmsblocks

import (
	"fmt"
	"net/url"
)

// CampaignBannerConfig holds the editor settings of a Campaign Banner block.
type CampaignBannerConfig struct {
	ElementID string `yaml:"element_id"`
	EnableURL bool   `yaml:"enable_url"`
	SetURL    string `yaml:"set_url"`
}

// CampaignBannerView is the template data of a Campaign Banner.
type CampaignBannerView struct {
	ElementID string
	URL       string // Empty unless the URL field is enabled
}

// Validate requires a link target when the URL field is enabled.
func (c *CampaignBannerConfig) Validate(CharacterLimits) error {
	var v validator
	if c.EnableURL {
		v.check("set_url", c.SetURL != "", errRequired("banner URL is required when enable_url is set"))
		if c.SetURL != "" {
			v.check("set_url", validBannerURL(c.SetURL),
				fmt.Errorf("%w: %q is not a site path or http(s) URL", ErrInvalidLink, c.SetURL))
		}
	}
	v.length("set_url", c.SetURL, DefaultCTAURLLimit)
	return v.err()
}

// Build maps the settings to template data.
func (c *CampaignBannerConfig) Build() *CampaignBannerView {
	view := &CampaignBannerView{ElementID: c.ElementID}
	if c.EnableURL {
		view.URL = c.SetURL
	}
	return view
}

func validBannerURL(s string) bool {
	if !validLinkTarget(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "" || u.Host != ""
}
