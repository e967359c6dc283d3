package cmsblocks

import (
	"bytes"
	"fmt"
	"html/template"
)

// templateFuncs marks trusted strings for html/template.
var templateFuncs = template.FuncMap{
	"safeHTML": func(s any) template.HTML {
		switch v := s.(type) {
		case template.HTML:
			return v
		case string:
			return template.HTML(v) // #nosec G203 -- rendered block markup
		default:
			return template.HTML(template.HTMLEscapeString(fmt.Sprint(v)))
		}
	},
	"safeCSS": func(s string) template.CSS {
		return template.CSS(s) // #nosec G203 -- stylesheet from the asset loader
	},
}

// blockTemplates are the parsed templates of a TemplateSet.
type blockTemplates struct {
	freeformStory  *template.Template
	campaignBanner *template.Template
	page           *template.Template
}

// pageData is the data of the page template.
type pageData struct {
	Language string
	Title    string
	Style    string
	Block    string
}

func parseTemplateSet(ts *TemplateSet) (*blockTemplates, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrIncompleteTemplateSet)
	}
	parse := func(name, src string) (*template.Template, error) {
		if src == "" {
			return nil, fmt.Errorf("%w: %s: %s is empty", ErrIncompleteTemplateSet, ts.Name, name)
		}
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template of set %q: %w", name, ts.Name, err)
		}
		return tmpl, nil
	}

	var (
		bt  blockTemplates
		err error
	)
	if bt.freeformStory, err = parse("freeform_story", ts.FreeformStory); err != nil {
		return nil, err
	}
	if bt.campaignBanner, err = parse("campaign_banner", ts.CampaignBanner); err != nil {
		return nil, err
	}
	if bt.page, err = parse("page", ts.Page); err != nil {
		return nil, err
	}
	return &bt, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateRender, tmpl.Name(), err)
	}
	return buf.String(), nil
}
