package cmsblocks_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-cmsblocks"
)

// Example renders a Campaign Banner block document to HTML.
func Example() {
	r, err := cmsblocks.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	block, err := cmsblocks.ParseBlock([]byte(`
type: campaign_banner
id: spring
settings:
  element_id: spring-sale
  enable_url: true
  set_url: /offers
`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := r.Render(context.Background(), cmsblocks.Input{Block: block})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), `href="/offers"`) {
		fmt.Println("banner rendered")
	}
	// Output: banner rendered
}

// ExampleParseBlock shows that absent settings keep their defaults.
func ExampleParseBlock() {
	block, err := cmsblocks.ParseBlock([]byte(`
type: freeform_story
id: homepage
settings:
  header_2: Since 1901
`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(block.FreeformStory.Header1)
	fmt.Println(block.FreeformStory.Header2)
	fmt.Println(block.FreeformStory.AddTopSpacing)
	// Output:
	// Header 1
	// Since 1901
	// true
}

// ExampleFieldErrors lists the settings a validation error reports.
func ExampleFieldErrors() {
	cfg := cmsblocks.DefaultFreeformStoryConfig()
	cfg.MediaItemType = cmsblocks.MediaItemVideo
	cfg.WithCTA = true
	cfg.CTAURL = "ftp://files.example.com"

	err := cfg.Validate(cmsblocks.CharacterLimits{})
	for _, fe := range cmsblocks.FieldErrors(err) {
		fmt.Println(fe.Field)
	}
	// Output:
	// video_title
	// cta_url
}

// ExampleRecolorSVG recolors the background and icon paths of an SVG icon.
func ExampleRecolorSVG() {
	icon := `<svg><path d="M0 0h16v16H0z"/><path d="M4 8l3 3"/></svg>`

	uri, err := cmsblocks.RecolorSVG(icon, "#ffffff", "#0055aa")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	svg, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, cmsblocks.SVGDataURIPrefix))
	fmt.Println(string(svg))
	// Output: <svg><path d="M0 0h16v16H0z" fill="#ffffff"/><path d="M4 8l3 3" fill="#0055aa"/></svg>
}

// ExampleInjectBulletIcons adds an icon to every list item.
func ExampleInjectBulletIcons() {
	out := cmsblocks.InjectBulletIcons(context.Background(), "<ul><li>Grain</li></ul>", "data:x")
	fmt.Println(out)
	// Output: <ul><li>Grain<img src="data:x" class="icon-blist"/></li></ul>
}

// ExampleResolveLegacyMediaItemType maps settings saved before the media
// type selector existed.
func ExampleResolveLegacyMediaItemType() {
	fmt.Println(cmsblocks.ResolveLegacyMediaItemType("media:12", false))
	fmt.Println(cmsblocks.ResolveLegacyMediaItemType("media:12", true))
	fmt.Println(cmsblocks.ResolveLegacyMediaItemType("", false))
	// Output:
	// image
	// enable_3D_asset
	// none
}

// ExampleRendererPool renders several blocks concurrently.
func ExampleRendererPool() {
	pool := cmsblocks.NewRendererPool(2)
	defer pool.Close()

	ids := []string{"a", "b", "c"}
	var wg sync.WaitGroup
	var mu sync.Mutex
	rendered := 0

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			r, err := pool.Acquire(context.Background())
			if err != nil {
				return
			}
			defer pool.Release(r)

			block := cmsblocks.NewCampaignBannerBlock(id, cmsblocks.CampaignBannerConfig{ElementID: id})
			if _, err := r.Render(context.Background(), cmsblocks.Input{Block: block}); err == nil {
				mu.Lock()
				rendered++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	fmt.Println("rendered:", rendered)
	// Output: rendered: 3
}
