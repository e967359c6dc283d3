// Package cmsblocks renders CMS marketing blocks (Freeform Story and
// Campaign Banner) from their editor settings to HTML, with optional PNG
// previews captured in headless Chrome.
//
// # Quick Start
//
// Parse a block document, create a renderer, render, and close when done:
//
//	block, err := cmsblocks.ParseBlock(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := cmsblocks.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.Render(ctx, cmsblocks.Input{Block: block})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("story.html", result.HTML, 0644)
//
// # Block Documents
//
// A block document is YAML (or JSON) naming the block type and its settings.
// Settings keys are the stored editor keys; absent keys keep their defaults:
//
//	type: freeform_story
//	id: homepage-story
//	settings:
//	  header_1: Our story
//	  media_item_type: image
//	  image: "media:42"
//	  override_bullet_points: true
//	  icon: "media:7"
//	  icon_color_override: "#ffffff"
//	  body:
//	    value: "<ul><li>Fresh</li><li>Local</li></ul>"
//	    format: rich_text
//
// # Rendering Pipeline
//
// A render runs these stages:
//
//  1. Validation of the settings against the editor rules and character limits
//  2. Normalization of settings hidden by the current selection
//  3. Build of the template data: media lookup, translations, theme artwork,
//     markdown bodies, bullet icons recolored into an SVG data URI
//  4. Block template execution (html/template) and color override injection
//  5. Optional page wrapping, relative URL resolution and PNG previews
//
// # Site Services
//
// Blocks reference media, uploaded files and theme artwork by id. Supply them
// through Site; nil services fall back to no-op implementations:
//
//	r, err := cmsblocks.NewRenderer(cmsblocks.WithSite(cmsblocks.Site{
//	    Media: cmsblocks.MediaCatalog{
//	        "42": {Src: "/files/hero.jpg", Alt: "Hero"},
//	    },
//	    Icons: cmsblocks.DirIconLoader{Root: "/var/www/site"},
//	}))
//
// # Icons
//
// RecolorSVG and InjectBulletIcons are usable on their own:
//
//	uri, err := cmsblocks.RecolorSVG(svg, "#003087", "#ffffff")
//	html := cmsblocks.InjectBulletIcons(ctx, body, uri)
//
// # Parallel Processing
//
// For batch previews, use RendererPool to manage several browser instances:
//
//	pool := cmsblocks.NewRendererPool(cmsblocks.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	result, err := r.Render(ctx, input)
//
// # Custom Assets
//
// Override the built-in templates and stylesheet using AssetLoader:
//
//	loader, err := cmsblocks.NewAssetLoader("/path/to/assets")
//	r, err := cmsblocks.NewRenderer(cmsblocks.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── blocks.css
//	└── templates/
//	    └── default/
//	        ├── freeform_story.html
//	        ├── campaign_banner.html
//	        └── page.html
//
// # Error Handling
//
// Errors wrap sentinels for errors.Is checks. Validation failures are a
// *ValidationError listing every invalid field:
//
//	_, err := r.Render(ctx, input)
//	for _, fe := range cmsblocks.FieldErrors(err) {
//	    fmt.Println(fe.Field, fe.Err)
//	}
package cmsblocks
