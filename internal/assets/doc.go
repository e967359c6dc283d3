// Package assets provides the block templates and stylesheets used to render
// content blocks.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in template set and styles (go:embed)
//	    ├── FilesystemLoader  - site-specific overrides from a directory
//	    └── AssetResolver     - custom-first with fallback to embedded
//
// A site overrides only the files it needs: a template set or style missing
// from the custom directory is served from the embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── freeform_story.html
//	        ├── campaign_banner.html
//	        └── page.html
//
// # Security
//
// Asset names are validated against path separators and dots.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
