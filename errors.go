package cmsblocks

import "errors"

// Sentinel errors for library operations.
var (
	// Block documents and settings.
	ErrEmptyBlock           = errors.New("block document cannot be empty")
	ErrUnknownBlockType     = errors.New("unknown block type")
	ErrBlockParse           = errors.New("failed to parse block document")
	ErrValidation           = errors.New("block settings are invalid")
	ErrInvalidMediaItemType = errors.New("invalid media item type")

	// Collaborators.
	ErrMediaNotFound = errors.New("media not found")
	ErrFileNotFound  = errors.New("file not found")
	ErrIconLoad      = errors.New("failed to load bullet icon")

	// Rendering.
	ErrTemplateRender  = errors.New("template rendering failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrScreenshot      = errors.New("screenshot capture failed")
	ErrInvalidViewport = errors.New("invalid viewport")

	// Asset loading.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
