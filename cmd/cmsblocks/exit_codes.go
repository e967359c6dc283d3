package main

import (
	"errors"
	"os"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/config"
	"github.com/alnah/go-cmsblocks/internal/i18n"
	"github.com/alnah/go-cmsblocks/internal/site"
)

// Exit codes follow Unix conventions: 0=success, 1=general, 2=usage, and
// custom codes below 126.
const (
	ExitSuccess = 0 // Every block rendered or validated
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, block documents or settings
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor maps an error to an exit code. Errors must be wrapped with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, cmsblocks.ErrBrowserConnect) ||
		errors.Is(err, cmsblocks.ErrPageCreate) ||
		errors.Is(err, cmsblocks.ErrPageLoad) ||
		errors.Is(err, cmsblocks.ErrScreenshot) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadBlock) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, i18n.ErrInvalidLanguage) ||
		errors.Is(err, site.ErrThemeLoad) ||
		errors.Is(err, cmsblocks.ErrEmptyBlock) ||
		errors.Is(err, cmsblocks.ErrBlockParse) ||
		errors.Is(err, cmsblocks.ErrUnknownBlockType) ||
		errors.Is(err, cmsblocks.ErrValidation) ||
		errors.Is(err, cmsblocks.ErrInvalidViewport) ||
		errors.Is(err, cmsblocks.ErrMalformedSVG) ||
		errors.Is(err, cmsblocks.ErrMediaNotFound) ||
		errors.Is(err, cmsblocks.ErrFileNotFound) ||
		errors.Is(err, cmsblocks.ErrIconLoad) ||
		errors.Is(err, cmsblocks.ErrStyleNotFound) ||
		errors.Is(err, cmsblocks.ErrTemplateSetNotFound) ||
		errors.Is(err, cmsblocks.ErrIncompleteTemplateSet) ||
		errors.Is(err, cmsblocks.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidBlocks) {
		return ExitUsage
	}

	return ExitGeneral
}
