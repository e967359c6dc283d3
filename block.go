package cmsblocks

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alnah/go-cmsblocks/internal/yamlutil"
)

// BlockType names a kind of block.
type BlockType string

// Supported block types.
const (
	BlockTypeFreeformStory  BlockType = "freeform_story"
	BlockTypeCampaignBanner BlockType = "campaign_banner"
)

// BlockTypes lists the supported block types.
var BlockTypes = []BlockType{BlockTypeFreeformStory, BlockTypeCampaignBanner}

// Block is a parsed block document. Exactly one of the settings pointers is
// set, matching Type.
type Block struct {
	Type           BlockType
	ID             string
	FreeformStory  *FreeformStoryConfig
	CampaignBanner *CampaignBannerConfig
}

// NewFreeformStoryBlock wraps settings in a Block.
func NewFreeformStoryBlock(id string, cfg FreeformStoryConfig) *Block {
	return &Block{Type: BlockTypeFreeformStory, ID: id, FreeformStory: &cfg}
}

// NewCampaignBannerBlock wraps settings in a Block.
func NewCampaignBannerBlock(id string, cfg CampaignBannerConfig) *Block {
	return &Block{Type: BlockTypeCampaignBanner, ID: id, CampaignBanner: &cfg}
}

type blockHeader struct {
	Type BlockType `yaml:"type"`
	ID   string    `yaml:"id"`
}

type blockDocument[T any] struct {
	Type     BlockType `yaml:"type"`
	ID       string    `yaml:"id"`
	Settings T         `yaml:"settings"`
}

// ParseBlock decodes a YAML or JSON block document:
//
//	type: freeform_story
//	id: homepage-story
//	settings:
//	  header_1: Our story
//
// Settings absent from the document keep their defaults. Unknown keys are
// rejected. Returns ErrEmptyBlock for blank input, ErrUnknownBlockType for an
// unsupported type and ErrBlockParse for malformed documents.
func ParseBlock(data []byte) (*Block, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBlock
	}

	var header blockHeader
	if err := yamlutil.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBlockParse, err)
	}

	switch header.Type {
	case BlockTypeFreeformStory:
		cfg := DefaultFreeformStoryConfig()
		if err := decodeSettings(data, &cfg); err != nil {
			return nil, err
		}
		return NewFreeformStoryBlock(header.ID, cfg), nil
	case BlockTypeCampaignBanner:
		var cfg CampaignBannerConfig
		if err := decodeSettings(data, &cfg); err != nil {
			return nil, err
		}
		return NewCampaignBannerBlock(header.ID, cfg), nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrUnknownBlockType)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, string(header.Type))
	}
}

func decodeSettings[T any](data []byte, settings *T) error {
	doc := blockDocument[T]{Settings: *settings}
	if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrBlockParse, err)
	}
	*settings = doc.Settings
	return nil
}

// Validate checks the block settings against limits.
func (b *Block) Validate(limits CharacterLimits) error {
	switch {
	case b.Type == BlockTypeFreeformStory && b.FreeformStory != nil:
		return b.FreeformStory.Validate(limits)
	case b.Type == BlockTypeCampaignBanner && b.CampaignBanner != nil:
		return b.CampaignBanner.Validate(limits)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBlockType, string(b.Type))
	}
}

// Normalize clears settings hidden by the current selection.
func (b *Block) Normalize() {
	if b.FreeformStory != nil {
		b.FreeformStory.Normalize()
	}
}

// FieldErrors returns the field errors carried by err, or nil when err is not
// a validation error.
func FieldErrors(err error) []FieldError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
