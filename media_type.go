package cmsblocks

import "fmt"

// MediaItemType selects which media a Freeform Story shows next to its text.
// The zero value is MediaItemNone.
type MediaItemType string

// Media item types, with the values stored in block settings.
const (
	MediaItemNone         MediaItemType = ""
	MediaItem3DAsset      MediaItemType = "enable_3D_asset"
	MediaItemImage        MediaItemType = "image"
	MediaItemVideo        MediaItemType = "video"
	MediaItemAudio        MediaItemType = "audio"
	MediaItemYoutubeVideo MediaItemType = "youtube"
)

// MediaItemTypes lists every selectable type, in editor order.
var MediaItemTypes = []MediaItemType{
	MediaItem3DAsset,
	MediaItemImage,
	MediaItemVideo,
	MediaItemAudio,
	MediaItemYoutubeVideo,
}

// ParseMediaItemType converts a stored setting into a MediaItemType.
// An empty string is MediaItemNone.
func ParseMediaItemType(s string) (MediaItemType, error) {
	t := MediaItemType(s)
	if t == MediaItemNone || t.valid() {
		return t, nil
	}
	return MediaItemNone, fmt.Errorf("%w: %q", ErrInvalidMediaItemType, s)
}

// String returns the stored setting value, "none" for MediaItemNone.
func (t MediaItemType) String() string {
	if t == MediaItemNone {
		return "none"
	}
	return string(t)
}

func (t MediaItemType) valid() bool {
	for _, known := range MediaItemTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ResolveLegacyMediaItemType derives the media item type of settings saved
// before the type selector existed. The 3D asset flag wins over an image;
// with neither, there is no media.
func ResolveLegacyMediaItemType(oldImageValue string, old3DAssetFlag bool) MediaItemType {
	switch {
	case old3DAssetFlag:
		return MediaItem3DAsset
	case oldImageValue != "":
		return MediaItemImage
	default:
		return MediaItemNone
	}
}
