package assets

import "fmt"

// maxAssetNameLength bounds style and template set names.
const maxAssetNameLength = 64

// ValidateAssetName checks that name can be used as a file or directory name.
// Only ASCII letters, digits, hyphens and underscores are accepted, which rules
// out separators, traversal sequences and extension tricks.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
