package assets

import (
	"fmt"
	"regexp"
)

// MaxAssetNameLength bounds style and template set names.
const MaxAssetNameLength = 64

// assetNamePattern admits names that are a single path element with no
// extension: letters, digits, hyphen and underscore.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName for empty or overlong names and for names with
// path separators, dots or other characters outside [A-Za-z0-9_-].
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
