package preprocess

import "fmt"

// RGBASize returns the number of bytes of a packed 4 channel buffer for the
// given dimensions
func RGBASize(width, height int) int {
	return width * height * 4
}

// ValidateRGBA checks a packed RGBA buffer holds exactly one frame of the
// given dimensions.  The buffer is used as is by the caller, no conversion
// or copy takes place.
func ValidateRGBA(buf []byte, width, height int) error {

	if err := validateDimensions(width, height); err != nil {
		return err
	}

	if len(buf) != RGBASize(width, height) {
		return fmt.Errorf("%w: rgba buffer has %d bytes, expected %d",
			ErrInvalidFrame, len(buf), RGBASize(width, height))
	}

	return nil
}
