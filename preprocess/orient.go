package preprocess

import (
	"fmt"

	"gocv.io/x/gocv"
)

// PixelFormat is the layout of a normalized image buffer
type PixelFormat int

const (
	// FormatNV21 is full resolution Y followed by interleaved V/U at half
	// resolution in each dimension
	FormatNV21 PixelFormat = 1
	// FormatRGBA is packed 8 bit R, G, B, A
	FormatRGBA PixelFormat = 2
)

// String returns a readable description of the PixelFormat
func (f PixelFormat) String() string {
	switch f {
	case FormatNV21:
		return "NV21"
	case FormatRGBA:
		return "RGBA"
	default:
		return "UNKNOWN"
	}
}

// ValidRotation reports if the rotation in degrees is one a camera frame may
// carry, ie: 0, 90, 180 or 270
func ValidRotation(deg int) bool {
	switch deg {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// MatShape returns the rows, columns and Mat type used to wrap a buffer of
// the given format and dimensions in a gocv.Mat
func MatShape(format PixelFormat, width, height int) (rows, cols int, mt gocv.MatType, err error) {
	switch format {
	case FormatNV21:
		return height * 3 / 2, width, gocv.MatTypeCV8UC1, nil
	case FormatRGBA:
		return height, width, gocv.MatTypeCV8UC4, nil
	}
	return 0, 0, 0, fmt.Errorf("unsupported pixel format %d", format)
}

// Orient converts src, a Mat wrapping a normalized image buffer of the given
// format, into an upright RGB Mat written to dst.  Rotation is the number of
// degrees to rotate the image clockwise.
func Orient(src gocv.Mat, format PixelFormat, rotation int, dst *gocv.Mat) error {

	var code gocv.ColorConversionCode

	switch format {
	case FormatNV21:
		code = gocv.ColorYUVToRGBNV21
	case FormatRGBA:
		code = gocv.ColorRGBAToRGB
	default:
		return fmt.Errorf("unsupported pixel format %d", format)
	}

	if rotation == 0 {
		gocv.CvtColor(src, dst, code)
		return nil
	}

	var flag gocv.RotateFlag

	switch rotation {
	case 90:
		flag = gocv.Rotate90Clockwise
	case 180:
		flag = gocv.Rotate180Clockwise
	case 270:
		flag = gocv.Rotate90CounterClockwise
	default:
		return fmt.Errorf("unsupported rotation %d", rotation)
	}

	rgb := gocv.NewMat()
	defer rgb.Close()

	gocv.CvtColor(src, &rgb, code)
	gocv.Rotate(rgb, dst, flag)

	return nil
}

// OrientedSize returns the width and height of a frame after rotation
func OrientedSize(width, height, rotation int) (int, int) {
	if rotation == 90 || rotation == 270 {
		return height, width
	}
	return width, height
}
