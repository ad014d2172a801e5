package preprocess

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrame is returned when a frame's dimensions, strides or buffer
// sizes cannot describe a valid image
var ErrInvalidFrame = errors.New("invalid frame")

// YUVPlanes describes a planar YUV 4:2:0 camera frame as delivered by the
// camera stack.  Each plane has its own row stride which may exceed the
// logical row width due to padding.  The chroma planes share a row stride
// and a pixel stride, the later being 1 for fully planar sources (I420) and
// 2 when the U and V samples are interleaved in memory (NV12/NV21).
type YUVPlanes struct {
	// Y is the luma plane
	Y []byte
	// U is the Cb chroma plane
	U []byte
	// V is the Cr chroma plane
	V []byte
	// Width of the frame in pixels, must be even
	Width int
	// Height of the frame in pixels, must be even
	Height int
	// YRowStride is the number of bytes between the start of consecutive
	// rows in the Y plane
	YRowStride int
	// UVRowStride is the number of bytes between the start of consecutive
	// rows in each chroma plane
	UVRowStride int
	// UVPixelStride is the number of bytes between consecutive chroma samples
	// within a row
	UVPixelStride int
}

// NV21Size returns the number of bytes of an NV21 buffer for the given
// dimensions
func NV21Size(width, height int) int {
	return width * height * 3 / 2
}

// Validate checks the planes describe a frame that ConvertYUVToNV21 can read
// without going out of bounds
func (p YUVPlanes) Validate() error {

	if err := validateDimensions(p.Width, p.Height); err != nil {
		return err
	}

	if p.YRowStride < p.Width {
		return fmt.Errorf("%w: y row stride %d less than width %d",
			ErrInvalidFrame, p.YRowStride, p.Width)
	}

	if p.UVPixelStride < 1 {
		return fmt.Errorf("%w: uv pixel stride %d must be at least 1",
			ErrInvalidFrame, p.UVPixelStride)
	}

	uvWidth := p.Width / 2
	uvHeight := p.Height / 2

	// strides are bounded before the extents below are multiplied out so a
	// huge stride can not wrap around and pass the plane length checks
	if !spanFits(p.Height, p.YRowStride, p.Width) {
		return fmt.Errorf("%w: y row stride %d too large for height %d",
			ErrInvalidFrame, p.YRowStride, p.Height)
	}

	if !spanFits(uvWidth, p.UVPixelStride, 1) {
		return fmt.Errorf("%w: uv pixel stride %d too large for width %d",
			ErrInvalidFrame, p.UVPixelStride, p.Width)
	}

	rowSpan := (uvWidth-1)*p.UVPixelStride + 1

	// chroma samples of one row must not overlap the next row
	if p.UVRowStride < rowSpan {
		return fmt.Errorf("%w: uv row stride %d less than %d required by pixel stride %d",
			ErrInvalidFrame, p.UVRowStride, rowSpan, p.UVPixelStride)
	}

	if !spanFits(uvHeight, p.UVRowStride, rowSpan) {
		return fmt.Errorf("%w: uv row stride %d too large for height %d",
			ErrInvalidFrame, p.UVRowStride, p.Height)
	}

	if need := (p.Height-1)*p.YRowStride + p.Width; len(p.Y) < need {
		return fmt.Errorf("%w: y plane has %d bytes, need %d",
			ErrInvalidFrame, len(p.Y), need)
	}

	need := (uvHeight-1)*p.UVRowStride + rowSpan

	if len(p.U) < need {
		return fmt.Errorf("%w: u plane has %d bytes, need %d",
			ErrInvalidFrame, len(p.U), need)
	}

	if len(p.V) < need {
		return fmt.Errorf("%w: v plane has %d bytes, need %d",
			ErrInvalidFrame, len(p.V), need)
	}

	return nil
}

// ConvertYUVToNV21 converts the planes into a newly allocated NV21 buffer
// of NV21Size(Width, Height) bytes.  The planes must satisfy Validate, a
// malformed stride results in an out of range panic.
func ConvertYUVToNV21(p YUVPlanes) []byte {
	dst := make([]byte, NV21Size(p.Width, p.Height))
	ConvertYUVToNV21Into(dst, p)
	return dst
}

// ConvertYUVToNV21Into writes the NV21 representation of the planes into dst
// which must hold at least NV21Size(Width, Height) bytes.  The layout is the
// full resolution Y plane followed by the 2x2 subsampled chroma interleaved
// as V then U.
//
// U and V reads are each computed from their own plane with the shared
// stride formula, so planes which alias the same storage at an offset (as
// NV21 camera buffers do) are read correctly.
func ConvertYUVToNV21Into(dst []byte, p YUVPlanes) {

	size := NV21Size(p.Width, p.Height)

	if len(dst) < size {
		panic(fmt.Sprintf("preprocess: nv21 buffer of %d bytes too small for %dx%d frame",
			len(dst), p.Width, p.Height))
	}

	// copy Y plane row by row, dropping any row padding
	yIdx := 0

	for row := 0; row < p.Height; row++ {
		off := row * p.YRowStride
		copy(dst[yIdx:yIdx+p.Width], p.Y[off:off+p.Width])
		yIdx += p.Width
	}

	// interleave chroma, NV21 stores V before U
	uvIdx := p.Width * p.Height
	uvWidth := p.Width / 2
	uvHeight := p.Height / 2

	for cy := 0; cy < uvHeight; cy++ {
		for cx := 0; cx < uvWidth; cx++ {
			off := cy*p.UVRowStride + cx*p.UVPixelStride
			dst[uvIdx] = p.V[off]
			dst[uvIdx+1] = p.U[off]
			uvIdx += 2
		}
	}
}

// I420Planes describes a contiguous I420 buffer (Y plane, then U plane,
// then V plane, no padding) as YUVPlanes
func I420Planes(buf []byte, width, height int) (YUVPlanes, error) {

	if err := validateDimensions(width, height); err != nil {
		return YUVPlanes{}, err
	}

	if len(buf) != NV21Size(width, height) {
		return YUVPlanes{}, fmt.Errorf("%w: i420 buffer has %d bytes, expected %d",
			ErrInvalidFrame, len(buf), NV21Size(width, height))
	}

	ySize := width * height
	uvSize := ySize / 4

	return YUVPlanes{
		Y:             buf[:ySize],
		U:             buf[ySize : ySize+uvSize],
		V:             buf[ySize+uvSize:],
		Width:         width,
		Height:        height,
		YRowStride:    width,
		UVRowStride:   width / 2,
		UVPixelStride: 1,
	}, nil
}

// NV21Planes describes a contiguous NV21 buffer as YUVPlanes.  The U and V
// planes alias the same interleaved storage offset by one byte, which is the
// layout most Android camera stacks deliver.
func NV21Planes(buf []byte, width, height int) (YUVPlanes, error) {

	if err := validateDimensions(width, height); err != nil {
		return YUVPlanes{}, err
	}

	if len(buf) != NV21Size(width, height) {
		return YUVPlanes{}, fmt.Errorf("%w: nv21 buffer has %d bytes, expected %d",
			ErrInvalidFrame, len(buf), NV21Size(width, height))
	}

	ySize := width * height

	return YUVPlanes{
		Y:             buf[:ySize],
		V:             buf[ySize:],
		U:             buf[ySize+1:],
		Width:         width,
		Height:        height,
		YRowStride:    width,
		UVRowStride:   width,
		UVPixelStride: 2,
	}, nil
}

// spanFits reports if (n-1)*stride + last is representable as an int, the
// byte extent of n strided rows or samples
func spanFits(n, stride, last int) bool {
	if n <= 1 {
		return true
	}
	return stride <= (math.MaxInt-last)/(n-1)
}

// validateDimensions checks width and height are positive and even as
// required by 4:2:0 chroma subsampling
func validateDimensions(width, height int) error {

	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive",
			ErrInvalidFrame, width, height)
	}

	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be even",
			ErrInvalidFrame, width, height)
	}

	return nil
}
