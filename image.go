package handlandmarker

import (
	"fmt"
	"sync"

	"github.com/swdee/go-handlandmarker/preprocess"
	"gocv.io/x/gocv"
)

// Image is the normalized image handed to the Engine.  It wraps a frame
// buffer in a native handle which must be released with Close once the
// engine has finished with it.
type Image struct {
	// Format is the pixel layout of the buffer
	Format preprocess.PixelFormat
	// Width of the image in pixels
	Width int
	// Height of the image in pixels
	Height int
	// Rotation in degrees clockwise the engine should apply to make the
	// image upright
	Rotation int

	buf []byte
	mat gocv.Mat
	// release frees the native handle
	release func() error
	// closed is a flag to indicate the native handle has been released
	closed bool
	// mutex to lock access to closed variable
	sync.Mutex
}

// Bytes returns the underlying frame buffer.  It must not be retained after
// the image is closed.
func (i *Image) Bytes() []byte {
	return i.buf
}

// Mat returns the native handle wrapping the buffer, rows and columns are
// as given by preprocess.MatShape
func (i *Image) Mat() gocv.Mat {
	return i.mat
}

// Close releases the native handle.  Calling Close more than once has no
// effect.
func (i *Image) Close() error {
	i.Lock()
	defer i.Unlock()

	if i.closed {
		return nil
	}

	i.closed = true

	if i.release == nil {
		return nil
	}

	return i.release()
}

// ImageAllocator creates the normalized image handle for a frame buffer
type ImageAllocator interface {
	NewImage(buf []byte, format preprocess.PixelFormat, width, height, rotation int) (*Image, error)
}

// MatAllocator is the default ImageAllocator wrapping buffers in a gocv.Mat
type MatAllocator struct{}

// NewImage wraps buf in a gocv.Mat of the shape required by format
func (MatAllocator) NewImage(buf []byte, format preprocess.PixelFormat,
	width, height, rotation int) (*Image, error) {

	rows, cols, mt, err := preprocess.MatShape(format, width, height)

	if err != nil {
		return nil, err
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, mt, buf)

	if err != nil {
		return nil, fmt.Errorf("error creating Mat from %s buffer: %w", format, err)
	}

	return &Image{
		Format:   format,
		Width:    width,
		Height:   height,
		Rotation: rotation,
		buf:      buf,
		mat:      mat,
		release:  mat.Close,
	}, nil
}
