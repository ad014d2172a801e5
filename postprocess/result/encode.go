package result

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// Empty is the encoding of a detection with no hands
const Empty = "[]"

// Encoder writes detections to an output stream.  Each call to Encode
// writes one complete detection, nothing is written if the detection is
// invalid.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// NewEncoder returns an Encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the encoding of d to the stream
func (e *Encoder) Encode(d Detection) error {

	buf, err := AppendDetection(e.buf[:0], d)

	if err != nil {
		return err
	}

	// keep the grown buffer for the next frame
	e.buf = buf

	_, err = e.w.Write(buf)
	return err
}

// Encode returns the encoding of d as a string.  A detection with no hands
// encodes as "[]".
func Encode(d Detection) (string, error) {

	buf, err := AppendDetection(nil, d)

	if err != nil {
		return "", err
	}

	return string(buf), nil
}

// AppendDetection appends the encoding of d to dst.  On error dst is
// returned unchanged.
//
// The encoding is a JSON array of hands, each an array of landmark objects
// with keys in x, y, z order and no whitespace, eg:
//
//	[[{"x":0.1,"y":0.2,"z":0.3},...],...]
func AppendDetection(dst []byte, d Detection) ([]byte, error) {

	if err := validateCoords(d); err != nil {
		return dst, err
	}

	dst = append(dst, '[')

	for i, h := range d {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendHand(dst, h)
	}

	return append(dst, ']'), nil
}

// appendHand appends one hand's landmark array
func appendHand(dst []byte, h Hand) []byte {

	dst = append(dst, '[')

	for i, lm := range h.Landmarks {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendLandmark(dst, lm)
	}

	return append(dst, ']')
}

// appendLandmark appends a single landmark object
func appendLandmark(dst []byte, lm Landmark) []byte {
	dst = append(dst, `{"x":`...)
	dst = appendNumber(dst, lm.X)
	dst = append(dst, `,"y":`...)
	dst = appendNumber(dst, lm.Y)
	dst = append(dst, `,"z":`...)
	dst = appendNumber(dst, lm.Z)
	return append(dst, '}')
}

// appendNumber writes the shortest plain decimal that parses back to the
// same float32
func appendNumber(dst []byte, v float32) []byte {
	return strconv.AppendFloat(dst, float64(v), 'f', -1, 32)
}

// validateCoords checks the whole detection up front so a failure never
// leaves a partial encoding behind
func validateCoords(d Detection) error {

	for hi, h := range d {
		if len(h.Landmarks) == 0 {
			return fmt.Errorf("hand %d: %w", hi, ErrEmptyHand)
		}

		for li, lm := range h.Landmarks {
			if !finite(lm.X) || !finite(lm.Y) || !finite(lm.Z) {
				return fmt.Errorf("hand %d landmark %d: %w", hi, li, ErrNonFinite)
			}
		}
	}

	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
