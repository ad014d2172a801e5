// Package result defines the hand landmark detection result types and their
// compact textual encoding
package result

import "errors"

var (
	// ErrEmptyHand is returned when a hand without landmarks is encountered.
	// Detections only ever hold complete hands.
	ErrEmptyHand = errors.New("hand has no landmarks")
	// ErrNonFinite is returned when a landmark coordinate is NaN or infinite
	ErrNonFinite = errors.New("landmark coordinate is not finite")
	// ErrSyntax is returned by Decode when the input does not follow the
	// detection grammar
	ErrSyntax = errors.New("malformed detection encoding")
)

// Landmark is a single detected keypoint in normalized image coordinates.  X
// and Y are typically in [0,1] relative to the oriented frame, Z is depth
// relative to the wrist at roughly the same scale as X.
type Landmark struct {
	X float32
	Y float32
	Z float32
}

// Handedness of a detected hand
type Handedness int

const (
	HandUnknown Handedness = 0
	HandLeft    Handedness = 1
	HandRight   Handedness = 2
)

// String returns a readable description of the Handedness
func (h Handedness) String() string {
	switch h {
	case HandLeft:
		return "Left"
	case HandRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Hand is one detected hand.  Landmarks are in the model's landmark index
// order, for the 21 point hand model index 0 is the wrist.
type Hand struct {
	Landmarks []Landmark
	// Score is the hand presence confidence, zero if the engine does not
	// report one
	Score float32
	// Handedness is HandUnknown if the engine does not report it
	Handedness Handedness
}

// Detection is the full per frame result, hands in the order the engine
// detected them
type Detection []Hand

// Validate checks every hand in the detection has landmarks
func (d Detection) Validate() error {
	for _, h := range d {
		if len(h.Landmarks) == 0 {
			return ErrEmptyHand
		}
	}
	return nil
}
