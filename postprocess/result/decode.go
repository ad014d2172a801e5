package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireLandmark is one decoded landmark object.  Pointers detect missing
// keys.
type wireLandmark struct {
	X *float64
	Y *float64
	Z *float64
}

// UnmarshalJSON reads the landmark object key by key.  Keys must be exactly
// "x", "y" and "z" each appearing once, encoding/json's default struct
// decoding would fold case and let a repeated key overwrite the first.
func (w *wireLandmark) UnmarshalJSON(data []byte) error {

	dec := json.NewDecoder(bytes.NewReader(data))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("%w: landmark is not an object", ErrSyntax)
	}

	for dec.More() {
		tok, err := dec.Token()

		if err != nil {
			return fmt.Errorf("%w: %v", ErrSyntax, err)
		}

		key, _ := tok.(string)

		var dst **float64

		switch key {
		case "x":
			dst = &w.X
		case "y":
			dst = &w.Y
		case "z":
			dst = &w.Z
		default:
			return fmt.Errorf("%w: unknown landmark key %q", ErrSyntax, key)
		}

		if *dst != nil {
			return fmt.Errorf("%w: duplicate landmark key %q", ErrSyntax, key)
		}

		var v float64

		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%w: landmark %q: %v", ErrSyntax, key, err)
		}

		*dst = &v
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return fmt.Errorf("%w: unterminated landmark", ErrSyntax)
	}

	return nil
}

// Decode parses an encoded detection back into hands and landmarks in their
// original order.  Numbers may be in plain or exponent form and whitespace
// between tokens is ignored.  Score and Handedness are not part of the
// encoding and are left unset.
func Decode(s string) (Detection, error) {

	data := bytes.TrimSpace([]byte(s))

	// reject null and other non array values which json would accept into
	// a nil slice
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: expected '['", ErrSyntax)
	}

	var wire [][]wireLandmark

	dec := json.NewDecoder(bytes.NewReader(data))

	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	if dec.InputOffset() != int64(len(data)) {
		return nil, fmt.Errorf("%w: trailing data", ErrSyntax)
	}

	det := make(Detection, 0, len(wire))

	for hi, wh := range wire {
		if len(wh) == 0 {
			return nil, fmt.Errorf("hand %d: %w", hi, ErrEmptyHand)
		}

		hand := Hand{Landmarks: make([]Landmark, len(wh))}

		for li, wl := range wh {
			if wl.X == nil || wl.Y == nil || wl.Z == nil {
				return nil, fmt.Errorf("%w: hand %d landmark %d missing coordinate",
					ErrSyntax, hi, li)
			}

			lm := Landmark{
				X: float32(*wl.X),
				Y: float32(*wl.Y),
				Z: float32(*wl.Z),
			}

			// values beyond float32 range narrow to infinity
			if !finite(lm.X) || !finite(lm.Y) || !finite(lm.Z) {
				return nil, fmt.Errorf("%w: hand %d landmark %d: %w",
					ErrSyntax, hi, li, ErrNonFinite)
			}

			hand.Landmarks[li] = lm
		}

		det = append(det, hand)
	}

	return det, nil
}
