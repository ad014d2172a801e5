package postprocess

import (
	"fmt"

	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
	"gonum.org/v1/gonum/mat"
)

// HandLandmark defines the struct for hand landmark model inference post
// processing
type HandLandmark struct {
	// Params are the Model configuration parameters
	Params HandLandmarkParams
}

// HandLandmarkParams defines the struct containing the hand landmark model
// parameters to use for post processing operations
type HandLandmarkParams struct {
	// InputWidth is the width of the model input tensor in pixels
	InputWidth int
	// InputHeight is the height of the model input tensor in pixels
	InputHeight int
	// LandmarkNumber is the number of keypoints per hand the model outputs,
	// each as an x, y, z triple in input tensor pixel units
	LandmarkNumber int
	// MinPresence is the minimum hand presence score required for the
	// landmarks to be returned
	MinPresence float32
}

// HandLandmarkDefaultParams returns an instance of HandLandmarkParams
// configured with default values for the MediaPipe hand landmark model:
// - Input Size: 224x224
// - Landmarks: 21
// - Minimum Presence: 0.5
func HandLandmarkDefaultParams() HandLandmarkParams {
	return HandLandmarkParams{
		InputWidth:     224,
		InputHeight:    224,
		LandmarkNumber: 21,
		MinPresence:    0.5,
	}
}

// NewHandLandmark returns an instance of the HandLandmark post processor
func NewHandLandmark(p HandLandmarkParams) *HandLandmark {
	return &HandLandmark{
		Params: p,
	}
}

// HandTensors are the model outputs for one inference
type HandTensors struct {
	// Landmarks is the LandmarkNumber x 3 landmark tensor
	Landmarks Tensor
	// Presence is the single element hand presence score
	Presence Tensor
	// Handedness is the single element probability of a right hand, it may
	// be empty if the model does not output it
	Handedness Tensor
}

// Decode maps the raw landmark tensor through the letterbox geometry of
// resizer into normalized coordinates of the oriented source frame.  The
// boolean result is false when no hand is present.
func (h *HandLandmark) Decode(t HandTensors, resizer *preprocess.Resizer) (result.Hand, bool, error) {

	n := h.Params.LandmarkNumber

	if t.Landmarks.Len() != n*3 {
		return result.Hand{}, false, fmt.Errorf("landmark tensor has %d elements, expected %d",
			t.Landmarks.Len(), n*3)
	}

	if t.Presence.Len() < 1 {
		return result.Hand{}, false, fmt.Errorf("presence tensor is empty")
	}

	score := t.Presence.At(0)

	if score < h.Params.MinPresence {
		return result.Hand{}, false, nil
	}

	raw := make([]float64, n*3)

	for i := range raw {
		raw[i] = float64(t.Landmarks.At(i))
	}

	pts := mat.NewDense(n, 3, raw)
	norm := resizer.ToNormalized(pts)

	hand := result.Hand{
		Landmarks:  make([]result.Landmark, n),
		Score:      clampf(score, 0, 1),
		Handedness: result.HandUnknown,
	}

	for i := 0; i < n; i++ {
		hand.Landmarks[i] = result.Landmark{
			X: float32(norm.At(i, 0)),
			Y: float32(norm.At(i, 1)),
			Z: float32(norm.At(i, 2)),
		}
	}

	if t.Handedness.Len() > 0 {
		hand.Handedness = result.HandLeft

		if t.Handedness.At(0) > 0.5 {
			hand.Handedness = result.HandRight
		}
	}

	return hand, true, nil
}
