package postprocess

import (
	"testing"

	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
)

// floatsEqual compares float32 values within epsilon
func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	return diff <= epsilon && diff >= -epsilon
}

// landmarkTensor builds a 21x3 tensor with every landmark at the given model
// input pixel position
func landmarkTensor(x, y, z float32) []float32 {
	buf := make([]float32, 21*3)

	for i := 0; i < 21; i++ {
		buf[i*3+0] = x + float32(i)
		buf[i*3+1] = y
		buf[i*3+2] = z
	}

	return buf
}

func TestHandLandmarkDecode(t *testing.T) {

	// 448x336 source letterboxed into 224x224 gives scale 0.5 and 28px of
	// padding top and bottom
	resizer := preprocess.NewResizer(224, 224)
	defer resizer.Close()
	resizer.Fit(448, 336)

	hl := NewHandLandmark(HandLandmarkDefaultParams())

	tensors := HandTensors{
		Landmarks:  Tensor{F32: landmarkTensor(112, 112, 22.4)},
		Presence:   Tensor{F32: []float32{0.9}},
		Handedness: Tensor{F32: []float32{0.8}},
	}

	hand, ok, err := hl.Decode(tensors, resizer)

	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !ok {
		t.Fatalf("expected hand to be present")
	}

	if len(hand.Landmarks) != 21 {
		t.Fatalf("got %d landmarks, expected 21", len(hand.Landmarks))
	}

	for i, lm := range hand.Landmarks {
		wantX := (112 + float32(i)) / 224

		if !floatEqual(lm.X, wantX, 1e-5) || !floatEqual(lm.Y, 0.5, 1e-5) || !floatEqual(lm.Z, 0.1, 1e-5) {
			t.Errorf("landmark %d = %+v, expected {X:%f Y:0.5 Z:0.1}", i, lm, wantX)
		}
	}

	if hand.Handedness != result.HandRight {
		t.Errorf("handedness = %s, expected Right", hand.Handedness)
	}

	if !floatEqual(hand.Score, 0.9, 1e-6) {
		t.Errorf("score = %f, expected 0.9", hand.Score)
	}
}

func TestHandLandmarkDecodeQuantized(t *testing.T) {

	resizer := preprocess.NewResizer(224, 224)
	defer resizer.Close()
	resizer.Fit(224, 224)

	p := HandLandmarkDefaultParams()
	p.LandmarkNumber = 1
	hl := NewHandLandmark(p)

	// (q - zp) * scale with zp=-128, scale=1 gives 0..255 pixel space
	tensors := HandTensors{
		Landmarks: Tensor{I8: []int8{-16, -72, -128}, ZP: -128, Scale: 1},
		Presence:  Tensor{I8: []int8{100}, ZP: 0, Scale: 0.01},
	}

	hand, ok, err := hl.Decode(tensors, resizer)

	if err != nil || !ok {
		t.Fatalf("Decode: ok=%v err=%v", ok, err)
	}

	lm := hand.Landmarks[0]

	if !floatEqual(lm.X, 0.5, 1e-6) || !floatEqual(lm.Y, 0.25, 1e-6) || lm.Z != 0 {
		t.Errorf("landmark = %+v, expected {X:0.5 Y:0.25 Z:0}", lm)
	}

	if hand.Handedness != result.HandUnknown {
		t.Errorf("handedness = %s, expected Unknown without tensor", hand.Handedness)
	}
}

func TestHandLandmarkDecodeNoHand(t *testing.T) {

	resizer := preprocess.NewResizer(224, 224)
	defer resizer.Close()
	resizer.Fit(224, 224)

	hl := NewHandLandmark(HandLandmarkDefaultParams())

	tensors := HandTensors{
		Landmarks: Tensor{F32: landmarkTensor(10, 10, 0)},
		Presence:  Tensor{F32: []float32{0.2}},
	}

	if _, ok, err := hl.Decode(tensors, resizer); ok || err != nil {
		t.Errorf("expected no hand below presence threshold, got ok=%v err=%v", ok, err)
	}

	tensors.Landmarks = Tensor{F32: make([]float32, 10)}
	tensors.Presence = Tensor{F32: []float32{0.9}}

	if _, _, err := hl.Decode(tensors, resizer); err == nil {
		t.Errorf("expected error for wrong sized landmark tensor")
	}

	tensors.Landmarks = Tensor{F32: landmarkTensor(10, 10, 0)}
	tensors.Presence = Tensor{}

	if _, _, err := hl.Decode(tensors, resizer); err == nil {
		t.Errorf("expected error for empty presence tensor")
	}
}
