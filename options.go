package handlandmarker

import "fmt"

// Options configure the inference engine when it is initialized
type Options struct {
	// NumHands is the maximum number of hands the engine reports per frame
	NumHands int
	// MinHandDetectionConfidence is the minimum confidence score in [0,1]
	// for a hand to be reported
	MinHandDetectionConfidence float32
	// UseAcceleratedCompute selects the engine's accelerated delegate (GPU
	// or NPU) over plain CPU execution
	UseAcceleratedCompute bool
}

// DefaultOptions returns the Options used when a frame is detected before
// the Landmarker has been initialized:
// - Hands: 2
// - Minimum Detection Confidence: 0.5
// - Accelerated Compute: true
func DefaultOptions() Options {
	return Options{
		NumHands:                   2,
		MinHandDetectionConfidence: 0.5,
		UseAcceleratedCompute:      true,
	}
}

// Validate checks the option values are in range
func (o Options) Validate() error {

	if o.NumHands < 1 {
		return fmt.Errorf("number of hands must be positive, got %d", o.NumHands)
	}

	if o.MinHandDetectionConfidence < 0 || o.MinHandDetectionConfidence > 1 {
		return fmt.Errorf("minimum hand detection confidence must be in [0,1], got %f",
			o.MinHandDetectionConfidence)
	}

	return nil
}
