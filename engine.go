package handlandmarker

import "github.com/swdee/go-handlandmarker/postprocess/result"

// Engine is the hand landmark inference engine.  Detect is given the
// normalized image of one frame including its rotation and returns the
// detected hands in detection order, or an empty or nil Detection when no
// hands are found.  The image is only valid for the duration of the call.
type Engine interface {
	Detect(img *Image) (result.Detection, error)
	Close() error
}

// EngineFactory creates an Engine configured with the given options
type EngineFactory func(opts Options) (Engine, error)
