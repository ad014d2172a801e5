package rknn

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/swdee/go-handlandmarker"
	"github.com/swdee/go-handlandmarker/postprocess"
	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
	"gocv.io/x/gocv"
)

var (
	// padColor is the letterbox border colour
	padColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Engine runs a MediaPipe style hand landmark model on the NPU.  The model
// is run over the whole oriented frame so at most one hand is reported per
// frame.
type Engine struct {
	rt   *Runtime
	post *postprocess.HandLandmark
	// resizer refits when the oriented frame size changes
	resizer *preprocess.Resizer
	rgb     gocv.Mat
	input   gocv.Mat
	// output tensor indexes
	landmarksIdx  int
	presenceIdx   int
	handednessIdx int
}

// NewEngineFactory returns a handlandmarker.EngineFactory loading the given
// RKNN compiled hand landmark model.  Accelerated compute runs the model
// across all three NPU cores, otherwise it is pinned to core 0.
func NewEngineFactory(modelFile string) handlandmarker.EngineFactory {
	return func(opts handlandmarker.Options) (handlandmarker.Engine, error) {

		core := NPUCore0

		if opts.UseAcceleratedCompute {
			core = NPUCore012
		}

		e, err := NewEngine(modelFile, core, opts)

		if err != nil {
			return nil, err
		}

		return e, nil
	}
}

// NewEngine loads the model onto the given NPU cores.  Use NPUSkipSetCore
// on platforms without core selection such as the RK3566.
func NewEngine(modelFile string, core CoreMask, opts handlandmarker.Options) (*Engine, error) {

	rt, err := NewRuntime(modelFile, core)

	if err != nil {
		return nil, fmt.Errorf("error initializing RKNN runtime: %w", err)
	}

	e := &Engine{
		rt:            rt,
		rgb:           gocv.NewMat(),
		input:         gocv.NewMat(),
		landmarksIdx:  -1,
		presenceIdx:   -1,
		handednessIdx: -1,
	}

	params := postprocess.HandLandmarkDefaultParams()
	params.MinPresence = opts.MinHandDetectionConfidence

	if err := e.configure(&params); err != nil {
		e.Close()
		return nil, err
	}

	e.post = postprocess.NewHandLandmark(params)
	e.resizer = preprocess.NewResizer(params.InputWidth, params.InputHeight)

	return e, nil
}

// configure reads the model input size and locates the landmark, presence
// and handedness outputs.  The first output of LandmarkNumber*3 elements is
// the image space landmarks, the first and second single element outputs
// are presence and handedness.
func (e *Engine) configure(params *postprocess.HandLandmarkParams) error {

	in := e.rt.InputAttrs()

	if len(in) != 1 || in[0].NDims != 4 {
		return fmt.Errorf("model must have a single 4 dimensional input")
	}

	// dims are NHWC unless the runtime reports NCHW
	params.InputHeight = int(in[0].Dims[1])
	params.InputWidth = int(in[0].Dims[2])

	if in[0].Fmt == TensorNCHW {
		params.InputHeight = int(in[0].Dims[2])
		params.InputWidth = int(in[0].Dims[3])
	}

	for i, attr := range e.rt.OutputAttrs() {
		switch {
		case int(attr.NElems) == params.LandmarkNumber*3 && e.landmarksIdx == -1:
			e.landmarksIdx = i
		case attr.NElems == 1 && e.presenceIdx == -1:
			e.presenceIdx = i
		case attr.NElems == 1 && e.handednessIdx == -1:
			e.handednessIdx = i
		}
	}

	if e.landmarksIdx == -1 || e.presenceIdx == -1 {
		return fmt.Errorf("model outputs do not match a hand landmark model")
	}

	return nil
}

// Detect runs the landmark model on the image
func (e *Engine) Detect(img *handlandmarker.Image) (result.Detection, error) {

	err := preprocess.Orient(img.Mat(), img.Format, img.Rotation, &e.rgb)

	if err != nil {
		return nil, err
	}

	e.resizer.LetterBoxResize(e.rgb, &e.input, padColor)

	outputs, err := e.rt.Inference(e.input, false)

	if err != nil {
		return nil, fmt.Errorf("runtime inferencing failed: %w", err)
	}

	hand, ok, err := e.post.Decode(e.tensors(outputs), e.resizer)

	// landmarks are copied out by Decode so C memory can go
	if ferr := outputs.Free(); ferr != nil {
		return nil, errors.Join(err, fmt.Errorf("error freeing outputs: %w", ferr))
	}

	if err != nil || !ok {
		return nil, err
	}

	return result.Detection{hand}, nil
}

// tensors maps the runtime outputs to the post processor's tensors
func (e *Engine) tensors(outputs *Outputs) postprocess.HandTensors {

	attrs := e.rt.OutputAttrs()

	tensor := func(idx int) postprocess.Tensor {
		if idx < 0 {
			return postprocess.Tensor{}
		}

		return postprocess.Tensor{
			F32:   outputs.Output[idx].BufFloat,
			I8:    outputs.Output[idx].BufInt,
			ZP:    attrs[idx].ZP,
			Scale: attrs[idx].Scale,
		}
	}

	return postprocess.HandTensors{
		Landmarks:  tensor(e.landmarksIdx),
		Presence:   tensor(e.presenceIdx),
		Handedness: tensor(e.handednessIdx),
	}
}

// Close unloads the model and frees the work buffers
func (e *Engine) Close() error {

	var errs []error

	if e.resizer != nil {
		errs = append(errs, e.resizer.Close())
	}

	errs = append(errs, e.rgb.Close(), e.input.Close(), e.rt.Close())

	return errors.Join(errs...)
}
