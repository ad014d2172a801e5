package handlandmarker

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
)

var (
	// ErrPrecondition is returned when a frame's dimensions, strides,
	// buffer size or rotation break the frame contract.  The frame is not
	// processed.
	ErrPrecondition = errors.New("frame precondition violated")
	// ErrClosed is returned when detecting on a closed Landmarker
	ErrClosed = errors.New("landmarker closed")
)

// engineState is the lifecycle of the Landmarker's engine handle, one of
// uninitialized, ready or closed
type engineState interface {
	String() string
}

type uninitialized struct{}

func (uninitialized) String() string { return "uninitialized" }

type ready struct {
	engine Engine
	opts   Options
}

func (ready) String() string { return "ready" }

type closed struct{}

func (closed) String() string { return "closed" }

// Landmarker runs the per frame pipeline of pixel reformatting, inference and
// result encoding.  It owns at most one Engine which is created by
// Initialize, or with DefaultOptions on the first detection if the host did
// not initialize it.  Detection calls are serialized.
type Landmarker struct {
	mu      sync.Mutex
	state   engineState
	factory EngineFactory
	images  ImageAllocator
	// pool recycles NV21 conversion buffers between frames
	pool   *preprocess.BufferPool
	logger *log.Logger
}

// NewLandmarker returns a Landmarker that creates its Engine with factory
func NewLandmarker(factory EngineFactory) *Landmarker {
	return &Landmarker{
		state:   uninitialized{},
		factory: factory,
		images:  MatAllocator{},
		pool:    preprocess.NewBufferPool(),
		logger:  log.Default(),
	}
}

// SetLogger sets the logger used for lifecycle messages
func (l *Landmarker) SetLogger(logger *log.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

// SetImageAllocator overrides how normalized image handles are created
func (l *Landmarker) SetImageAllocator(a ImageAllocator) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images = a
}

// Initialize creates the Engine with the given options.  Any existing
// engine is closed first so only one handle is ever held.
func (l *Landmarker) Initialize(opts Options) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.state.(closed); ok {
		return ErrClosed
	}

	return l.initialize(opts)
}

// initialize must be called with mu held
func (l *Landmarker) initialize(opts Options) error {

	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if s, ok := l.state.(ready); ok {
		l.logger.Printf("replacing hand landmark engine")

		if err := s.engine.Close(); err != nil {
			return fmt.Errorf("error closing previous engine: %w", err)
		}

		l.state = uninitialized{}
	}

	engine, err := l.factory(opts)

	if err != nil {
		return fmt.Errorf("error creating engine: %w", err)
	}

	l.state = ready{engine: engine, opts: opts}
	return nil
}

// Options returns the options the engine was initialized with, false if it
// has not been initialized
func (l *Landmarker) Options() (Options, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.state.(ready); ok {
		return s.opts, true
	}

	return Options{}, false
}

// engine returns the ready engine state, initializing it with
// DefaultOptions if required.  Must be called with mu held.
func (l *Landmarker) engine() (ready, error) {

	switch s := l.state.(type) {
	case ready:
		return s, nil

	case uninitialized:
		l.logger.Printf("hand landmark engine not initialized, using default options")

		if err := l.initialize(DefaultOptions()); err != nil {
			return ready{}, err
		}

		return l.state.(ready), nil

	case closed:
		return ready{}, ErrClosed
	}

	return ready{}, fmt.Errorf("unknown engine state %s", l.state)
}

// DetectFromYUV converts the planar YUV frame to NV21 and returns the
// encoded hand landmarks.  Rotation is the clockwise rotation in degrees
// needed to make the frame upright.
func (l *Landmarker) DetectFromYUV(planes preprocess.YUVPlanes, rotation int) (string, error) {

	det, err := l.DetectHandsFromYUV(planes, rotation)

	if err != nil {
		return "", err
	}

	return encode(det)
}

// DetectFromRGBA passes a packed RGBA frame to the engine without copying
// and returns the encoded hand landmarks
func (l *Landmarker) DetectFromRGBA(buf []byte, width, height, rotation int) (string, error) {

	det, err := l.DetectHandsFromRGBA(buf, width, height, rotation)

	if err != nil {
		return "", err
	}

	return encode(det)
}

// DetectHandsFromYUV is DetectFromYUV returning the hands with their
// presence score and handedness instead of the encoded string
func (l *Landmarker) DetectHandsFromYUV(planes preprocess.YUVPlanes, rotation int) (result.Detection, error) {

	if err := planes.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	if err := checkRotation(rotation); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.engine()

	if err != nil {
		return nil, err
	}

	buf := l.pool.Get(preprocess.NV21Size(planes.Width, planes.Height))
	defer l.pool.Put(buf)

	preprocess.ConvertYUVToNV21Into(buf, planes)

	det, err := l.infer(s.engine, buf, preprocess.FormatNV21,
		planes.Width, planes.Height, rotation)

	if err != nil {
		return nil, err
	}

	return limitHands(det, s.opts.NumHands), nil
}

// DetectHandsFromRGBA is DetectFromRGBA returning the hands with their
// presence score and handedness instead of the encoded string
func (l *Landmarker) DetectHandsFromRGBA(buf []byte, width, height, rotation int) (result.Detection, error) {

	if err := preprocess.ValidateRGBA(buf, width, height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	if err := checkRotation(rotation); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.engine()

	if err != nil {
		return nil, err
	}

	det, err := l.infer(s.engine, buf, preprocess.FormatRGBA, width, height, rotation)

	if err != nil {
		return nil, err
	}

	return limitHands(det, s.opts.NumHands), nil
}

func checkRotation(rotation int) error {
	if !preprocess.ValidRotation(rotation) {
		return fmt.Errorf("%w: rotation %d not one of 0, 90, 180, 270",
			ErrPrecondition, rotation)
	}
	return nil
}

// limitHands keeps the first n hands in engine detection order
func limitHands(det result.Detection, n int) result.Detection {
	if len(det) > n {
		return det[:n]
	}
	return det
}

// infer wraps buf in an image handle, runs the engine and releases the
// handle on every return path.  A failed release fails the call.
func (l *Landmarker) infer(engine Engine, buf []byte, format preprocess.PixelFormat,
	width, height, rotation int) (det result.Detection, err error) {

	img, err := l.images.NewImage(buf, format, width, height, rotation)

	if err != nil {
		return nil, fmt.Errorf("error creating image: %w", err)
	}

	defer func() {
		if cerr := img.Close(); cerr != nil {
			det = nil
			err = errors.Join(err, fmt.Errorf("error releasing image: %w", cerr))
		}
	}()

	det, err = engine.Detect(img)

	if err != nil {
		return nil, fmt.Errorf("error running detection: %w", err)
	}

	return det, nil
}

// encode serializes the detection, no hands is always "[]"
func encode(det result.Detection) (string, error) {

	if len(det) == 0 {
		return result.Empty, nil
	}

	out, err := result.Encode(det)

	if err != nil {
		return "", fmt.Errorf("error encoding detection: %w", err)
	}

	return out, nil
}

// Close releases the engine.  The Landmarker can not be used afterwards.
func (l *Landmarker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.state.(ready)
	l.state = closed{}

	if !ok {
		return nil
	}

	return s.engine.Close()
}
