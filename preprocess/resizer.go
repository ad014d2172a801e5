package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Resizer letterboxes oriented camera frames into the model's input tensor
// and keeps the geometry needed to map landmarks back to the frame.  The
// geometry is recalculated whenever a frame of a different size is fitted.
type Resizer struct {
	// input is the model input size
	input image.Point
	// frame is the size of the oriented frame last fitted
	frame image.Point
	// scaled is the frame size after scaling, before padding
	scaled image.Point
	// pad is the left and top letterbox border
	pad   image.Point
	scale float64
	// scratch holds the scaled frame before padding
	scratch gocv.Mat
}

// NewResizer returns a resizer for a model input of inputWidth x
// inputHeight pixels.  Fit or LetterBoxResize sets the frame geometry.
func NewResizer(inputWidth, inputHeight int) *Resizer {
	return &Resizer{
		input:   image.Pt(inputWidth, inputHeight),
		scratch: gocv.NewMat(),
	}
}

// Close frees the scratch Mat
func (r *Resizer) Close() error {
	return r.scratch.Close()
}

// Fit sets the geometry for frames of frameWidth x frameHeight so the whole
// frame fits the input whilst keeping its aspect ratio.  Fitting the same
// size again is a no-op.
func (r *Resizer) Fit(frameWidth, frameHeight int) {

	frame := image.Pt(frameWidth, frameHeight)

	if frame == r.frame {
		return
	}

	r.frame = frame
	r.scaled = r.input

	scaleW := float64(r.input.X) / float64(frame.X)
	scaleH := float64(r.input.Y) / float64(frame.Y)

	if scaleW < scaleH {
		r.scale = scaleW
		r.scaled.Y = int(float64(frame.Y) * r.scale)
	} else {
		r.scale = scaleH
		r.scaled.X = int(float64(frame.X) * r.scale)
	}

	r.pad = r.input.Sub(r.scaled).Div(2)
}

// LetterBoxResize fits src then scales it into dest padding the borders with
// color
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	r.Fit(src.Cols(), src.Rows())

	gocv.Resize(src, &r.scratch, r.scaled, 0, 0, gocv.InterpolationArea)

	rest := r.input.Sub(r.scaled).Sub(r.pad)

	gocv.CopyMakeBorder(r.scratch, dest, r.pad.Y, rest.Y, r.pad.X, rest.X,
		gocv.BorderConstant, color)
}

// Scale returns the frame to input scale factor
func (r *Resizer) Scale() float64 {
	return r.scale
}

// Padding returns the left and top letterbox border in input pixels
func (r *Resizer) Padding() image.Point {
	return r.pad
}

// Frame returns the size of the fitted frame
func (r *Resizer) Frame() image.Point {
	return r.frame
}

// ToNormalized maps an N x 3 matrix of model input pixel coordinates to
// coordinates normalized to the fitted frame.  The border is removed then x
// and z are divided by the scaled frame width and y by the scaled frame
// height, matching the depth units of the landmark model.
func (r *Resizer) ToNormalized(pts *mat.Dense) *mat.Dense {

	pad := []float64{float64(r.pad.X), float64(r.pad.Y), 0}

	var shifted mat.Dense
	shifted.Apply(func(_, j int, v float64) float64 {
		return v - pad[j]
	}, pts)

	sx := 1 / (r.scale * float64(r.frame.X))
	sy := 1 / (r.scale * float64(r.frame.Y))

	var out mat.Dense
	out.Mul(&shifted, mat.NewDiagDense(3, []float64{sx, sy, sx}))

	return &out
}
