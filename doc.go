/*
go-handlandmarker bridges a camera pipeline's raw pixel buffers to a hand
landmark inference engine and serializes the engine's output into a compact
deterministic string for consumption across a language or process boundary.

A Landmarker converts each camera frame into a normalized image, either
NV21 from planar YUV planes with arbitrary row and pixel strides, or a
packed RGBA buffer passed through without copying.  The image is handed to
an Engine together with the frame rotation and the detected hands are
encoded as

	[[{"x":0.1,"y":0.2,"z":0.3},...],...]

with "[]" when no hands are found.

The rknn subpackage provides an Engine backed by the Rockchip NPU.  See the
example subdirectory for usage.
*/
package handlandmarker
