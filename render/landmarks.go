package render

import (
	"image"

	"github.com/swdee/go-handlandmarker/postprocess/result"
	"gocv.io/x/gocv"
)

/* hand landmarks
0: Wrist
1-4: Thumb CMC, MCP, IP, Tip
5-8: Index MCP, PIP, DIP, Tip
9-12: Middle MCP, PIP, DIP, Tip
13-16: Ring MCP, PIP, DIP, Tip
17-20: Pinky MCP, PIP, DIP, Tip
*/

// bone is a line between two landmarks and the finger it belongs to
type bone struct {
	from, to int
	finger   int
}

var (
	// skeleton are the hand connections drawn between landmarks
	skeleton = []bone{
		// palm
		{0, 1, 0}, {0, 5, 0}, {5, 9, 0}, {9, 13, 0}, {13, 17, 0}, {0, 17, 0},
		// thumb
		{1, 2, 1}, {2, 3, 1}, {3, 4, 1},
		// index
		{5, 6, 2}, {6, 7, 2}, {7, 8, 2},
		// middle
		{9, 10, 3}, {10, 11, 3}, {11, 12, 3},
		// ring
		{13, 14, 4}, {14, 15, 4}, {15, 16, 4},
		// pinky
		{17, 18, 5}, {18, 19, 5}, {19, 20, 5},
	}
	// landmarksTotal is the number of landmarks in a hand skeleton
	landmarksTotal = 21
)

// landmarkFinger returns the finger index a landmark belongs to
func landmarkFinger(idx int) int {
	if idx == 0 {
		return 0
	}
	return (idx-1)/4 + 1
}

// toPixel converts a normalized landmark into pixel coordinates of img
func toPixel(img *gocv.Mat, lm result.Landmark) image.Point {
	return image.Pt(int(lm.X*float32(img.Cols())), int(lm.Y*float32(img.Rows())))
}

// HandLandmarks renders the skeleton of each detected hand onto img which
// must be the oriented frame the landmarks are normalized to.  Hands without
// the full 21 point skeleton have only their joints drawn.
func HandLandmarks(img *gocv.Mat, hands result.Detection, lineThickness int) {

	for _, hand := range hands {

		if len(hand.Landmarks) == landmarksTotal {
			for _, b := range skeleton {
				gocv.Line(img, toPixel(img, hand.Landmarks[b.from]),
					toPixel(img, hand.Landmarks[b.to]), fingerColors[b.finger], lineThickness)
			}
		}

		for j, lm := range hand.Landmarks {
			c := White

			if len(hand.Landmarks) == landmarksTotal {
				c = fingerColors[landmarkFinger(j)]
			}

			gocv.Circle(img, toPixel(img, lm), 3, c, -1)
		}
	}
}
