package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-handlandmarker/postprocess"
	"github.com/swdee/go-handlandmarker/postprocess/result"
	"gocv.io/x/gocv"
)

// HandOutline draws the padded convex region around each hand
func HandOutline(img *gocv.Mat, hands result.Detection, padding float64,
	c color.RGBA, lineThickness int) {

	for _, hand := range hands {
		region := postprocess.HandRegion(hand, img.Cols(), img.Rows(), padding)

		if len(region) < 3 {
			continue
		}

		pts := gocv.NewPointsVectorFromPoints([][]image.Point{region})
		gocv.Polylines(img, pts, true, c, lineThickness)
		pts.Close()
	}
}
