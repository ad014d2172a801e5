package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/swdee/go-handlandmarker/postprocess/result"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelText returns the label drawn for the hand at idx, eg: "#1 Right 97%".
// Hands decoded from the encoded string carry no score or handedness and
// are labelled by index only.
func LabelText(idx int, hand result.Hand) string {
	if hand.Handedness == result.HandUnknown && hand.Score == 0 {
		return fmt.Sprintf("#%d", idx+1)
	}
	return fmt.Sprintf("#%d %s %.0f%%", idx+1, hand.Handedness, hand.Score*100)
}

// HandLabels writes each hand's handedness and score above its wrist.  If
// face is nil the basic 7x13 bitmap font is used.
func HandLabels(img *gocv.Mat, hands result.Detection, face font.Face) error {

	if len(hands) == 0 {
		return nil
	}

	if face == nil {
		face = basicfont.Face7x13
	}

	// draw text onto a transparent layer then blend it over the frame
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{}), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(Yellow),
		Face: face,
	}

	for i, hand := range hands {
		if len(hand.Landmarks) == 0 {
			continue
		}

		pt := toPixel(img, hand.Landmarks[0])
		dr.Dot = fixed.P(pt.X, pt.Y-8)
		dr.DrawString(LabelText(i, hand))
	}

	layer, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if layer.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer layer.Close()

	gocv.CvtColor(layer, &layer, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, layer, 1.0, 0, img)

	return nil
}
