package render

import "image/color"

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}

	// fingerColors are the colors used for each finger's bones and joints,
	// palm first then thumb to pinky
	fingerColors = []color.RGBA{
		{R: 192, G: 192, B: 192, A: 255}, // palm
		{R: 255, G: 128, B: 0, A: 255},   // thumb
		{R: 230, G: 230, B: 0, A: 255},   // index
		{R: 51, G: 255, B: 51, A: 255},   // middle
		{R: 51, G: 153, B: 255, A: 255},  // ring
		{R: 255, G: 51, B: 255, A: 255},  // pinky
	}
)
