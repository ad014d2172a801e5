package postprocess

import (
	"image"
	"sort"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-handlandmarker/postprocess/result"
)

// HandRegion returns the outline of a hand in pixel coordinates of a
// width x height frame.  The convex hull of the landmarks is expanded
// outwards by padding pixels with rounded corners.  Nil is returned for a
// hand with fewer than three landmarks.
func HandRegion(hand result.Hand, width, height int, padding float64) []image.Point {

	if len(hand.Landmarks) < 3 {
		return nil
	}

	pts := make([]image.Point, len(hand.Landmarks))

	for i, lm := range hand.Landmarks {
		pts[i] = image.Point{
			X: int(lm.X * float32(width)),
			Y: int(lm.Y * float32(height)),
		}
	}

	hull := convexHull(pts)

	if len(hull) < 3 || padding <= 0 {
		return hull
	}

	var path clipper.Path

	for _, pt := range hull {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	solution := co.Execute(padding)

	var region []image.Point

	for _, sol := range solution {
		for _, pt := range sol {
			region = append(region, image.Point{X: int(pt.X), Y: int(pt.Y)})
		}
	}

	return region
}

// convexHull returns the convex hull of pts in counter clockwise order using
// the monotone chain algorithm.  Collinear points are dropped.
func convexHull(pts []image.Point) []image.Point {

	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	// remove duplicates
	uniq := sorted[:0]

	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			uniq = append(uniq, p)
		}
	}

	if len(uniq) < 3 {
		return uniq
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*len(uniq))

	// lower hull
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// upper hull
	lower := len(hull) + 1

	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]

		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// last point repeats the first
	return hull[:len(hull)-1]
}
