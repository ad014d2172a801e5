//go:build integration
// +build integration

package rknn

import (
	"image"
	"os"
	"testing"

	"github.com/swdee/go-handlandmarker"
	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
	"gocv.io/x/gocv"
)

func TestEngineDetect(t *testing.T) {

	modelFile := os.Getenv("RKNN_MODEL")

	if modelFile == "" {
		t.Fatalf("No Model file provided in RKNN_MODEL")
	}

	imgFile := os.Getenv("RKNN_IMAGE")

	if imgFile == "" {
		t.Fatalf("No Image file provided in RKNN_IMAGE")
	}

	img := gocv.IMRead(imgFile, gocv.IMReadColor)

	if img.Empty() {
		t.Fatalf("Error reading image from: %s", imgFile)
	}

	defer img.Close()

	// frames have even dimensions
	even := img.Region(image.Rect(0, 0, img.Cols()&^1, img.Rows()&^1))
	defer even.Close()

	// feed the image through the same packed path a camera would use
	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(even, &rgba, gocv.ColorBGRToRGBA)

	buf, err := rgba.DataPtrUint8()

	if err != nil {
		t.Fatalf("DataPtrUint8: %v", err)
	}

	lm := handlandmarker.NewLandmarker(NewEngineFactory(modelFile))
	defer lm.Close()

	if err := lm.Initialize(handlandmarker.DefaultOptions()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	out, err := lm.DetectFromRGBA(append([]byte(nil), buf...), rgba.Cols(), rgba.Rows(), 0)

	if err != nil {
		t.Fatalf("DetectFromRGBA: %v", err)
	}

	det, err := result.Decode(out)

	if err != nil {
		t.Fatalf("Decode(%s): %v", out, err)
	}

	if len(det) != 1 {
		t.Fatalf("expected one hand, got %d", len(det))
	}

	if n := len(det[0].Landmarks); n != 21 {
		t.Errorf("expected 21 landmarks, got %d", n)
	}

	for i, l := range det[0].Landmarks {
		if l.X < -0.1 || l.X > 1.1 || l.Y < -0.1 || l.Y > 1.1 {
			t.Errorf("landmark %d outside the frame: %+v", i, l)
		}
	}

	// same frame through the planar YUV path
	i420 := gocv.NewMat()
	defer i420.Close()
	gocv.CvtColor(even, &i420, gocv.ColorBGRToYUVI420)

	yuvBuf, err := i420.DataPtrUint8()

	if err != nil {
		t.Fatalf("DataPtrUint8: %v", err)
	}

	planes, err := preprocess.I420Planes(yuvBuf, even.Cols(), even.Rows())

	if err != nil {
		t.Fatalf("I420Planes: %v", err)
	}

	out, err = lm.DetectFromYUV(planes, 0)

	if err != nil {
		t.Fatalf("DetectFromYUV: %v", err)
	}

	if det, err = result.Decode(out); err != nil || len(det) != 1 {
		t.Errorf("yuv path: expected one hand, got %s (%v)", out, err)
	}
}
