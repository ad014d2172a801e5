package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/swdee/go-handlandmarker"
	"github.com/swdee/go-handlandmarker/postprocess/result"
	"github.com/swdee/go-handlandmarker/preprocess"
	"github.com/swdee/go-handlandmarker/render"
	"github.com/swdee/go-handlandmarker/rknn"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/hand_landmark-224-224-rk3588.rknn", "RKNN compiled hand landmark model file")
	frameFile := flag.String("i", "../data/hand-640x480.i420", "Raw YUV frame file to run hand landmark detection on")
	format := flag.String("f", "i420", "Raw frame format, either i420 or nv21")
	width := flag.Int("w", 640, "Frame width in pixels")
	height := flag.Int("h", 480, "Frame height in pixels")
	rotation := flag.Int("r", 0, "Clockwise rotation in degrees to make the frame upright")
	numHands := flag.Int("n", 2, "Maximum number of hands to report")
	confidence := flag.Float64("c", 0.5, "Minimum hand presence confidence")
	saveFile := flag.String("o", "", "Save annotated frame as JPEG to this file")

	flag.Parse()

	buf, err := os.ReadFile(*frameFile)

	if err != nil {
		log.Fatal("Error reading frame: ", err)
	}

	var planes preprocess.YUVPlanes

	switch *format {
	case "i420":
		planes, err = preprocess.I420Planes(buf, *width, *height)
	case "nv21":
		planes, err = preprocess.NV21Planes(buf, *width, *height)
	default:
		log.Fatalf("Unknown frame format %q", *format)
	}

	if err != nil {
		log.Fatal("Error reading frame planes: ", err)
	}

	// create landmarker backed by the rknn engine
	lm := handlandmarker.NewLandmarker(rknn.NewEngineFactory(*modelFile))
	defer lm.Close()

	opts := handlandmarker.DefaultOptions()
	opts.NumHands = *numHands
	opts.MinHandDetectionConfidence = float32(*confidence)

	if err := lm.Initialize(opts); err != nil {
		log.Fatal("Error initializing hand landmarker: ", err)
	}

	// keep the hands rather than the encoded string so the annotated frame
	// can be labelled with handedness and score
	hands, err := lm.DetectHandsFromYUV(planes, *rotation)

	if err != nil {
		log.Fatal("Error detecting hand landmarks: ", err)
	}

	encoded, err := result.Encode(hands)

	if err != nil {
		log.Fatal("Error encoding landmarks: ", err)
	}

	fmt.Println(encoded)

	for i, hand := range hands {
		log.Printf("%s\n", render.LabelText(i, hand))
	}

	if *saveFile == "" {
		return
	}

	if err := annotate(planes, *rotation, hands, *saveFile); err != nil {
		log.Fatal("Error saving annotated frame: ", err)
	}

	log.Printf("Saved annotated frame with %d hands to %s\n", len(hands), *saveFile)
}

// annotate renders the hands onto the upright frame and writes it as JPEG
func annotate(planes preprocess.YUVPlanes, rotation int, hands result.Detection,
	saveFile string) error {

	nv21 := preprocess.ConvertYUVToNV21(planes)

	alloc := handlandmarker.MatAllocator{}
	img, err := alloc.NewImage(nv21, preprocess.FormatNV21, planes.Width,
		planes.Height, rotation)

	if err != nil {
		return err
	}

	defer img.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()

	if err := preprocess.Orient(img.Mat(), img.Format, img.Rotation, &rgb); err != nil {
		return err
	}

	frame := gocv.NewMat()
	defer frame.Close()

	gocv.CvtColor(rgb, &frame, gocv.ColorRGBToBGR)

	render.HandOutline(&frame, hands, 12, render.Pink, 1)
	render.HandLandmarks(&frame, hands, 2)

	if err := render.HandLabels(&frame, hands, nil); err != nil {
		return err
	}

	if ok := gocv.IMWrite(saveFile, frame); !ok {
		return fmt.Errorf("failed to write %s", saveFile)
	}

	return nil
}
