package preprocess

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// synthPlanes builds a frame with padded rows where every Y byte encodes its
// (row, col) position and every chroma sample encodes (cy, cx) with U and V
// distinguishable.  Padding bytes are set to 0xEE so any read of padding
// shows up in the output.
func synthPlanes(width, height, yStride, uvStride, pixStride int) YUVPlanes {

	y := bytes.Repeat([]byte{0xEE}, yStride*height)

	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			y[r*yStride+c] = lumaAt(r, c)
		}
	}

	uvH := height / 2
	uvW := width / 2
	u := bytes.Repeat([]byte{0xEE}, uvStride*uvH)
	v := bytes.Repeat([]byte{0xEE}, uvStride*uvH)

	for cy := 0; cy < uvH; cy++ {
		for cx := 0; cx < uvW; cx++ {
			off := cy*uvStride + cx*pixStride
			u[off] = chromaU(cx, cy)
			v[off] = chromaV(cx, cy)
		}
	}

	return YUVPlanes{
		Y: y, U: u, V: v,
		Width: width, Height: height,
		YRowStride: yStride, UVRowStride: uvStride, UVPixelStride: pixStride,
	}
}

func lumaAt(r, c int) byte {
	return byte((r*16 + c) % 200)
}

func chromaU(cx, cy int) byte {
	return byte(0x40 + (cy*8+cx)%64)
}

func chromaV(cx, cy int) byte {
	return byte(0x80 + (cy*8+cx)%64)
}

func TestConvertYUVToNV21Size(t *testing.T) {

	tests := []struct {
		width, height, yStride, uvStride, pixStride int
	}{
		{2, 2, 2, 1, 1},
		{4, 2, 4, 2, 1},
		{8, 6, 8, 4, 1},
		{8, 6, 16, 8, 1},
		{8, 6, 8, 8, 2},
		{8, 6, 12, 10, 2},
		{640, 480, 640, 640, 2},
		{640, 480, 704, 352, 1},
	}

	for _, tc := range tests {
		p := synthPlanes(tc.width, tc.height, tc.yStride, tc.uvStride, tc.pixStride)

		if err := p.Validate(); err != nil {
			t.Fatalf("%dx%d: unexpected validation error: %v", tc.width, tc.height, err)
		}

		out := ConvertYUVToNV21(p)

		if want := tc.width * tc.height * 3 / 2; len(out) != want {
			t.Errorf("%dx%d strides (%d,%d,%d): got %d bytes, expected %d",
				tc.width, tc.height, tc.yStride, tc.uvStride, tc.pixStride, len(out), want)
		}

		if bytes.IndexByte(out, 0xEE) != -1 {
			t.Errorf("%dx%d strides (%d,%d,%d): padding byte copied into output",
				tc.width, tc.height, tc.yStride, tc.uvStride, tc.pixStride)
		}
	}
}

func TestConvertYUVToNV21Layout(t *testing.T) {

	const (
		width  = 8
		height = 4
	)

	for _, pixStride := range []int{1, 2} {
		p := synthPlanes(width, height, 12, 10, pixStride)
		out := ConvertYUVToNV21(p)

		// luma copied row by row without padding
		for r := 0; r < height; r++ {
			for c := 0; c < width; c++ {
				if got, want := out[r*width+c], lumaAt(r, c); got != want {
					t.Fatalf("pixStride %d: Y(%d,%d)=%#x, expected %#x", pixStride, r, c, got, want)
				}
			}
		}

		// chroma interleaved V then U at the subsampled position
		base := width * height

		for cy := 0; cy < height/2; cy++ {
			for cx := 0; cx < width/2; cx++ {
				idx := base + (cy*(width/2)+cx)*2

				if got, want := out[idx], chromaV(cx, cy); got != want {
					t.Errorf("pixStride %d: V(%d,%d)=%#x, expected %#x", pixStride, cx, cy, got, want)
				}

				if got, want := out[idx+1], chromaU(cx, cy); got != want {
					t.Errorf("pixStride %d: U(%d,%d)=%#x, expected %#x", pixStride, cx, cy, got, want)
				}
			}
		}
	}
}

func TestConvertYUVToNV21AliasedPlanes(t *testing.T) {

	const (
		width  = 4
		height = 4
	)

	// a camera buffer holding NV12 style interleaved chroma (U first) where U
	// and V alias the same storage one byte apart
	uv := []byte{
		0x10, 0x20, 0x11, 0x21, 0xAA, // row 0 plus padding
		0x12, 0x22, 0x13, 0x23,
	}

	p := YUVPlanes{
		Y:             make([]byte, width*height),
		U:             uv,
		V:             uv[1:],
		Width:         width,
		Height:        height,
		YRowStride:    width,
		UVRowStride:   5,
		UVPixelStride: 2,
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	out := ConvertYUVToNV21(p)
	want := []byte{0x20, 0x10, 0x21, 0x11, 0x22, 0x12, 0x23, 0x13}

	if got := out[width*height:]; !bytes.Equal(got, want) {
		t.Errorf("chroma = % x, expected % x", got, want)
	}
}

func TestNV21PlanesRoundTrip(t *testing.T) {

	const (
		width  = 6
		height = 4
	)

	src := make([]byte, NV21Size(width, height))

	for i := range src {
		src[i] = byte(i)
	}

	p, err := NV21Planes(src, width, height)

	if err != nil {
		t.Fatalf("NV21Planes: %v", err)
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	if out := ConvertYUVToNV21(p); !bytes.Equal(out, src) {
		t.Errorf("nv21 round trip mismatch\n got % x\nwant % x", out, src)
	}
}

func TestI420Planes(t *testing.T) {

	const (
		width  = 4
		height = 2
	)

	// Y0..Y7, U0 U1, V0 V1
	src := []byte{0, 1, 2, 3, 4, 5, 6, 7, 0x40, 0x41, 0x80, 0x81}

	p, err := I420Planes(src, width, height)

	if err != nil {
		t.Fatalf("I420Planes: %v", err)
	}

	out := ConvertYUVToNV21(p)
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7, 0x80, 0x40, 0x81, 0x41}

	if !bytes.Equal(out, want) {
		t.Errorf("got % x, expected % x", out, want)
	}

	if _, err := I420Planes(src[:len(src)-1], width, height); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("short buffer: expected ErrInvalidFrame, got %v", err)
	}
}

func TestYUVPlanesValidate(t *testing.T) {

	valid := synthPlanes(8, 4, 8, 4, 1)

	tests := []struct {
		name   string
		mutate func(p *YUVPlanes)
	}{
		{"odd width", func(p *YUVPlanes) { p.Width = 7 }},
		{"odd height", func(p *YUVPlanes) { p.Height = 3 }},
		{"zero width", func(p *YUVPlanes) { p.Width = 0 }},
		{"y stride below width", func(p *YUVPlanes) { p.YRowStride = 6 }},
		{"zero pixel stride", func(p *YUVPlanes) { p.UVPixelStride = 0 }},
		{"uv stride too small for pixel stride", func(p *YUVPlanes) { p.UVPixelStride = 2 }},
		{"short y plane", func(p *YUVPlanes) { p.Y = p.Y[:len(p.Y)-1] }},
		{"short u plane", func(p *YUVPlanes) { p.U = p.U[:len(p.U)-1] }},
		{"short v plane", func(p *YUVPlanes) { p.V = p.V[:len(p.V)-1] }},
		{"y stride wraps int", func(p *YUVPlanes) { p.YRowStride = math.MaxInt/3 + 1 }},
		{"y stride max int", func(p *YUVPlanes) { p.YRowStride = math.MaxInt }},
		{"uv stride wraps int", func(p *YUVPlanes) { p.UVRowStride = math.MaxInt }},
		{"uv pixel stride wraps int", func(p *YUVPlanes) {
			p.UVPixelStride = math.MaxInt / 2
			p.UVRowStride = math.MaxInt
		}},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid planes rejected: %v", err)
	}

	for _, tc := range tests {
		p := valid
		tc.mutate(&p)

		if err := p.Validate(); !errors.Is(err, ErrInvalidFrame) {
			t.Errorf("%s: expected ErrInvalidFrame, got %v", tc.name, err)
		}
	}
}

func TestConvertYUVToNV21IntoShortBuffer(t *testing.T) {

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for undersized destination buffer")
		}
	}()

	p := synthPlanes(4, 4, 4, 2, 1)
	ConvertYUVToNV21Into(make([]byte, NV21Size(4, 4)-1), p)
}

func TestValidateRGBA(t *testing.T) {

	if err := ValidateRGBA(make([]byte, 4*2*4), 4, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if RGBASize(4, 2) != 32 {
		t.Errorf("RGBASize = %d, expected 32", RGBASize(4, 2))
	}

	if err := ValidateRGBA(make([]byte, 31), 4, 2); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("short buffer: expected ErrInvalidFrame, got %v", err)
	}

	if err := ValidateRGBA(make([]byte, 33), 4, 2); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("long buffer: expected ErrInvalidFrame, got %v", err)
	}

	if err := ValidateRGBA(make([]byte, 4*3*4), 4, 3); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("odd height: expected ErrInvalidFrame, got %v", err)
	}

	if err := ValidateRGBA(nil, 0, 0); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("zero size: expected ErrInvalidFrame, got %v", err)
	}
}
