package frame_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/go-mclib/mcio/frame"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want frame.Format
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, frame.PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}, frame.JPEG},
		{"empty", nil, frame.Unknown},
		{"garbage", []byte("not an image"), frame.Unknown},
	}
	for _, tt := range tests {
		if got := frame.DetectFormat(tt.data); got != tt.want {
			t.Errorf("%s: DetectFormat() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if frame.PNG.String() != "png" || frame.JPEG.String() != "jpeg" || frame.Unknown.String() != "unknown" {
		t.Fatal("unexpected Format.String() output")
	}
}

func TestDimensionsPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 854, 480))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	w, h, err := frame.Dimensions(buf.Bytes())
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 854 || h != 480 {
		t.Fatalf("Dimensions = (%d, %d), want (854, 480)", w, h)
	}
}

func TestDimensionsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 360))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	w, h, err := frame.Dimensions(buf.Bytes())
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 640 || h != 360 {
		t.Fatalf("Dimensions = (%d, %d), want (640, 360)", w, h)
	}
}

func TestDimensionsUnknownFormat(t *testing.T) {
	if _, _, err := frame.Dimensions([]byte("not an image")); err == nil {
		t.Fatal("expected an error for an undetectable format")
	}
}
