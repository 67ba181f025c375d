// Package frame implements C10: the small amount of decode-helper logic
// needed to treat observation.frame as the self-describing PNG/JPEG blob
// the wire contract promises, since consumers must detect the format from
// the bytes themselves rather than a side channel.
package frame

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
)

// Format identifies the compressed image encoding a frame was sent in.
type Format int

const (
	// Unknown is returned when neither magic-byte signature matches.
	Unknown Format = iota
	PNG
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// DetectFormat inspects the leading bytes of a frame and reports which
// compressed image format it is, without attempting a full decode.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	default:
		return Unknown
	}
}

// Dimensions reads a frame's width and height from its header without
// decoding pixel data, letting callers compare against an expected
// resolution cheaply (see base_env.py's Frame-Size-Mismatch check, which
// this reproduces against a configured width/height instead of decoded
// NDArray shape).
func Dimensions(data []byte) (width, height int, err error) {
	switch DetectFormat(data) {
	case PNG:
		cfg, decErr := png.DecodeConfig(bytes.NewReader(data))
		if decErr != nil {
			return 0, 0, fmt.Errorf("frame: decode png header: %w", decErr)
		}
		return cfg.Width, cfg.Height, nil
	case JPEG:
		cfg, decErr := jpeg.DecodeConfig(bytes.NewReader(data))
		if decErr != nil {
			return 0, 0, fmt.Errorf("frame: decode jpeg header: %w", decErr)
		}
		return cfg.Width, cfg.Height, nil
	default:
		return 0, 0, fmt.Errorf("frame: unknown image format, cannot read dimensions")
	}
}
