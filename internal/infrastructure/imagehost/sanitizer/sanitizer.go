package sanitizer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// DefaultMaxWidth matches the upload transform: shrink anything wider, never enlarge.
const DefaultMaxWidth = 1000

// AllowedMagicBytes defines magic bytes for allowed image types.
var AllowedMagicBytes = map[string][]byte{
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"image/webp": {0x52, 0x49, 0x46, 0x46}, // RIFF....WEBP
}

// DetectType detects the actual image type from magic bytes.
func DetectType(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("data too short to detect type")
	}
	if bytes.HasPrefix(data, AllowedMagicBytes["image/jpeg"]) {
		return "image/jpeg", nil
	}
	if bytes.HasPrefix(data, AllowedMagicBytes["image/png"]) {
		return "image/png", nil
	}
	if bytes.HasPrefix(data, AllowedMagicBytes["image/webp"]) && string(data[8:12]) == "WEBP" {
		return "image/webp", nil
	}
	return "", fmt.Errorf("unsupported image type")
}

// DecodeDataURL accepts "data:image/png;base64,...." or bare base64.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty image")
	}
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data url")
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("data url is not base64 encoded")
		}
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return data, nil
}

func DecodeImage(data []byte, mimeType string) (image.Image, error) {
	reader := bytes.NewReader(data)
	switch mimeType {
	case "image/jpeg":
		return jpeg.Decode(reader)
	case "image/png":
		return png.Decode(reader)
	case "image/webp":
		return webp.Decode(reader)
	default:
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}
}

// LimitWidth scales img down to maxWidth keeping the aspect ratio.
// Narrower images are returned unchanged.
func LimitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	dstH := int(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx()))
	if dstH < 1 {
		dstH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Process validates the bytes are a real image, applies the width limit and
// re-encodes as JPEG, dropping any metadata the upload carried.
func Process(data []byte, maxWidth int) ([]byte, error) {
	mimeType, err := DetectType(data)
	if err != nil {
		return nil, fmt.Errorf("invalid image type: %w", err)
	}
	img, err := DecodeImage(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, LimitWidth(img, maxWidth), &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURL is the inverse of DecodeDataURL. Unrecognised bytes are
// labelled application/octet-stream and left for the receiver to reject.
func EncodeDataURL(data []byte) string {
	mimeType, err := DetectType(data)
	if err != nil {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
