// Package imageio reads and writes carrier image files.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/missolin/duck-image-tool/stego"
)

const DefaultFormat = "png"

var (
	ErrUnsupportedFormat = errors.New("imageio: unsupported carrier format")
	ErrDecode            = errors.New("imageio: cannot decode carrier image")
)

// writable formats are lossless; jpeg/gif/webp carriers can be read but a
// lossy or paletted re-encode would destroy the payload bits.
var contentTypes = map[string]string{
	"png": "image/png",
	"bmp": "image/bmp",
	"qoi": "image/qoi",
}

// NormalizeFormat maps a user supplied format name to a writable format.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if f == "" {
		return DefaultFormat, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f, nil
}

func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Decode reads any registered image format into an RGB carrier.
func Decode(data []byte) (*stego.Carrier, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return stego.CarrierFromImage(img), format, nil
}

// DecodeConfig reports dimensions without decoding pixels.
func DecodeConfig(data []byte) (image.Config, string, error) {
	return image.DecodeConfig(bytes.NewReader(data))
}

// Encode writes the carrier in one of the lossless formats.
func Encode(c *stego.Carrier, format string) ([]byte, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	img := c.Image()
	switch f {
	case "png":
		err = png.Encode(&buf, img)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "qoi":
		err = qoi.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s carrier: %w", f, err)
	}
	return buf.Bytes(), nil
}
