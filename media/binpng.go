// Package media adapts arbitrary files to and from the opaque payload bytes
// the codec embeds.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/missolin/duck-image-tool/stego"
)

const (
	BinPNGWidth  = 512
	BinPNGSuffix = ".binpng"
)

var ErrNotBinPNG = errors.New("media: payload is not a binpng image")

// BytesToBinImage packs data straight into RGB pixel values, width pixels per
// row, zero padded to a whole number of rows.
func BytesToBinImage(data []byte, width int) *image.NRGBA {
	if width <= 0 {
		width = BinPNGWidth
	}
	rowBytes := width * stego.Channels
	height := max((len(data)+rowBytes-1)/rowBytes, 1)

	c := stego.NewCarrier(width, height)
	copy(c.Pix, data)
	return c.Image()
}

// BytesToBinPNG is BytesToBinImage encoded as a PNG file.
func BytesToBinPNG(data []byte, width int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, BytesToBinImage(data, width)); err != nil {
		return nil, fmt.Errorf("failed to encode binpng: %w", err)
	}
	return buf.Bytes(), nil
}

// BinPNGToBytes flattens a binpng image back into bytes. Trailing zero bytes
// are indistinguishable from padding and are dropped.
func BinPNGToBytes(pngData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBinPNG, err)
	}
	flat := stego.CarrierFromImage(img).Pix
	return bytes.TrimRight(flat, "\x00"), nil
}
