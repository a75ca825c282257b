// Package stego hides payloads in the low-order bits of RGB carrier images.
package stego

import (
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of bytes per carrier pixel.
const Channels = 3

// Carrier is an RGB pixel buffer flattened row-major, channel-minor.
// len(Pix) == Width*Height*Channels.
type Carrier struct {
	Width  int
	Height int
	Pix    []byte
}

func NewCarrier(width, height int) *Carrier {
	return &Carrier{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

func (c *Carrier) Validate() error {
	if c == nil {
		return fmt.Errorf("carrier is nil")
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid carrier dimensions %dx%d", c.Width, c.Height)
	}
	if len(c.Pix) != c.Width*c.Height*Channels {
		return fmt.Errorf("carrier buffer has %d bytes, want %d", len(c.Pix), c.Width*c.Height*Channels)
	}
	return nil
}

func (c *Carrier) Clone() *Carrier {
	pix := make([]byte, len(c.Pix))
	copy(pix, c.Pix)
	return &Carrier{Width: c.Width, Height: c.Height, Pix: pix}
}

// CarrierFromImage copies the RGB channels of img. Alpha is dropped without
// premultiplying, so NRGBA sources keep their exact channel bytes.
func CarrierFromImage(img image.Image) *Carrier {
	b := img.Bounds()
	c := NewCarrier(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < c.Height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copyRGB(c.Pix[y*c.Width*Channels:], row, c.Width)
		}
	case *image.RGBA:
		for y := 0; y < c.Height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copyRGB(c.Pix[y*c.Width*Channels:], row, c.Width)
		}
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				c.Pix[i], c.Pix[i+1], c.Pix[i+2] = px.R, px.G, px.B
				i += Channels
			}
		}
	}

	return c
}

func copyRGB(dst, rgba []byte, width int) {
	for x := 0; x < width; x++ {
		dst[x*Channels] = rgba[x*4]
		dst[x*Channels+1] = rgba[x*4+1]
		dst[x*Channels+2] = rgba[x*4+2]
	}
}

// Image returns an opaque NRGBA copy of the carrier.
func (c *Carrier) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, j := 0, 0; i < len(c.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = c.Pix[i]
		img.Pix[j+1] = c.Pix[i+1]
		img.Pix[j+2] = c.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
