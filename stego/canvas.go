package stego

import "math"

const DefaultMinCanvasSide = 128

// BitsForCompress maps the encoder's compress setting to a bit depth.
func BitsForCompress(compress int) int {
	switch {
	case compress >= 8:
		return 8
	case compress >= 6:
		return 6
	default:
		return 2
	}
}

// RequiredCanvasSize returns the smallest square side, at least minSide,
// whose included capacity at depth k is at least bits.
func RequiredCanvasSize(bits, k, minSide int) int {
	side := max(minSide, 1)
	if k < MinBits {
		k = MinBits
	}
	if est := int(math.Ceil(math.Sqrt(float64(bits) / float64(Channels*k)))); est > side {
		side = est
	}
	for Capacity(side, side, k) < bits {
		side++
	}
	return side
}

// NewCanvas paints a deterministic yellow gradient background.
func NewCanvas(side int) *Carrier {
	c := NewCarrier(side, side)
	den := max(side-1, 1)
	i := 0
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			c.Pix[i] = 255
			c.Pix[i+1] = byte(190 + x*50/den)
			c.Pix[i+2] = byte(20 + y*80/den)
			i += Channels
		}
	}
	return c
}
