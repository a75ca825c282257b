package stego

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsForCompress(t *testing.T) {
	for in, want := range map[int]int{0: 2, 2: 2, 5: 2, 6: 6, 7: 6, 8: 8, 12: 8} {
		assert.Equal(t, want, BitsForCompress(in), "compress %d", in)
	}
}

func TestRequiredCanvasSize(t *testing.T) {
	for _, tc := range []struct {
		bits, k, min int
	}{
		{bits: 8, k: 2, min: 1},
		{bits: 18 * 8, k: 2, min: 1},
		{bits: 100_000, k: 2, min: 16},
		{bits: 100_000, k: 6, min: 16},
		{bits: 1_000_000, k: 8, min: 16},
		{bits: 7, k: 2, min: 128},
	} {
		side := RequiredCanvasSize(tc.bits, tc.k, tc.min)
		assert.GreaterOrEqual(t, side, tc.min)
		assert.GreaterOrEqual(t, Capacity(side, side, tc.k), tc.bits)
		if side > tc.min {
			assert.Less(t, Capacity(side-1, side-1, tc.k), tc.bits, "side %d is not minimal", side)
		}
	}
}

func TestNewCanvas(t *testing.T) {
	a := NewCanvas(64)
	b := NewCanvas(64)
	assert.Equal(t, a.Pix, b.Pix)
	assert.NoError(t, a.Validate())
	assert.Equal(t, byte(255), a.Pix[0])

	one := NewCanvas(1)
	assert.Len(t, one.Pix, 3)
}

func TestPSNR(t *testing.T) {
	a := NewCanvas(16)
	assert.True(t, math.IsInf(PSNR(a, a.Clone()), 1))
	assert.Equal(t, 0.0, PSNR(a, NewCanvas(8)))

	// the watermark region does not count
	w := a.Clone()
	w.Pix[0] ^= 0xFF
	assert.True(t, math.IsInf(PSNR(a, w), 1))

	b := a.Clone()
	b.Pix[len(b.Pix)-1] ^= 0x03
	p := PSNR(a, b)
	// one byte off by 3 among 16*16*3-6*3 included bytes
	assert.InDelta(t, 10*math.Log10(255*255*750/9.0), p, 1e-9)
	assert.Greater(t, p, 40.0)
	assert.True(t, ValidatePSNR(p, 30))
	assert.False(t, ValidatePSNR(p, 1000))
}
