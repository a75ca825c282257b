package stego

const (
	WatermarkSkipWidthRatio  = 0.40
	WatermarkSkipHeightRatio = 0.08
)

// Mask describes the reserved top-left rectangle [0, SkipH) x [0, SkipW)
// that never carries payload bits. It is inactive unless both sides are positive.
type Mask struct {
	Width  int
	Height int
	SkipW  int
	SkipH  int
}

// ComputeMask derives the watermark region from the carrier dimensions alone,
// so encoder and decoder always agree on it.
func ComputeMask(width, height int) Mask {
	return Mask{
		Width:  width,
		Height: height,
		SkipW:  int(float64(width) * WatermarkSkipWidthRatio),
		SkipH:  int(float64(height) * WatermarkSkipHeightRatio),
	}
}

func (m Mask) Active() bool {
	return m.SkipW > 0 && m.SkipH > 0
}

// Included reports whether the pixel at (row, col) may carry payload bits.
func (m Mask) Included(row, col int) bool {
	if !m.Active() {
		return true
	}
	return !(row < m.SkipH && col < m.SkipW)
}

// IncludedPixels is the number of pixels outside the watermark region.
func (m Mask) IncludedPixels() int {
	total := m.Width * m.Height
	if !m.Active() {
		return total
	}
	return total - m.SkipW*m.SkipH
}

// rowStart is the first included column of row.
func (m Mask) rowStart(row int) int {
	if m.Active() && row < m.SkipH {
		return m.SkipW
	}
	return 0
}
