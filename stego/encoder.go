package stego

import (
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Encoder renders payloads into freshly painted square canvases.
// The zero value embeds at 2 bits per channel byte.
type Encoder struct {
	Bits int
	// MinSide is the smallest canvas side; 0 means DefaultMinCanvasSide.
	MinSide int
	// FixedSide forces the canvas side, e.g. so a batch of images match.
	FixedSide int
	// Decorate may paint the canvas (a title, a logo) before embedding.
	// Only the watermark region survives intact; everything else may have
	// its low bits overwritten.
	Decorate func(img *image.NRGBA)
	Logger   zerolog.Logger
}

// Encoded is the outcome of an encode call.
type Encoded struct {
	Carrier     *Carrier
	Bits        int
	Side        int
	StreamBytes int
	PSNR        float64
}

func (e *Encoder) bits() int {
	if e.Bits == 0 {
		return 2
	}
	return e.Bits
}

// Encode builds the header stream for data and writes it into a canvas
// large enough to hold it.
func (e *Encoder) Encode(data []byte, password, ext string) (*Encoded, error) {
	k := e.bits()
	if err := validateBits(k); err != nil {
		return nil, err
	}

	stream, err := BuildHeader(data, password, ext)
	if err != nil {
		return nil, err
	}

	need := len(stream) * 8
	side := e.FixedSide
	if side == 0 {
		minSide := e.MinSide
		if minSide == 0 {
			minSide = DefaultMinCanvasSide
		}
		side = RequiredCanvasSize(need, k, minSide)
	} else if avail := Capacity(side, side, k); avail < need {
		return nil, &Error{
			Kind:    KindCapacity,
			Message: fmt.Sprintf("fixed canvas %dx%d holds %d bits at k=%d, payload needs %d", side, side, avail, k, need),
		}
	}

	canvas := NewCanvas(side)
	if e.Decorate != nil {
		img := canvas.Image()
		e.Decorate(img)
		canvas = CarrierFromImage(img)
	}
	clean := canvas.Clone()

	if err := Write(stream, canvas, k); err != nil {
		return nil, err
	}

	out := &Encoded{
		Carrier:     canvas,
		Bits:        k,
		Side:        side,
		StreamBytes: len(stream),
		PSNR:        PSNR(clean, canvas),
	}
	e.Logger.Info().
		Int("bits", k).
		Int("side", side).
		Str("stream", humanize.Bytes(uint64(len(stream)))).
		Float64("psnr", out.PSNR).
		Msg("payload embedded")

	return out, nil
}

// EncodeInto embeds data into an existing carrier at depth k. The carrier is
// modified in place; a CapacityError leaves it untouched.
func EncodeInto(c *Carrier, data []byte, password, ext string, k int) error {
	stream, err := BuildHeader(data, password, ext)
	if err != nil {
		return err
	}
	return Write(stream, c, k)
}
