package media

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/missolin/duck-image-tool/stego"
)

var (
	titleBackground = color.NRGBA{R: 40, G: 32, B: 8, A: 255}
	titleForeground = color.NRGBA{R: 255, G: 236, B: 140, A: 255}
)

// TitleRegion is the rectangle DrawTitle paints: the carrier's watermark region.
func TitleRegion(width, height int) image.Rectangle {
	m := stego.ComputeMask(width, height)
	if !m.Active() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, m.SkipW, m.SkipH)
}

// DrawTitle renders title inside the watermark region of img. Nothing outside
// that region is touched, so the title never disturbs payload bits.
func DrawTitle(img *image.NRGBA, title string) {
	b := img.Bounds()
	region := TitleRegion(b.Dx(), b.Dy()).Add(b.Min)
	if region.Empty() {
		return
	}

	dst := img.SubImage(region).(*image.NRGBA)
	draw.Draw(dst, region, image.NewUniform(titleBackground), image.Point{}, draw.Src)

	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(titleForeground),
		Face: face,
	}
	const pad = 4
	title = fitTitle(d, title, region.Dx()-2*pad)

	// Centre the baseline vertically; glyphs that do not fit are clipped by dst.
	ascent := face.Metrics().Ascent.Ceil()
	y := region.Min.Y + (region.Dy()+ascent)/2 - 1
	d.Dot = fixed.P(region.Min.X+pad, y)
	d.DrawString(title)
}

// fitTitle shortens s with a trailing "..." until it fits in width pixels.
func fitTitle(d *font.Drawer, s string, width int) string {
	if width <= 0 {
		return ""
	}
	if d.MeasureString(s).Ceil() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if d.MeasureString(candidate).Ceil() <= width {
			return candidate
		}
	}
	return ""
}
