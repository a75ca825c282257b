package stego

import "math"

// PSNR measures, in dB, how far the payload-bearing channel bytes of stego
// drift from original. The watermark region is left out: it never carries
// payload bits, so it would only dilute the error. Identical carriers give
// +Inf; carriers of different size, or with nothing to compare, give 0.
func PSNR(original, stego *Carrier) float64 {
	if original == nil || stego == nil ||
		original.Width != stego.Width || original.Height != stego.Height ||
		original.Validate() != nil || stego.Validate() != nil {
		return 0
	}

	cur := newChannelCursor(ComputeMask(original.Width, original.Height))
	var sum float64
	n := 0
	for idx, ok := cur.next(); ok; idx, ok = cur.next() {
		d := float64(original.Pix[idx]) - float64(stego.Pix[idx])
		sum += d * d
		n++
	}
	if n == 0 {
		return 0
	}
	if sum == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255*float64(n)/sum)
}

// ValidatePSNR reports whether psnr reaches threshold; a lossless embed always does.
func ValidatePSNR(psnr, threshold float64) bool {
	return math.IsInf(psnr, 1) || psnr >= threshold
}
