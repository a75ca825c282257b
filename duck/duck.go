// Package duck ties the codec to real files: it packs payloads, renders
// duck carriers and recovers payloads from uploaded images.
package duck

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/audio"
	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/media"
	"github.com/missolin/duck-image-tool/models"
	"github.com/missolin/duck-image-tool/stego"
)

const Version = "1.2"

// MinPSNR is the quality floor below which a rendered carrier is logged as
// visibly altered.
const MinPSNR = 30.0

// plainOverhead is the framing cost of a payload with no password and no
// extension: length prefix, flag, ext length and data length.
const plainOverhead = stego.LengthPrefixBytes + 1 + 1 + 4

// ErrInvalidOptions marks hide options rejected before any encoding happens.
var ErrInvalidOptions = errors.New("duck: invalid options")

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "webp": true, "qoi": true,
}

// Reveal decodes an uploaded carrier image and undoes every payload transform.
func Reveal(imageData []byte, password string) (*models.RevealResult, error) {
	carrier, _, err := imageio.Decode(imageData)
	if err != nil {
		return nil, err
	}

	dec := &stego.Decoder{Logger: log.With().Str("component", "duck").Logger()}
	res, err := dec.Decode(carrier, password)
	if err != nil {
		return nil, err
	}

	data, ext, err := media.Unpack(res.Data, res.Ext)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack payload: %w", err)
	}

	out := &models.RevealResult{
		Data:        data,
		Ext:         ext,
		StoredExt:   res.Ext,
		ContentType: media.ContentType(ext),
		Bits:        res.Bits,
		Media:       probeMedia(data, ext),
	}
	if ext == "txt" {
		if text, err := media.DecodeText(data); err == nil {
			out.Text = text
		}
	}
	return out, nil
}

// probeMedia describes recognised payloads; unrecognised or malformed files
// yield nil.
func probeMedia(data []byte, ext string) *models.MediaInfo {
	switch {
	case imageExts[ext]:
		cfg, _, err := imageio.DecodeConfig(data)
		if err != nil {
			return nil
		}
		return &models.MediaInfo{Kind: "image", Width: cfg.Width, Height: cfg.Height}
	case ext == "wav":
		meta, err := audio.ProbeWAV(data)
		if err != nil {
			return nil
		}
		return &models.MediaInfo{Kind: "audio", Audio: meta}
	case ext == "mp3":
		meta, err := audio.ProbeMP3(data)
		if err != nil {
			return nil
		}
		return &models.MediaInfo{Kind: "audio", Audio: meta}
	case media.IsVideo(ext):
		return &models.MediaInfo{Kind: "video"}
	}
	return nil
}

// Inspect reports the dimensions and per-depth capacity of a carrier, and
// which depths hold a structurally valid header.
func Inspect(imageData []byte) (*models.CapacityReport, error) {
	carrier, _, err := imageio.Decode(imageData)
	if err != nil {
		return nil, err
	}

	mask := stego.ComputeMask(carrier.Width, carrier.Height)
	report := &models.CapacityReport{
		Width:  carrier.Width,
		Height: carrier.Height,
	}
	if mask.Active() {
		report.Watermark = models.Region{Width: mask.SkipW, Height: mask.SkipH}
	}

	for _, k := range stego.CandidateBits {
		bits := stego.Capacity(carrier.Width, carrier.Height, k)
		report.Capacities = append(report.Capacities, models.BitsUsage{
			Bits:         k,
			CapacityBits: bits,
			MaxPayload:   max(bits/8-plainOverhead, 0),
			Decodes:      hasHeader(carrier, k),
		})
	}
	return report, nil
}

func hasHeader(c *stego.Carrier, k int) bool {
	header, err := stego.ExtractHeader(c, k)
	if err != nil {
		return false
	}
	_, err = stego.UnmarshalHeader(header)
	return err == nil
}
