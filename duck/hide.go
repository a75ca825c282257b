package duck

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/crypto"
	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/media"
	"github.com/missolin/duck-image-tool/models"
	"github.com/missolin/duck-image-tool/stego"
)

const defaultBits = 2

// prepared is a validated and packed hide request, ready to render.
type prepared struct {
	opts    models.HideOptions
	format  string
	bits    int
	payload []byte
	ext     string
}

func prepare(opts models.HideOptions) (*prepared, error) {
	format, err := imageio.NormalizeFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := crypto.ValidatePassword(opts.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	// Decoders only try the candidate depths, so nothing else may be written.
	bits := opts.Bits
	if bits == 0 {
		bits = defaultBits
	}
	if !slices.Contains(stego.CandidateBits, bits) {
		return nil, fmt.Errorf("%w: bits must be one of %v, got %d", ErrInvalidOptions, stego.CandidateBits, opts.Bits)
	}

	payload, ext, err := media.Pack(opts.Data, opts.Ext, opts.Compress)
	if err != nil {
		return nil, fmt.Errorf("failed to pack payload: %w", err)
	}

	return &prepared{opts: opts, format: format, bits: bits, payload: payload, ext: ext}, nil
}

func (p *prepared) minSide() int {
	if p.opts.MinSide > 0 {
		return p.opts.MinSide
	}
	return stego.DefaultMinCanvasSide
}

// requiredSide is the smallest canvas side that holds the framed payload.
func (p *prepared) requiredSide() int {
	bits := stego.StreamLen(len(p.payload), p.opts.Password != "", p.ext) * 8
	return stego.RequiredCanvasSize(bits, p.bits, p.minSide())
}

func (p *prepared) render(fixedSide int, title string, logger zerolog.Logger) (*models.HideResult, error) {
	enc := &stego.Encoder{
		Bits:      p.bits,
		MinSide:   p.minSide(),
		FixedSide: fixedSide,
		Logger:    logger,
	}
	if title != "" {
		enc.Decorate = func(img *image.NRGBA) { media.DrawTitle(img, title) }
	}

	encoded, err := enc.Encode(p.payload, p.opts.Password, p.ext)
	if err != nil {
		return nil, err
	}

	out, err := imageio.Encode(encoded.Carrier, p.format)
	if err != nil {
		return nil, err
	}

	if !stego.ValidatePSNR(encoded.PSNR, MinPSNR) {
		logger.Warn().Float64("psnr", encoded.PSNR).Int("bits", encoded.Bits).Msg("carrier quality below threshold")
	}
	logger.Debug().
		Str("ext", p.ext).
		Str("input", humanize.Bytes(uint64(len(p.opts.Data)))).
		Str("payload", humanize.Bytes(uint64(len(p.payload)))).
		Str("image", humanize.Bytes(uint64(len(out)))).
		Msg("carrier rendered")

	return &models.HideResult{
		Image:       out,
		Format:      p.format,
		ContentType: imageio.ContentType(p.format),
		Ext:         p.ext,
		Bits:        encoded.Bits,
		Side:        encoded.Side,
		StreamBytes: encoded.StreamBytes,
		PSNR:        encoded.PSNR,
	}, nil
}

// Hide packs opts.Data and renders it into a new carrier image.
func Hide(opts models.HideOptions) (*models.HideResult, error) {
	p, err := prepare(opts)
	if err != nil {
		return nil, err
	}
	return p.render(opts.FixedSide, opts.Title, log.With().Str("component", "duck").Logger())
}

// HideBatch renders a list of payloads as a set of images that all share
// the side of the largest one. With more than one item each title is
// numbered "title (i/n)".
func HideBatch(items []models.HideOptions) ([]*models.HideResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to hide", ErrInvalidOptions)
	}

	batch := make([]*prepared, len(items))
	side := 0
	for i, opts := range items {
		p, err := prepare(opts)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		batch[i] = p
		side = max(side, p.requiredSide())
	}

	n := len(batch)
	logger := log.With().Str("component", "duck").Int("items", n).Int("side", side).Logger()
	results := make([]*models.HideResult, n)
	for i, p := range batch {
		res, err := p.render(side, BatchTitle(p.opts.Title, i, n), logger.With().Int("item", i+1).Logger())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		results[i] = res
	}
	return results, nil
}

// BatchTitle is the title HideBatch draws on item i (zero based) of n.
func BatchTitle(title string, i, n int) string {
	if n <= 1 {
		return title
	}
	return strings.TrimSpace(fmt.Sprintf("%s (%d/%d)", title, i+1, n))
}
