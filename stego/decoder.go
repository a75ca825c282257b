package stego

import (
	"encoding/binary"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// CandidateBits are the bit depths an encoder may have used, in trial order.
// The depth is never stored in the image.
var CandidateBits = []int{2, 6, 8}

// Result is a recovered payload.
type Result struct {
	Data []byte
	Ext  string
	Bits int
}

// Decoder recovers payloads by trying each candidate bit depth in turn.
// The zero value is ready to use.
type Decoder struct {
	// Candidates overrides CandidateBits when non-nil.
	Candidates []int
	Logger     zerolog.Logger
}

func Decode(c *Carrier, password string) (*Result, error) {
	var d Decoder
	return d.Decode(c, password)
}

// Decode tries every candidate depth in order and returns the first payload
// whose header parses and verifies. When all attempts fail, the error of the
// last attempt is returned as is.
func (d *Decoder) Decode(c *Carrier, password string) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	candidates := d.Candidates
	if candidates == nil {
		candidates = CandidateBits
	}

	var lastErr error
	for _, k := range candidates {
		res, err := d.DecodeBits(c, password, k)
		if err == nil {
			d.Logger.Info().
				Int("bits", k).
				Str("ext", res.Ext).
				Str("size", humanize.Bytes(uint64(len(res.Data)))).
				Msg("payload recovered")
			return res, nil
		}
		d.Logger.Debug().Int("bits", k).Err(err).Msg("trial decode failed")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = &Error{Kind: KindInvalidBits, Message: "no candidate bit depths to try"}
	}
	return nil, lastErr
}

// DecodeBits runs a single attempt at bit depth k.
func (d *Decoder) DecodeBits(c *Carrier, password string, k int) (*Result, error) {
	header, err := ExtractHeader(c, k)
	if err != nil {
		return nil, err
	}
	data, ext, err := ParseHeader(header, password)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data, Ext: ext, Bits: k}, nil
}

// ExtractHeader reads the bit stream at depth k, takes the 32-bit header
// length from bits [0:32] and returns bits [32:32+8*header_len] as bytes.
func ExtractHeader(c *Carrier, k int) ([]byte, error) {
	s, err := Read(c, k)
	if err != nil {
		return nil, err
	}
	const prefixBits = LengthPrefixBytes * 8
	if s.Len() < prefixBits {
		return nil, newError(KindCapacity, "Insufficient image data. 图像数据不足")
	}

	raw := s.Bytes()
	headerLen := binary.BigEndian.Uint32(raw[:LengthPrefixBytes])
	if headerLen == 0 || uint64(headerLen)*8 > uint64(s.Len()-prefixBits) {
		return nil, newError(KindHeaderCorrupt, "Payload length invalid. 载荷长度异常")
	}

	return raw[LengthPrefixBytes : LengthPrefixBytes+int(headerLen)], nil
}
