package stego

import (
	"fmt"
)

const (
	MinBits = 1
	MaxBits = 8
)

func validateBits(k int) error {
	if k < MinBits || k > MaxBits {
		return &Error{Kind: KindInvalidBits, Message: fmt.Sprintf("bits per channel must be between %d and %d, got %d", MinBits, MaxBits, k)}
	}
	return nil
}

func lowMask(k int) byte {
	return byte((1 << k) - 1)
}

// Capacity is the number of payload bits a width x height carrier holds at k
// bits per included channel byte.
func Capacity(width, height, k int) int {
	return ComputeMask(width, height).IncludedPixels() * Channels * k
}

// channelCursor walks the included channel bytes of a carrier in row-major,
// channel-minor order, skipping the watermark region.
type channelCursor struct {
	mask Mask
	row  int
	col  int
	ch   int
}

func newChannelCursor(m Mask) *channelCursor {
	return &channelCursor{mask: m, col: m.rowStart(0)}
}

// next returns the Pix index of the next included channel byte.
func (cur *channelCursor) next() (int, bool) {
	for cur.row < cur.mask.Height {
		if cur.col < cur.mask.Width {
			idx := (cur.row*cur.mask.Width+cur.col)*Channels + cur.ch
			cur.ch++
			if cur.ch == Channels {
				cur.ch = 0
				cur.col++
			}
			return idx, true
		}
		cur.row++
		cur.col = cur.mask.rowStart(cur.row)
	}
	return 0, false
}

// Write stores stream MSB-first in the k low-order bits of the included
// channel bytes of c. Each touched byte has its low k bits cleared before the
// group is OR-ed in; a trailing partial group is padded with zero bits.
// Bytes past the end of the stream are left untouched.
func Write(stream []byte, c *Carrier, k int) error {
	if err := validateBits(k); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	need := len(stream) * 8
	available := Capacity(c.Width, c.Height, k)
	if need > available {
		return &Error{
			Kind:    KindCapacity,
			Message: fmt.Sprintf("Payload too large: need %d bits, carrier holds %d bits at k=%d. 图像容量不足", need, available, k),
		}
	}

	cur := newChannelCursor(ComputeMask(c.Width, c.Height))
	mask := lowMask(k)
	put := func(group uint) {
		idx, _ := cur.next()
		c.Pix[idx] = (c.Pix[idx] &^ mask) | (byte(group) & mask)
	}

	var acc uint
	n := 0
	for _, b := range stream {
		for i := 7; i >= 0; i-- {
			acc = acc<<1 | uint(b>>i)&1
			n++
			if n == k {
				put(acc)
				acc, n = 0, 0
			}
		}
	}
	if n > 0 {
		put(acc << (k - n))
	}

	return nil
}

// BitStream is a packed MSB-first bit sequence.
type BitStream struct {
	data []byte
	n    int
}

func (s *BitStream) Len() int {
	return s.n
}

func (s *BitStream) Bit(i int) byte {
	return (s.data[i/8] >> (7 - i%8)) & 1
}

// Bytes returns the packed stream; a trailing partial byte is zero padded.
func (s *BitStream) Bytes() []byte {
	return s.data
}

func (s *BitStream) push(v uint, width int) {
	for i := width - 1; i >= 0; i-- {
		if s.n%8 == 0 {
			s.data = append(s.data, 0)
		}
		s.data[len(s.data)-1] |= byte((v>>i)&1) << (7 - s.n%8)
		s.n++
	}
}

// Read extracts the low k bits of every included channel byte of c, in the
// order Write stores them. It never judges the content.
func Read(c *Carrier, k int) (*BitStream, error) {
	if err := validateBits(k); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	total := Capacity(c.Width, c.Height, k)
	s := &BitStream{data: make([]byte, 0, (total+7)/8)}
	cur := newChannelCursor(ComputeMask(c.Width, c.Height))
	mask := lowMask(k)
	for {
		idx, ok := cur.next()
		if !ok {
			break
		}
		s.push(uint(c.Pix[idx]&mask), k)
	}
	return s, nil
}
