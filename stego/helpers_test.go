package stego

import "testing"

func patternCarrier(w, h int) *Carrier {
	c := NewCarrier(w, h)
	for i := range c.Pix {
		c.Pix[i] = byte(i*37 + i/7)
	}
	return c
}

func patternBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*131 + 7)
	}
	return b
}

// includedIndices lists the Pix offsets that carry payload, in write order.
func includedIndices(c *Carrier) []int {
	cur := newChannelCursor(ComputeMask(c.Width, c.Height))
	var out []int
	for {
		idx, ok := cur.next()
		if !ok {
			return out
		}
		out = append(out, idx)
	}
}

func requireKind(t *testing.T, err error, kinds ...Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kinds)
	}
	got := KindOf(err)
	for _, k := range kinds {
		if got == k {
			return
		}
	}
	t.Fatalf("expected error of kind %v, got %q (%v)", kinds, got, err)
}
