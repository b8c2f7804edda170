// SPDX-License-Identifier: EPL-2.0

package sample

import "fmt"

// Bounds holds the per-channel extremes of a block of samples.
type Bounds struct {
	Min []float64
	Max []float64
}

// MaxAmp returns max(|Min|, |Max|) for channel ch.
func (b Bounds) MaxAmp(ch int) float64 {
	lo, hi := -b.Min[ch], b.Max[ch]
	if lo > hi {
		return lo
	}
	return hi
}

// MinMax scans interleaved samples of t and returns per-channel bounds.
// A trailing partial frame is ignored.
func MinMax(src []byte, t Type, chans int) (Bounds, error) {
	w := t.Bytes()
	if !t.Valid() || w == 0 {
		return Bounds{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if chans <= 0 {
		return Bounds{}, fmt.Errorf("%w: %d channels", ErrChannelMismatch, chans)
	}

	b := Bounds{Min: make([]float64, chans), Max: make([]float64, chans)}
	frames := len(src) / (w * chans)
	if frames == 0 {
		return b, nil
	}

	const block = 1024
	buf := make([]float64, min(frames, block))
	for ch := range chans {
		lo, hi := 0.0, 0.0
		first := true
		for start := 0; start < frames; start += block {
			n := min(block, frames-start)
			decodeInto(buf[:n], src[(start*chans+ch)*w:], t, chans*w)
			for _, v := range buf[:n] {
				if first {
					lo, hi, first = v, v, false
					continue
				}
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
		b.Min[ch], b.Max[ch] = lo, hi
	}
	return b, nil
}

// Convert re-encodes n samples from src (type from) into dst (type to).
func Convert(dst []byte, to Type, src []byte, from Type, c *Clipper) (int, error) {
	if !from.Valid() || !to.Valid() {
		return 0, ErrUnknownType
	}
	n := len(src) / from.Bytes()
	if len(dst) < n*to.Bytes() {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n*to.Bytes(), len(dst))
	}

	const block = 4096
	buf := make([]float64, min(max(n, 1), block))
	for start := 0; start < n; start += block {
		k := min(block, n-start)
		decodeInto(buf[:k], src[start*from.Bytes():], from, from.Bytes())
		encodeFrom(dst[start*to.Bytes():], buf[:k], to, to.Bytes(), c)
	}
	return n, nil
}
