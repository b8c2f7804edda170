// SPDX-License-Identifier: EPL-2.0

package sample

// ClipHandler maps an out-of-range value to the value that gets encoded.
type ClipHandler func(v float64) float64

// Clipper is the per-stream clipping policy. A nil *Clipper encodes values
// as they come, letting integer encodings wrap exactly like a C cast would.
type Clipper struct {
	// Handler replaces the default clamp when set.
	Handler ClipHandler
}

// NewClipper returns a clamping clipper, routed through h when h is non-nil.
func NewClipper(h ClipHandler) *Clipper { return &Clipper{Handler: h} }

func (c *Clipper) clip(v, hi float64) float64 {
	if v >= -1 && v <= hi {
		return v
	}
	if c.Handler != nil {
		return c.Handler(v)
	}
	if v > hi {
		return hi
	}
	return -1
}

// MaxValue is the largest normalized value t can store without wrapping.
func MaxValue(t Type) float64 {
	switch t {
	case Byte, UByte:
		return 127.0 / 128.0
	case BShort, LShort, UBShort, ULShort, MuLaw, ALaw:
		return 32767.0 / 32768.0
	case B24Int, L24Int, BInt, LInt:
		return float64(1<<23-1) / float64(1<<23)
	case BIntN, LIntN:
		return float64(1<<31-1) / float64(1<<31)
	}
	return 1.0
}
