// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	scale7  = 1 << 7
	scale15 = 1 << 15
	scale23 = 1 << 23
	scale31 = 1 << 31

	inv7  = 1.0 / scale7
	inv15 = 1.0 / scale15
	inv23 = 1.0 / scale23
	inv31 = 1.0 / scale31
)

var (
	be = binary.BigEndian
	le = binary.LittleEndian
)

// Decode converts samples from src into normalized floats. It converts
// min(len(dst), len(src)/t.Bytes()) samples and returns that count.
// The unscaled float variants are bridged into [-1, 1] by UnscaledFactor.
func Decode(dst []float64, src []byte, t Type) (int, error) {
	w := t.Bytes()
	if !t.Valid() || w == 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	n := min(len(dst), len(src)/w)
	decodeInto(dst[:n], src, t, w)
	return n, nil
}

// DecodeNative is Decode without the unscaled bridge: unscaled variants come
// back in their stored numeric range.
func DecodeNative(dst []float64, src []byte, t Type) (int, error) {
	n, err := Decode(dst, src, t)
	if err != nil || !t.IsUnscaled() {
		return n, err
	}
	for i := range n {
		dst[i] *= UnscaledFactor
	}
	return n, nil
}

// DecodeChannels de-interleaves frames frames of chans := len(dst) channels.
// A single destination channel takes the mono path.
func DecodeChannels(dst [][]float64, src []byte, t Type, frames int) error {
	w := t.Bytes()
	if !t.Valid() || w == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	chans := len(dst)
	if chans == 0 {
		return ErrChannelMismatch
	}
	if len(src) < frames*chans*w {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, frames*chans*w, len(src))
	}
	for ch := range dst {
		if len(dst[ch]) < frames {
			return fmt.Errorf("%w: channel %d holds %d frames, want %d", ErrShortBuffer, ch, len(dst[ch]), frames)
		}
	}

	if chans == 1 {
		decodeInto(dst[0][:frames], src, t, w)
		return nil
	}
	for ch := range dst {
		decodeInto(dst[ch][:frames], src[ch*w:], t, chans*w)
	}
	return nil
}

// Encode converts len(src) normalized samples into dst and returns the count.
// c may be nil to disable clipping.
func Encode(dst []byte, src []float64, t Type, c *Clipper) (int, error) {
	w := t.Bytes()
	if !t.Valid() || w == 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if len(dst) < len(src)*w {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, len(src)*w, len(dst))
	}
	encodeFrom(dst, src, t, w, c)
	return len(src), nil
}

// EncodeChannels interleaves frames frames from the planar buffers in src.
func EncodeChannels(dst []byte, src [][]float64, t Type, frames int, c *Clipper) error {
	w := t.Bytes()
	if !t.Valid() || w == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	chans := len(src)
	if chans == 0 {
		return ErrChannelMismatch
	}
	if len(dst) < frames*chans*w {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, frames*chans*w, len(dst))
	}
	for ch := range src {
		if len(src[ch]) < frames {
			return fmt.Errorf("%w: channel %d holds %d frames, want %d", ErrShortBuffer, ch, len(src[ch]), frames)
		}
	}

	if chans == 1 {
		encodeFrom(dst, src[0][:frames], t, w, c)
		return nil
	}
	for ch := range src {
		encodeFrom(dst[ch*w:], src[ch][:frames], t, chans*w, c)
	}
	return nil
}

// decodeInto fills dst reading one sample every step bytes of src.
func decodeInto(dst []float64, src []byte, t Type, step int) {
	switch t {
	case BShort:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int16(be.Uint16(src[j:]))) * inv15
		}
	case LShort:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int16(le.Uint16(src[j:]))) * inv15
		}
	case UBShort:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int(be.Uint16(src[j:]))-scale15) * inv15
		}
	case ULShort:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int(le.Uint16(src[j:]))-scale15) * inv15
		}
	case Byte:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int8(src[j])) * inv7
		}
	case UByte:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int(src[j])-scale7) * inv7
		}
	case MuLaw:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(muLawTable[src[j]]) * inv15
		}
	case ALaw:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(aLawTable[src[j]]) * inv15
		}
	case B24Int:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			v := int32(src[j])<<24 | int32(src[j+1])<<16 | int32(src[j+2])<<8
			dst[i] = float64(v>>8) * inv23
		}
	case L24Int:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			v := int32(src[j+2])<<24 | int32(src[j+1])<<16 | int32(src[j])<<8
			dst[i] = float64(v>>8) * inv23
		}
	case BInt:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int32(be.Uint32(src[j:]))) * inv23
		}
	case LInt:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int32(le.Uint32(src[j:]))) * inv23
		}
	case BIntN:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int32(be.Uint32(src[j:]))) * inv31
		}
	case LIntN:
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(int32(le.Uint32(src[j:]))) * inv31
		}
	case BFloat, BFloatUnscaled:
		k := 1.0
		if t == BFloatUnscaled {
			k = 1.0 / UnscaledFactor
		}
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(math.Float32frombits(be.Uint32(src[j:]))) * k
		}
	case LFloat, LFloatUnscaled:
		k := 1.0
		if t == LFloatUnscaled {
			k = 1.0 / UnscaledFactor
		}
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = float64(math.Float32frombits(le.Uint32(src[j:]))) * k
		}
	case BDouble, BDoubleUnscaled:
		k := 1.0
		if t == BDoubleUnscaled {
			k = 1.0 / UnscaledFactor
		}
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = math.Float64frombits(be.Uint64(src[j:])) * k
		}
	case LDouble, LDoubleUnscaled:
		k := 1.0
		if t == LDoubleUnscaled {
			k = 1.0 / UnscaledFactor
		}
		for i, j := 0, 0; i < len(dst); i, j = i+1, j+step {
			dst[i] = math.Float64frombits(le.Uint64(src[j:])) * k
		}
	}
}

// encodeFrom writes src into dst, one sample every step bytes.
func encodeFrom(dst []byte, src []float64, t Type, step int, c *Clipper) {
	hi := MaxValue(t)
	switch t {
	case BShort, LShort:
		order := binary.ByteOrder(be)
		if t == LShort {
			order = le
		}
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			order.PutUint16(dst[j:], uint16(int64(v*scale15)))
		}
	case UBShort, ULShort:
		order := binary.ByteOrder(be)
		if t == ULShort {
			order = le
		}
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			order.PutUint16(dst[j:], uint16(int64(v*scale15)+scale15))
		}
	case Byte:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			dst[j] = byte(int64(v * scale7))
		}
	case UByte:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			dst[j] = byte(int64(v*scale7) + scale7)
		}
	case MuLaw:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			dst[j] = LinearToMuLaw(int16(int64(v * scale15)))
		}
	case ALaw:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			dst[j] = LinearToALaw(int16(int64(v * scale15)))
		}
	case B24Int:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			n := int32(int64(v * scale23))
			dst[j], dst[j+1], dst[j+2] = byte(n>>16), byte(n>>8), byte(n)
		}
	case L24Int:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			n := int32(int64(v * scale23))
			dst[j], dst[j+1], dst[j+2] = byte(n), byte(n>>8), byte(n>>16)
		}
	case BInt, LInt, BIntN, LIntN:
		order := binary.ByteOrder(be)
		if t == LInt || t == LIntN {
			order = le
		}
		k := float64(scale23)
		if t == BIntN || t == LIntN {
			k = scale31
		}
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			order.PutUint32(dst[j:], uint32(int64(v*k)))
		}
	case BFloat, LFloat, BFloatUnscaled, LFloatUnscaled:
		order := binary.ByteOrder(be)
		if t == LFloat || t == LFloatUnscaled {
			order = le
		}
		k := 1.0
		if t.IsUnscaled() {
			k = UnscaledFactor
		}
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			order.PutUint32(dst[j:], math.Float32bits(float32(v*k)))
		}
	case BDouble, LDouble, BDoubleUnscaled, LDoubleUnscaled:
		order := binary.ByteOrder(be)
		if t == LDouble || t == LDoubleUnscaled {
			order = le
		}
		k := 1.0
		if t.IsUnscaled() {
			k = UnscaledFactor
		}
		for i, j := 0, 0; i < len(src); i, j = i+1, j+step {
			v := src[i]
			if c != nil {
				v = c.clip(v, hi)
			}
			order.PutUint64(dst[j:], math.Float64bits(v*k))
		}
	}
}
