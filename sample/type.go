// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"

	"github.com/ik5/sndkit/internal/byteorder"
)

// Type is the on-disk encoding of one sample.
type Type int

const (
	Unknown         Type = iota
	BShort               // 16-bit signed, big-endian
	MuLaw                // 8-bit G.711 mu-law
	Byte                 // 8-bit signed
	BFloat               // 32-bit float, big-endian
	BInt                 // 32-bit signed big-endian, 24-bit fraction
	ALaw                 // 8-bit G.711 a-law
	UByte                // 8-bit unsigned
	B24Int               // 24-bit signed, big-endian
	BDouble              // 64-bit float, big-endian
	LShort               // 16-bit signed, little-endian
	LInt                 // 32-bit signed little-endian, 24-bit fraction
	LFloat               // 32-bit float, little-endian
	LDouble              // 64-bit float, little-endian
	UBShort              // 16-bit unsigned, big-endian
	ULShort              // 16-bit unsigned, little-endian
	L24Int               // 24-bit signed, little-endian
	BIntN                // 32-bit signed big-endian, normalized to 2^31
	LIntN                // 32-bit signed little-endian, normalized to 2^31
	BFloatUnscaled       // 32-bit float big-endian in the 16-bit integer range
	LFloatUnscaled       // 32-bit float little-endian in the 16-bit integer range
	BDoubleUnscaled      // 64-bit float big-endian in the 16-bit integer range
	LDoubleUnscaled      // 64-bit float little-endian in the 16-bit integer range

	numTypes
)

// UnscaledFactor bridges the unscaled float variants to the normalized domain.
const UnscaledFactor = 32768.0

type typeInfo struct {
	name  string
	short string
	bytes int
	order byteorder.Order
	float bool
}

var types = [numTypes]typeInfo{
	Unknown:         {"unknown", "unknown", 0, byteorder.BigEndian, false},
	BShort:          {"big endian short (16 bits)", "bshort", 2, byteorder.BigEndian, false},
	MuLaw:           {"mulaw (8 bits)", "mulaw", 1, byteorder.BigEndian, false},
	Byte:            {"signed byte (8 bits)", "byte", 1, byteorder.BigEndian, false},
	BFloat:          {"big endian float (32 bits)", "bfloat", 4, byteorder.BigEndian, true},
	BInt:            {"big endian int (32 bits)", "bint", 4, byteorder.BigEndian, false},
	ALaw:            {"alaw (8 bits)", "alaw", 1, byteorder.BigEndian, false},
	UByte:           {"unsigned byte (8 bits)", "ubyte", 1, byteorder.BigEndian, false},
	B24Int:          {"big endian int (24 bits)", "b24int", 3, byteorder.BigEndian, false},
	BDouble:         {"big endian double (64 bits)", "bdouble", 8, byteorder.BigEndian, true},
	LShort:          {"little endian short (16 bits)", "lshort", 2, byteorder.LittleEndian, false},
	LInt:            {"little endian int (32 bits)", "lint", 4, byteorder.LittleEndian, false},
	LFloat:          {"little endian float (32 bits)", "lfloat", 4, byteorder.LittleEndian, true},
	LDouble:         {"little endian double (64 bits)", "ldouble", 8, byteorder.LittleEndian, true},
	UBShort:         {"unsigned big endian short (16 bits)", "ubshort", 2, byteorder.BigEndian, false},
	ULShort:         {"unsigned little endian short (16 bits)", "ulshort", 2, byteorder.LittleEndian, false},
	L24Int:          {"little endian int (24 bits)", "l24int", 3, byteorder.LittleEndian, false},
	BIntN:           {"normalized big endian int (32 bits)", "bintn", 4, byteorder.BigEndian, false},
	LIntN:           {"normalized little endian int (32 bits)", "lintn", 4, byteorder.LittleEndian, false},
	BFloatUnscaled:  {"big endian float (32 bits, unscaled)", "bfloat-unscaled", 4, byteorder.BigEndian, true},
	LFloatUnscaled:  {"little endian float (32 bits, unscaled)", "lfloat-unscaled", 4, byteorder.LittleEndian, true},
	BDoubleUnscaled: {"big endian double (64 bits, unscaled)", "bdouble-unscaled", 8, byteorder.BigEndian, true},
	LDoubleUnscaled: {"little endian double (64 bits, unscaled)", "ldouble-unscaled", 8, byteorder.LittleEndian, true},
}

// Types lists every known encoding, Unknown excluded.
func Types() []Type {
	out := make([]Type, 0, numTypes-1)
	for t := BShort; t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t names a known encoding.
func (t Type) Valid() bool { return t > Unknown && t < numTypes }

func (t Type) info() typeInfo {
	if t < 0 || t >= numTypes {
		return types[Unknown]
	}
	return types[t]
}

// Name is the long human readable name.
func (t Type) Name() string { return t.info().name }

// String is the short name, also accepted by ParseType.
func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("sample.Type(%d)", int(t))
	}
	return t.info().short
}

// Bytes is the on-disk width of one sample, 0 for Unknown.
func (t Type) Bytes() int { return t.info().bytes }

// Bits is the on-disk width in bits.
func (t Type) Bits() int { return t.info().bytes * 8 }

// IsFloat reports the float and double variants, scaled or not.
func (t Type) IsFloat() bool { return t.info().float }

// IsUnscaled reports the float variants stored in the 16-bit integer range.
func (t Type) IsUnscaled() bool {
	switch t {
	case BFloatUnscaled, LFloatUnscaled, BDoubleUnscaled, LDoubleUnscaled:
		return true
	}
	return false
}

// Order is the byte order; single-byte types report big-endian.
func (t Type) Order() byteorder.Order { return t.info().order }

// IsLittleEndian is true for multi-byte little-endian encodings.
func (t Type) IsLittleEndian() bool { return t.Bytes() > 1 && t.info().order == byteorder.LittleEndian }

// ParseType maps a short name ("lshort", "mulaw", ...) back to a Type.
func ParseType(s string) (Type, error) {
	for t := BShort; t < numTypes; t++ {
		if types[t].short == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// BytesToSamples converts a byte count to a sample count for t.
func BytesToSamples(t Type, n int64) int64 {
	w := int64(t.Bytes())
	if w == 0 {
		return 0
	}
	return n / w
}

// SamplesToBytes converts a sample count to a byte count for t.
func SamplesToBytes(t Type, n int64) int64 { return n * int64(t.Bytes()) }
