// SPDX-License-Identifier: EPL-2.0

package byteorder

import (
	"math"

	goaudio "github.com/go-audio/audio"
)

// Extended80 decodes a big-endian 80-bit IEEE 754 extended float, the
// sample-rate encoding of AIFF COMM chunks.
func Extended80(b []byte) float64 {
	exp := int(b[0]&0x7f)<<8 | int(b[1])
	hi := BEUint32(b[2:6])
	lo := BEUint32(b[6:10])

	if exp == 0 && hi == 0 && lo == 0 {
		return 0
	}
	if exp == 0x7fff {
		if b[0]&0x80 != 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	exp -= 16383
	v := math.Ldexp(float64(hi), exp-31) + math.Ldexp(float64(lo), exp-63)
	if b[0]&0x80 != 0 {
		return -v
	}
	return v
}

// PutExtended80 stores v as an 80-bit extended float. Integral values go
// through go-audio's encoder so the bytes match what other AIFF writers emit.
func PutExtended80(b []byte, v float64) {
	if v >= 0 && v == math.Trunc(v) && v < 1<<31 {
		enc := goaudio.IntToIEEEFloat(int(v))
		copy(b[:10], enc[:])
		return
	}

	var sign uint16
	if v < 0 {
		sign = 0x8000
		v = -v
	}
	frac, exp := math.Frexp(v) // v = frac * 2^exp, frac in [0.5, 1)
	biased := uint16(exp+16382) | sign
	mant := uint64(math.Ldexp(frac, 64))

	b[0] = byte(biased >> 8)
	b[1] = byte(biased)
	BigEndian.PutUint64(b[2:10], mant)
}
