// SPDX-License-Identifier: EPL-2.0

package sample

// G.711 companding. Both decode tables are built once and never written
// afterwards; encoding follows the segment search of the ITU reference coder.

const (
	signBit   = 0x80
	quantMask = 0x0f
	segShift  = 4
	segMask   = 0x70
	muBias    = 0x84
	muClip    = 8159
)

var (
	muLawTable [256]int16
	aLawTable  [256]int16

	muSegEnd = [8]int{0x3f, 0x7f, 0xff, 0x1ff, 0x3ff, 0x7ff, 0xfff, 0x1fff}
	aSegEnd  = [8]int{0x1f, 0x3f, 0x7f, 0xff, 0x1ff, 0x3ff, 0x7ff, 0xfff}
)

func init() {
	for i := range 256 {
		muLawTable[i] = muLawToLinear(byte(i))
		aLawTable[i] = aLawToLinear(byte(i))
	}
}

func muLawToLinear(u byte) int16 {
	u = ^u
	t := (int(u&quantMask) << 3) + muBias
	t <<= (u & segMask) >> segShift
	if u&signBit != 0 {
		return int16(muBias - t)
	}
	return int16(t - muBias)
}

func aLawToLinear(a byte) int16 {
	a ^= 0x55
	t := int(a&quantMask) << 4
	seg := int(a&segMask) >> segShift
	switch seg {
	case 0:
		t += 8
	case 1:
		t += 0x108
	default:
		t += 0x108
		t <<= seg - 1
	}
	if a&signBit != 0 {
		return int16(t)
	}
	return int16(-t)
}

func segment(v int, table *[8]int) int {
	for i, end := range table {
		if v <= end {
			return i
		}
	}
	return len(table)
}

// LinearToMuLaw encodes a 16-bit linear sample.
func LinearToMuLaw(pcm int16) byte {
	v := int(pcm) >> 2
	mask := byte(0xff)
	if v < 0 {
		v = -v
		mask = 0x7f
	}
	if v > muClip {
		v = muClip
	}
	v += muBias >> 2

	seg := segment(v, &muSegEnd)
	if seg >= 8 {
		return 0x7f ^ mask
	}
	u := byte(seg<<4) | byte((v>>(seg+1))&quantMask)
	return u ^ mask
}

// LinearToALaw encodes a 16-bit linear sample.
func LinearToALaw(pcm int16) byte {
	v := int(pcm) >> 3
	mask := byte(0xd5)
	if v < 0 {
		mask = 0x55
		v = -v - 1
	}

	seg := segment(v, &aSegEnd)
	if seg >= 8 {
		return 0x7f ^ mask
	}
	a := byte(seg << segShift)
	if seg < 2 {
		a |= byte((v >> 1) & quantMask)
	} else {
		a |= byte((v >> seg) & quantMask)
	}
	return a ^ mask
}

// MuLawToLinear decodes through the shared table.
func MuLawToLinear(u byte) int16 { return muLawTable[u] }

// ALawToLinear decodes through the shared table.
func ALawToLinear(a byte) int16 { return aLawTable[a] }
