// SPDX-License-Identifier: EPL-2.0

package header

import (
	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// NeXT/Sun header: magic, data location, data size, format, rate, chans,
// then a comment up to the data location.
const (
	nextHeaderSize = 24
	nextMinComment = 4
	nextSizeField  = 8
	nextFormField  = 12
	nextRateField  = 16
	nextChansField = 20
	nextUnknown    = 0xFFFFFFFF
)

// NeXT format codes.
var nextCodes = map[int]sample.Type{
	1:  sample.MuLaw,
	2:  sample.Byte,
	3:  sample.BShort,
	4:  sample.B24Int,
	5:  sample.BIntN,
	6:  sample.BFloat,
	7:  sample.BDouble,
	18: sample.BShort, // emphasized
	27: sample.ALaw,
}

func nextCode(st sample.Type) (uint32, bool) {
	for code, t := range nextCodes {
		if t == st && code != 18 {
			return uint32(code), true
		}
	}
	return 0, false
}

// isNeXT looks at the magic only; parseNeXT rejects a short fixed header.
func isNeXT(h []byte) (byteorder.Order, bool) {
	if len(h) < 4 {
		return byteorder.BigEndian, false
	}
	switch string(h[:4]) {
	case ".snd":
		return byteorder.BigEndian, true
	case "dns.":
		return byteorder.LittleEndian, true
	}
	return byteorder.BigEndian, false
}

// BICSF files are IRCAM files behind a NeXT header.
var bicsfReader = readerFunc{
	typ: BICSF,
	detect: func(h []byte, _ int64) bool {
		if _, ok := isNeXT(h); !ok || len(h) < 32 {
			return false
		}
		_, ok := ircamMagic(h[28:32])
		return ok
	},
	parse: func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
		d, off, err := parseNeXT(in)
		if err != nil {
			return nil, off, err
		}
		d.Type = BICSF
		return d, off, nil
	},
}

var nextReader = readerFunc{
	typ: NeXT,
	detect: func(h []byte, _ int64) bool {
		_, ok := isNeXT(h)
		return ok
	},
	parse: parseNeXT,
}

func parseNeXT(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	o, _ := isNeXT(in.Head)
	h := in.Head
	if len(h) < nextHeaderSize {
		return nil, PendingWriteOffsets{}, in.fail(NeXT, "truncated header (%d bytes)", len(h))
	}
	d := in.descriptor(NeXT)

	loc := int64(o.Uint32(h[4:8]))
	size := int64(o.Uint32(h[8:12]))
	code := int(o.Uint32(h[12:16]))
	d.SampleRate = int(o.Uint32(h[16:20]))
	d.Chans = int(o.Uint32(h[20:24]))
	d.OriginalFormat = code

	if loc < nextHeaderSize {
		return nil, PendingWriteOffsets{}, in.fail(NeXT, "data location %d inside the header", loc).at(4)
	}
	d.DataLocation = loc

	st, ok := nextCodes[code]
	if ok && o == byteorder.LittleEndian {
		st = littleVariant(st)
	}
	d.SampleType = st

	if size == 0 || size == nextUnknown || loc+size > in.Size() {
		size = in.Size() - loc
	}
	d.Samples = BytesToSamples(d.SampleType, size)
	if loc > nextHeaderSize {
		d.Comment = in.textRange(nextHeaderSize, loc)
	}

	return d, PendingWriteOffsets{DataSize: nextSizeField, Comment: nextHeaderSize}, nil
}

// littleVariant maps a big-endian encoding to its little-endian twin.
func littleVariant(st sample.Type) sample.Type {
	switch st {
	case sample.BShort:
		return sample.LShort
	case sample.B24Int:
		return sample.L24Int
	case sample.BInt:
		return sample.LInt
	case sample.BIntN:
		return sample.LIntN
	case sample.BFloat:
		return sample.LFloat
	case sample.BDouble:
		return sample.LDouble
	case sample.UBShort:
		return sample.ULShort
	}
	return st
}
