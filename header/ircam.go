// SPDX-License-Identifier: EPL-2.0

package header

import (
	"math"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// IRCAM headers occupy a fixed 1024 bytes. The magic records the byte order
// of the machine that wrote it.
const (
	ircamHeaderSize = 1024
	ircamCodesStart = 16

	ircamVAX  = 0x64a30100
	ircamSun  = 0x64a30200
	ircamMIPS = 0x64a30300
	ircamNeXT = 0x64a30400
)

// Pack modes.
const (
	ircamChar  = 0x00001
	ircamALaw  = 0x10001
	ircamMuLaw = 0x20001
	ircamShort = 0x00002
	ircam24Int = 0x00003
	ircamLong  = 0x40004
	ircamFloat = 0x00004
)

// Code blocks following the fixed fields.
const (
	ircamEnd     = 0
	ircamMaxAmp  = 1
	ircamComment = 2
)

func ircamMagic(b []byte) (byteorder.Order, bool) {
	switch byteorder.BEUint32(b) {
	case ircamSun, ircamNeXT, ircamVAX, ircamMIPS:
		return byteorder.BigEndian, true
	}
	switch byteorder.LEUint32(b) {
	case ircamVAX, ircamMIPS, ircamSun, ircamNeXT:
		return byteorder.LittleEndian, true
	}
	return byteorder.BigEndian, false
}

var ircamReader = readerFunc{
	typ: IRCAM,
	detect: func(h []byte, _ int64) bool {
		_, ok := ircamMagic(h)
		return ok
	},
	parse: parseIRCAM,
}

func ircamSampleType(mode uint32, o byteorder.Order) sample.Type {
	little := o == byteorder.LittleEndian
	switch mode {
	case ircamChar:
		return sample.Byte
	case ircamALaw:
		return sample.ALaw
	case ircamMuLaw:
		return sample.MuLaw
	case ircamShort:
		return pick(little, sample.LShort, sample.BShort)
	case ircam24Int:
		return pick(little, sample.L24Int, sample.B24Int)
	case ircamLong:
		return pick(little, sample.LIntN, sample.BIntN)
	case ircamFloat:
		return pick(little, sample.LFloat, sample.BFloat)
	}
	return sample.Unknown
}

func ircamPackMode(st sample.Type) (uint32, bool) {
	switch st {
	case sample.Byte:
		return ircamChar, true
	case sample.ALaw:
		return ircamALaw, true
	case sample.MuLaw:
		return ircamMuLaw, true
	case sample.BShort, sample.LShort:
		return ircamShort, true
	case sample.B24Int, sample.L24Int:
		return ircam24Int, true
	case sample.BIntN, sample.LIntN:
		return ircamLong, true
	case sample.BFloat, sample.LFloat:
		return ircamFloat, true
	}
	return 0, false
}

func parseIRCAM(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	if len(in.Head) < ircamCodesStart {
		return nil, PendingWriteOffsets{}, in.fail(IRCAM, "header truncated")
	}
	o, _ := ircamMagic(in.Head)
	h := in.Head
	d := in.descriptor(IRCAM)

	rate := o.Float32(h[4:8])
	if math.IsNaN(float64(rate)) || rate < 0 || rate > math.MaxInt32 {
		return nil, PendingWriteOffsets{}, in.fail(IRCAM, "bad sample rate %v", rate).at(4)
	}
	d.SampleRate = int(rate + 0.5)
	d.Chans = int(o.Uint32(h[8:12]))
	mode := o.Uint32(h[12:16])
	d.OriginalFormat = int(mode)
	d.SampleType = ircamSampleType(mode, o)
	d.DataLocation = ircamHeaderSize
	if d.DataLocation > in.Size() {
		return nil, PendingWriteOffsets{}, in.fail(IRCAM, "file shorter than the %d-byte header", ircamHeaderSize)
	}
	d.Samples = BytesToSamples(d.SampleType, in.Size()-d.DataLocation)
	d.Comment = readIRCAMComment(in, o)

	return d, PendingWriteOffsets{Comment: ircamCodesStart}, nil
}

func readIRCAMComment(in *Input, o byteorder.Order) Range {
	pos := int64(ircamCodesStart)
	for pos+4 <= ircamHeaderSize {
		var b [4]byte
		if in.ReadAt(b[:], pos, "IRCAM code block") != nil {
			return Range{}
		}
		code := o.Uint16(b[0:2])
		size := int64(o.Uint16(b[2:4]))
		switch {
		case code == ircamEnd || size < 4:
			return Range{}
		case code == ircamComment:
			return in.textRange(pos+4, pos+size)
		}
		pos += size
	}
	return Range{}
}
