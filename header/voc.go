// SPDX-License-Identifier: EPL-2.0

package header

import (
	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

const vocMagic = "Creative Voice File\x1a"

// VOC block types.
const (
	vocTerminator = 0
	vocSoundData  = 1
	vocContinue   = 2
	vocSilence    = 3
	vocText       = 5
	vocExtended   = 8
	vocSoundNew   = 9
)

var vocReader = readerFunc{
	typ: VOC,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 26 && string(h[:len(vocMagic)]) == vocMagic
	},
	parse: parseVOC,
}

func vocType(format, bits int) sample.Type {
	switch format {
	case 0:
		return sample.UByte
	case 4:
		if bits == 16 {
			return sample.LShort
		}
		return sample.UByte
	case 6:
		return sample.ALaw
	case 7:
		return sample.MuLaw
	}
	return sample.Unknown
}

func parseVOC(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	le := byteorder.LittleEndian
	d := in.descriptor(VOC)
	d.Chans = 1

	pos := int64(le.Uint16(in.Head[20:22]))
	if pos < 26 {
		return nil, PendingWriteOffsets{}, in.fail(VOC, "header size %d too small", pos).at(20)
	}

	extended := false
	for pos+4 <= in.Size() {
		var b [4]byte
		if err := in.ReadAt(b[:], pos, "VOC block header"); err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		kind := int(b[0])
		size := int64(b[1]) | int64(b[2])<<8 | int64(b[3])<<16
		body := pos + 4

		switch kind {
		case vocTerminator:
			return nil, PendingWriteOffsets{}, in.fail(VOC, "no sound data block")

		case vocSoundData:
			var p [2]byte
			if err := in.ReadAt(p[:], body, "VOC sound block"); err != nil {
				return nil, PendingWriteOffsets{}, err
			}
			if !extended {
				if d.SampleRate == 0 && p[0] != 0 {
					d.SampleRate = 1000000 / (256 - int(p[0]))
				}
				d.OriginalFormat = int(p[1])
				d.SampleType = sample.Unknown
				if p[1] == 0 {
					d.SampleType = sample.UByte
				}
			}
			d.DataLocation = body + 2
			d.Samples = BytesToSamples(d.SampleType, size-2)
			return d, PendingWriteOffsets{}, nil

		case vocExtended:
			var p [4]byte
			if err := in.ReadAt(p[:], body, "VOC extended block"); err != nil {
				return nil, PendingWriteOffsets{}, err
			}
			tc := int(le.Uint16(p[0:2]))
			if p[3] == 1 {
				d.Chans = 2
			}
			if tc < 65536 {
				d.SampleRate = 256000000 / (65536 - tc) / d.Chans
			}
			d.OriginalFormat = int(p[2])
			d.SampleType = sample.Unknown
			if p[2] == 0 {
				d.SampleType = sample.UByte
			}
			extended = true

		case vocSoundNew:
			b, err := in.Bytes(body, 12, "VOC new sound block")
			if err != nil {
				return nil, PendingWriteOffsets{}, err
			}
			d.SampleRate = int(le.Uint32(b[0:4]))
			d.Bits = int(b[4])
			d.Chans = int(b[5])
			format := int(le.Uint16(b[6:8]))
			d.OriginalFormat = format
			d.SampleType = vocType(format, d.Bits)
			d.DataLocation = body + 12
			d.Samples = BytesToSamples(d.SampleType, size-12)
			return d, PendingWriteOffsets{}, nil

		case vocText:
			if d.Comment.Empty() {
				d.Comment = in.textRange(body, body+size)
			}
		}
		pos = body + size
	}
	return nil, PendingWriteOffsets{}, in.fail(VOC, "no sound data block")
}
