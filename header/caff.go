// SPDX-License-Identifier: EPL-2.0

package header

import (
	"math"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// CAFF desc format flags.
const (
	caffFloat        = 1
	caffLittleEndian = 2
)

const caffDescSize = 32

var caffReader = readerFunc{
	typ: CAFF,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 8 && string(h[:4]) == "caff"
	},
	parse: parseCAFF,
}

func caffSampleType(format string, flags uint32, bits int) sample.Type {
	switch format {
	case "ulaw":
		return sample.MuLaw
	case "alaw":
		return sample.ALaw
	case "lpcm":
	default:
		return sample.Unknown
	}

	little := flags&caffLittleEndian != 0
	if flags&caffFloat != 0 {
		switch bits {
		case 32:
			return pick(little, sample.LFloat, sample.BFloat)
		case 64:
			return pick(little, sample.LDouble, sample.BDouble)
		}
		return sample.Unknown
	}
	switch bits {
	case 8:
		return sample.Byte
	case 16:
		return pick(little, sample.LShort, sample.BShort)
	case 24:
		return pick(little, sample.L24Int, sample.B24Int)
	case 32:
		return pick(little, sample.LIntN, sample.BIntN)
	}
	return sample.Unknown
}

func caffFormat(st sample.Type) (format string, flags uint32) {
	switch st {
	case sample.MuLaw:
		return "ulaw", 0
	case sample.ALaw:
		return "alaw", 0
	}
	if st.IsFloat() {
		flags |= caffFloat
	}
	if st.IsLittleEndian() {
		flags |= caffLittleEndian
	}
	return "lpcm", flags
}

func parseCAFF(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	be := byteorder.BigEndian
	d := in.descriptor(CAFF)
	var off PendingWriteOffsets
	var (
		haveDesc, haveData bool
		dataBytes          int64
	)

	err := walkChunks(in, 8, caffWalk, func(c chunk) (bool, error) {
		switch c.id {
		case "desc":
			b, err := in.Bytes(c.data, caffDescSize, "desc chunk")
			if err != nil {
				return true, err
			}
			rate := be.Float64(b[0:8])
			if math.IsNaN(rate) || rate < 0 || rate > math.MaxInt32 {
				return true, in.fail(CAFF, "bad sample rate %v", rate).at(c.data)
			}
			d.SampleRate = int(rate + 0.5)
			format := string(b[8:12])
			flags := be.Uint32(b[12:16])
			d.Chans = int(be.Uint32(b[24:28]))
			d.Bits = int(be.Uint32(b[28:32]))
			d.BlockAlign = int(be.Uint32(b[16:20]))
			d.OriginalFormat = fourcc(format)
			d.SampleType = caffSampleType(format, flags, d.Bits)
			off.Format, off.FormatSize = c.data, c.size
			haveDesc = true

		case "data":
			// 4-byte edit count precedes the samples.
			d.DataLocation = c.data + 4
			if c.size < 0 {
				dataBytes = in.Size() - d.DataLocation
			} else {
				dataBytes = c.size - 4
			}
			off.DataSize = c.start + 4
			haveData = true
			if c.size < 0 {
				return true, nil
			}

		case "info":
			readCAFFInfo(in, d, c)
		}
		return false, nil
	})
	if err != nil {
		return nil, off, err
	}

	if !haveDesc {
		return nil, off, in.fail(CAFF, "no desc chunk")
	}
	if !haveData {
		return nil, off, in.fail(CAFF, "no data chunk")
	}
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	return d, off, nil
}

// readCAFFInfo looks for the "comments" entry of an info chunk.
func readCAFFInfo(in *Input, d *Descriptor, c chunk) {
	n := c.size
	if n < 4 {
		return
	}
	if c.data+n > in.Size() {
		n = in.Size() - c.data
	}
	b, err := in.Bytes(c.data, int(n), "info chunk")
	if err != nil || len(b) < 4 {
		return
	}
	entries := int(byteorder.BEUint32(b))
	p := 4
	next := func() (int, int) {
		start := p
		for p < len(b) && b[p] != 0 {
			p++
		}
		end := p
		p++
		return start, end
	}
	for i := 0; i < entries && p < len(b); i++ {
		ks, ke := next()
		vs, ve := next()
		if string(b[ks:ke]) == "comments" && ve > vs {
			d.Comment = Range{Start: c.data + int64(vs), End: c.data + int64(ve)}
			return
		}
	}
}
