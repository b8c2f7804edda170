// SPDX-License-Identifier: EPL-2.0

package header

import (
	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

func formOf(h []byte, forms ...string) bool {
	if len(h) < 12 || string(h[:4]) != "FORM" {
		return false
	}
	for _, f := range forms {
		if string(h[8:12]) == f {
			return true
		}
	}
	return false
}

var svxReader = readerFunc{
	typ:    SVX,
	detect: func(h []byte, _ int64) bool { return formOf(h, "8SVX", "16SV") },
	parse:  parseSVX,
}

var maudReader = readerFunc{
	typ:    MAUD,
	detect: func(h []byte, _ int64) bool { return formOf(h, "MAUD") },
	parse:  parseMAUD,
}

// CSL files open with "FORMDS16" and a little-endian form size.
var cslReader = readerFunc{
	typ: CSL,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 12 && string(h[:8]) == "FORMDS16"
	},
	parse: parseCSL,
}

// Amiga IFF 8SVX (and its 16-bit 16SV variant).
func parseSVX(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	be := byteorder.BigEndian
	d := in.descriptor(SVX)
	d.Chans = 1
	d.SampleType = sample.Byte
	if string(in.Head[8:12]) == "16SV" {
		d.SampleType = sample.BShort
	}

	var (
		haveVHDR, haveBody bool
		dataBytes          int64
		oneShot, repeat    int64
	)
	err := walkChunks(in, 12, iffWalk, func(c chunk) (bool, error) {
		switch c.id {
		case "VHDR":
			b, err := in.Bytes(c.data, 20, "VHDR chunk")
			if err != nil {
				return true, err
			}
			oneShot = int64(be.Uint32(b[0:4]))
			repeat = int64(be.Uint32(b[4:8]))
			d.SampleRate = int(be.Uint16(b[12:14]))
			d.OriginalFormat = int(b[15])
			if b[15] != 0 {
				// Fibonacci-delta compressed.
				d.SampleType = sample.Unknown
			}
			haveVHDR = true
		case "CHAN":
			var b [4]byte
			if in.ReadAt(b[:], c.data, "CHAN chunk") == nil && be.Uint32(b[:]) == 6 {
				d.Chans = 2
			}
		case "ANNO", "NAME":
			if d.Comment.Empty() {
				d.Comment = in.textRange(c.data, c.end())
			} else if r := in.textRange(c.data, c.end()); !r.Empty() && !d.addAuxComment(r) {
				logger.Warn("extra ANNO chunk ignored", "path", in.Path(), "offset", c.start)
			}
		case "BODY":
			d.DataLocation = c.data
			dataBytes = c.size
			haveBody = true
		}
		return false, nil
	})
	if err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	if !haveVHDR {
		return nil, PendingWriteOffsets{}, in.fail(SVX, "no VHDR chunk")
	}
	if !haveBody {
		return nil, PendingWriteOffsets{}, in.fail(SVX, "no BODY chunk")
	}
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	if repeat > 0 {
		d.Loops = &Loops{Sustain: Loop{Mode: LoopForward, Start: oneShot, End: oneShot + repeat}}
	}
	return d, PendingWriteOffsets{}, nil
}

// Commodore Amiga MAUD.
func parseMAUD(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	be := byteorder.BigEndian
	d := in.descriptor(MAUD)
	var (
		haveHdr, haveData bool
		dataBytes         int64
	)
	err := walkChunks(in, 12, iffWalk, func(c chunk) (bool, error) {
		switch c.id {
		case "MHDR":
			b, err := in.Bytes(c.data, 20, "MHDR chunk")
			if err != nil {
				return true, err
			}
			d.Bits = int(be.Uint16(b[4:6]))
			clock := int64(be.Uint32(b[8:12]))
			div := int64(be.Uint16(b[12:14]))
			if div > 0 {
				d.SampleRate = int(clock / div)
			}
			d.Chans = int(be.Uint16(b[16:18]))
			if d.Chans == 0 {
				d.Chans = 1
			}
			comp := int(be.Uint16(b[18:20]))
			d.OriginalFormat = comp
			switch {
			case comp == 2:
				d.SampleType = sample.ALaw
			case comp == 3:
				d.SampleType = sample.MuLaw
			case comp != 0:
				d.SampleType = sample.Unknown
			case d.Bits == 8:
				d.SampleType = sample.UByte
			case d.Bits == 16:
				d.SampleType = sample.BShort
			}
			haveHdr = true
		case "MDAT":
			d.DataLocation = c.data
			dataBytes = c.size
			haveData = true
		case "ANNO":
			d.Comment = in.textRange(c.data, c.end())
		}
		return false, nil
	})
	if err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	if !haveHdr || !haveData {
		return nil, PendingWriteOffsets{}, in.fail(MAUD, "missing MHDR or MDAT chunk")
	}
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	return d, PendingWriteOffsets{}, nil
}

// Kay Elemetrics CSL: little-endian chunks after "FORMDS16"+size. HEDR (or
// HDR8) carries the rate, sample count and per-channel peaks; a peak of -1
// for channel B marks a mono file. SDA_, SD_B and SDAB hold the samples.
func parseCSL(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	le := byteorder.LittleEndian
	d := in.descriptor(CSL)
	d.Chans = 1
	d.SampleType = sample.LShort
	var haveHdr, haveData bool
	var dataBytes int64

	err := walkChunks(in, 12, riffWalk, func(c chunk) (bool, error) {
		switch c.id {
		case "HEDR", "HDR8":
			b, err := in.Bytes(c.data, 32, "HEDR chunk")
			if err != nil {
				return true, err
			}
			d.SampleRate = int(le.Uint32(b[20:24]))
			if le.Int16(b[30:32]) != -1 {
				d.Chans = 2
			}
			haveHdr = true
		case "SDA_", "SD_B", "SDAB":
			d.DataLocation = c.data
			dataBytes = c.size
			haveData = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	if !haveHdr || !haveData {
		return nil, PendingWriteOffsets{}, in.fail(CSL, "missing HEDR or sample chunk")
	}
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	return d, PendingWriteOffsets{}, nil
}
