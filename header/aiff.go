// SPDX-License-Identifier: EPL-2.0

package header

import (
	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

// aiffReader also claims FORM files cut short of their form type, so they
// fail as truncated instead of reading as raw data.
var aiffReader = readerFunc{
	typ: AIFF,
	detect: func(h []byte, _ int64) bool {
		if len(h) < 4 || string(h[:4]) != "FORM" {
			return false
		}
		if len(h) < 12 {
			return true
		}
		form := string(h[8:12])
		return form == "AIFF" || form == "AIFC"
	},
	parse: parseAIFF,
	form:  aiffForm,
}

func aiffForm(h []byte) Type {
	if len(h) >= 12 && string(h[8:12]) == "AIFC" {
		return AIFC
	}
	return AIFF
}

// aifcSampleType maps an AIFC compression type to an encoding. ok is false
// for compressed codecs the engine does not decode.
func aifcSampleType(comp string, bits int) (sample.Type, bool) {
	switch comp {
	case "NONE", "none", "twos":
		return aiffBitsType(bits), true
	case "sowt":
		switch {
		case bits <= 8:
			return sample.Byte, true
		case bits <= 16:
			return sample.LShort, true
		case bits <= 24:
			return sample.L24Int, true
		default:
			return sample.LIntN, true
		}
	case "fl32", "FL32":
		return sample.BFloat, true
	case "fl64", "FL64":
		return sample.BDouble, true
	case "ulaw", "ULAW":
		return sample.MuLaw, true
	case "alaw", "ALAW":
		return sample.ALaw, true
	case "raw ":
		return sample.UByte, true
	case "in24":
		return sample.B24Int, true
	case "in32":
		return sample.BIntN, true
	case "42ni":
		return sample.L24Int, true
	case "23ni":
		return sample.LIntN, true
	}
	return sample.Unknown, false
}

// aiffBitsType rounds odd bit depths up to the container width they occupy.
func aiffBitsType(bits int) sample.Type {
	switch {
	case bits <= 0:
		return sample.Unknown
	case bits <= 8:
		return sample.Byte
	case bits <= 16:
		return sample.BShort
	case bits <= 24:
		return sample.B24Int
	case bits <= 32:
		return sample.BIntN
	}
	return sample.Unknown
}

type aiffMark struct {
	id  int
	pos int64
}

func parseAIFF(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	be := byteorder.BigEndian
	t := aiffForm(in.Head)
	if len(in.Head) < 12 {
		return nil, PendingWriteOffsets{}, in.fail(t, "truncated header (%d bytes)", len(in.Head))
	}
	d := in.descriptor(t)
	off := PendingWriteOffsets{FormSize: 4}

	var (
		haveComm, haveSSND bool
		frames             int64
		dataBytes          int64
		inst               []byte
		marks              []aiffMark
	)

	err := walkChunks(in, 12, iffWalk, func(c chunk) (bool, error) {
		switch c.id {
		case "COMM":
			n := c.size
			if n > 64 {
				n = 64
			}
			if n < 18 {
				return true, in.fail(t, "COMM chunk too short (%d bytes)", c.size).at(c.start)
			}
			if c.data+n > in.Size() {
				n = in.Size() - c.data
			}
			b, err := in.Bytes(c.data, int(n), "COMM chunk")
			if err != nil {
				return true, err
			}
			if len(b) < 18 {
				return true, in.fail(t, "COMM chunk truncated").at(c.start)
			}
			d.Chans = int(be.Int16(b[0:2]))
			if d.Chans <= 0 {
				return true, in.fail(t, "bad channel count %d", d.Chans).at(c.data)
			}
			frames = int64(be.Uint32(b[2:6]))
			d.Bits = int(be.Int16(b[6:8]))
			d.SampleRate = int(byteorder.Extended80(b[8:18]) + 0.5)
			d.SampleType = aiffBitsType(d.Bits)
			d.OriginalFormat = fourcc("NONE")

			if t == AIFC && len(b) >= 22 {
				comp := string(b[18:22])
				d.OriginalFormat = fourcc(comp)
				st, ok := aifcSampleType(comp, d.Bits)
				if !ok {
					logger.Debug("AIFC compression not decodable", "path", in.Path(), "compression", comp)
				}
				d.SampleType = st
			}
			off.Format, off.FormatSize, off.Frames = c.data, c.size, c.data+2
			haveComm = true

		case "SSND":
			var b [8]byte
			if err := in.ReadAt(b[:], c.data, "SSND offset"); err != nil {
				return true, err
			}
			skip := int64(be.Uint32(b[0:4]))
			d.DataLocation = c.data + 8 + skip
			dataBytes = c.size - 8 - skip
			if c.end() > in.Size() {
				logger.Debug("SSND chunk runs past end of file", "path", in.Path(),
					"declared", c.size, "size", in.Size())
			}
			off.DataSize = c.start + 4
			haveSSND = true

		case "ANNO", "COMT":
			r := in.textRange(c.data, c.end())
			if r.Empty() {
				break
			}
			if d.Comment.Empty() {
				d.Comment = r
			} else if !d.addAuxComment(r) {
				logger.Warn("extra ANNO chunk ignored", "path", in.Path(), "offset", c.start)
			}

		case "APPL":
			var sig [4]byte
			if c.size > 4 && in.ReadAt(sig[:], c.data, "APPL signature") == nil && string(sig[:]) == "CLM " {
				d.Comment = in.textRange(c.data+4, c.end())
			}

		case "MARK":
			m, err := readAIFFMarks(in, c)
			if err != nil {
				logger.Warn("MARK chunk unreadable", "path", in.Path(), "error", err)
				break
			}
			marks = m

		case "INST":
			if c.size >= 20 {
				b, err := in.Bytes(c.data, 20, "INST chunk")
				if err == nil {
					inst = b
				}
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, off, err
	}

	if !haveComm {
		return nil, off, in.fail(t, "no COMM chunk")
	}
	if !haveSSND {
		return nil, off, in.fail(t, "no SSND chunk")
	}

	d.Samples = frames * int64(d.Chans)
	if d.SampleType.Valid() {
		bySize := BytesToSamples(d.SampleType, max(dataBytes, 0))
		switch {
		case d.SampleType.Bytes() != (d.Bits+7)/8:
			// COMM counts frames at the declared bit depth; a compressed
			// encoding of another width is sized by the SSND bytes.
			d.Samples = bySize
		case d.Samples > bySize:
			d.Samples = bySize
		}
	}

	for _, m := range marks {
		d.Markers = append(d.Markers, Marker{ID: m.id, Position: m.pos})
	}
	if inst != nil {
		d.Loops = aiffLoops(inst, marks)
	}
	return d, off, nil
}

func readAIFFMarks(in *Input, c chunk) ([]aiffMark, error) {
	n := c.size
	if c.data+n > in.Size() {
		n = in.Size() - c.data
	}
	b, err := in.Bytes(c.data, int(n), "MARK chunk")
	if err != nil {
		return nil, err
	}
	if len(b) < 2 {
		return nil, nil
	}
	count := int(byteorder.BEUint16(b))
	out := make([]aiffMark, 0, count)
	p := 2
	for i := 0; i < count && p+6 < len(b); i++ {
		id := int(int16(byteorder.BEUint16(b[p:])))
		pos := int64(byteorder.BEUint32(b[p+2:]))
		_, used := pstring(b[p+6:])
		out = append(out, aiffMark{id: id, pos: pos})
		p += 6 + used
	}
	return out, nil
}

// aiffLoops resolves the INST sustain and release loops through the markers.
func aiffLoops(b []byte, marks []aiffMark) *Loops {
	pos := func(id int) int64 {
		for _, m := range marks {
			if m.id == id {
				return m.pos
			}
		}
		return 0
	}
	loop := func(p []byte) Loop {
		mode := int(byteorder.BEUint16(p))
		return Loop{
			Mode:  mode,
			Start: pos(int(int16(byteorder.BEUint16(p[2:])))),
			End:   pos(int(int16(byteorder.BEUint16(p[4:])))),
		}
	}
	return &Loops{
		BaseNote:   int(b[0]),
		BaseDetune: int(int8(b[1])),
		Sustain:    loop(b[8:14]),
		Release:    loop(b[14:20]),
	}
}

// aifcCompression is the compression tag and name the writer emits for st.
func aifcCompression(st sample.Type) (tag, name string) {
	switch st {
	case sample.LShort:
		return "sowt", ""
	case sample.L24Int:
		return "42ni", "little endian 24-bit"
	case sample.LIntN:
		return "23ni", "little endian 32-bit"
	case sample.BFloat:
		return "fl32", "32-bit float"
	case sample.BDouble:
		return "fl64", "64-bit float"
	case sample.MuLaw:
		return "ulaw", "mu-law"
	case sample.ALaw:
		return "alaw", "a-law"
	case sample.UByte:
		return "raw ", ""
	}
	return "NONE", "not compressed"
}
