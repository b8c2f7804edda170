// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"

	"github.com/go-audio/riff"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

// WAVE format tags.
const (
	wavePCM        = 0x0001
	waveADPCM      = 0x0002
	waveFloat      = 0x0003
	waveALaw       = 0x0006
	waveMuLaw      = 0x0007
	waveIBMMuLaw   = 0x0101
	waveIBMALaw    = 0x0102
	waveExtensible = 0xFFFE
)

const (
	ds64Size     = 28 // riffSize, dataSize, sampleCount, tableLength
	rf64Unknown  = 0xFFFFFFFF
	fmtChunkSize = 16
)

var (
	rf64ID   = [4]byte{'R', 'F', '6', '4'}
	bw64ID   = [4]byte{'B', 'W', '6', '4'}
	rifxID   = [4]byte{'R', 'I', 'F', 'X'}
	sfbkID   = [4]byte{'s', 'f', 'b', 'k'}
	aviID    = [4]byte{'A', 'V', 'I', ' '}
	ds64ID   = [4]byte{'d', 's', '6', '4'}
	junkID   = [4]byte{'J', 'U', 'N', 'K'}
	w64Magic = []byte{'r', 'i', 'f', 'f', 0x2E, 0x91, 0xCF, 0x11, 0xA5, 0xD6, 0x28, 0xDB, 0x04, 0xC1, 0x00, 0x00}
)

func riffForm(h []byte) ([4]byte, [4]byte, bool) {
	var magic, form [4]byte
	if len(h) < 12 {
		return magic, form, false
	}
	copy(magic[:], h[:4])
	copy(form[:], h[8:12])
	return magic, form, true
}

func isRIFFMagic(h []byte) bool {
	if len(h) < 4 {
		return false
	}
	var magic [4]byte
	copy(magic[:], h[:4])
	return magic == riff.RiffID || magic == rifxID || magic == rf64ID || magic == bw64ID
}

// riffReader also claims RIFF files cut short of their form type, so they
// fail as truncated instead of reading as raw data.
var riffReader = readerFunc{
	typ: RIFF,
	detect: func(h []byte, _ int64) bool {
		if !isRIFFMagic(h) {
			return false
		}
		_, form, ok := riffForm(h)
		return !ok || form == riff.WavFormatID
	},
	parse: parseRIFF,
	form:  riffType,
}

func riffType(h []byte) Type {
	if len(h) >= 4 {
		switch string(h[:4]) {
		case string(rf64ID[:]), string(bw64ID[:]):
			return RF64
		}
	}
	return RIFF
}

var soundFontReader = readerFunc{
	typ: SoundFont,
	detect: func(h []byte, _ int64) bool {
		magic, form, ok := riffForm(h)
		return ok && magic == riff.RiffID && form == sfbkID
	},
	parse: parseSoundFont,
}

var aviReader = readerFunc{
	typ: AVI,
	detect: func(h []byte, _ int64) bool {
		magic, form, ok := riffForm(h)
		return ok && magic == riff.RiffID && form == aviID
	},
	parse: parseAVI,
}

var wave64Reader = readerFunc{
	typ: Wave64,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 40 && bytes.Equal(h[:16], w64Magic)
	},
	parse: parseWave64,
}

// waveFormat is the decoded fmt chunk.
type waveFormat struct {
	tag        int
	chans      int
	rate       int
	blockAlign int
	bits       int
}

func readWaveFormat(b []byte, o byteorder.Order) waveFormat {
	f := waveFormat{
		tag:        int(o.Uint16(b[0:2])),
		chans:      int(o.Uint16(b[2:4])),
		rate:       int(o.Uint32(b[4:8])),
		blockAlign: int(o.Uint16(b[12:14])),
		bits:       int(o.Uint16(b[14:16])),
	}
	// WAVE_FORMAT_EXTENSIBLE carries the real tag in the first bytes of the
	// subformat GUID.
	if f.tag == waveExtensible && len(b) >= 40 {
		f.tag = int(o.Uint16(b[24:26]))
	}
	return f
}

// sampleType maps the format tag and widths to an encoding.
func (f waveFormat) sampleType(o byteorder.Order) sample.Type {
	width := f.bits
	if f.chans > 0 && f.blockAlign > 0 && f.blockAlign%f.chans == 0 {
		if w := f.blockAlign / f.chans * 8; w > width {
			width = w
		}
	}
	little := o == byteorder.LittleEndian

	switch f.tag {
	case wavePCM:
		switch {
		case width <= 8:
			return sample.UByte
		case width <= 16:
			return pick(little, sample.LShort, sample.BShort)
		case width <= 24:
			return pick(little, sample.L24Int, sample.B24Int)
		case width <= 32:
			return pick(little, sample.LIntN, sample.BIntN)
		}
	case waveFloat:
		switch width {
		case 32:
			return pick(little, sample.LFloat, sample.BFloat)
		case 64:
			return pick(little, sample.LDouble, sample.BDouble)
		}
	case waveALaw, waveIBMALaw:
		if width == 8 {
			return sample.ALaw
		}
	case waveMuLaw, waveIBMMuLaw:
		if width == 8 {
			return sample.MuLaw
		}
	}
	return sample.Unknown
}

func pick(little bool, le, be sample.Type) sample.Type {
	if little {
		return le
	}
	return be
}

func parseRIFF(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	magic, _, ok := riffForm(in.Head)
	t := riffType(in.Head)
	if !ok {
		return nil, PendingWriteOffsets{}, in.fail(t, "truncated header (%d bytes)", len(in.Head))
	}
	o := byteorder.LittleEndian
	walk := riffWalk
	if magic == rifxID {
		o, walk = byteorder.BigEndian, rifxWalk
	}

	d := in.descriptor(t)
	off := PendingWriteOffsets{FormSize: 4}

	var (
		haveFmt, haveData bool
		ds64Data          int64 = -1
		ds64Samples       int64 = -1
		dataBytes         int64
		wf                waveFormat
	)

	err := walkChunks(in, 12, walk, func(c chunk) (bool, error) {
		switch c.id {
		case string(ds64ID[:]):
			b, err := in.Bytes(c.data, ds64Size, "ds64 chunk")
			if err != nil {
				return true, err
			}
			ds64Data = int64(o.Uint64(b[8:16]))
			ds64Samples = int64(o.Uint64(b[16:24]))
			off.DS64 = c.data

		case string(riff.FmtID[:]):
			if c.size < fmtChunkSize {
				return true, in.fail(t, "fmt chunk too short (%d bytes)", c.size).at(c.start)
			}
			n := c.size
			if n > 40 {
				n = 40
			}
			b, err := in.Bytes(c.data, int(n), "fmt chunk")
			if err != nil {
				return true, err
			}
			wf = readWaveFormat(b, o)
			off.Format, off.FormatSize = c.data, c.size
			haveFmt = true

		case string(riff.DataFormatID[:]):
			d.DataLocation = c.data
			dataBytes = c.size
			if t == RF64 && c.size == rf64Unknown && ds64Data >= 0 {
				dataBytes = ds64Data
			}
			off.DataSize = c.start + 4
			haveData = true
			// Nothing after data is needed unless the header sits before it.
			if c.data+dataBytes >= in.Size() {
				return true, nil
			}

		case string(junkID[:]), "junk", "FLLR", "PAD ":
			if !haveData && off.Filler == 0 && c.size >= ds64Size {
				off.Filler, off.FillerSize = c.start, c.size
			}

		case "LIST":
			readInfoList(in, d, c)

		case "smpl":
			readSampler(in, d, c, o)

		case "inst":
			var b [3]byte
			if c.size >= 3 && in.ReadAt(b[:], c.data, "inst chunk") == nil {
				if d.Loops == nil {
					d.Loops = &Loops{}
				}
				d.Loops.BaseNote = int(b[0])
				d.Loops.BaseDetune = int(int8(b[1]))
			}

		case "cue ":
			readCues(in, d, c, o)
		}
		return false, nil
	})
	if err != nil {
		return nil, off, err
	}

	if !haveFmt {
		return nil, off, in.fail(t, "no fmt chunk")
	}
	if !haveData {
		return nil, off, in.fail(t, "no data chunk")
	}

	d.Chans = wf.chans
	d.SampleRate = wf.rate
	d.BlockAlign = wf.blockAlign
	d.Bits = wf.bits
	d.OriginalFormat = wf.tag
	d.SampleType = wf.sampleType(o)
	if d.SampleType.Valid() {
		d.Samples = BytesToSamples(d.SampleType, dataBytes)
	} else if ds64Samples > 0 {
		d.Samples = ds64Samples * int64(d.Chans)
	}
	return d, off, nil
}

// readInfoList picks the comment out of a LIST/INFO chunk; other INFO
// entries become auxiliary comments.
func readInfoList(in *Input, d *Descriptor, c chunk) {
	var kind [4]byte
	if c.size < 4 || in.ReadAt(kind[:], c.data, "LIST type") != nil || string(kind[:]) != "INFO" {
		return
	}
	end := min(c.end(), in.Size())
	pos := c.data + 4
	p := riff.New(in.Section(pos, end-pos))
	for pos+8 <= end {
		e, err := p.NextChunk()
		if err != nil {
			return
		}
		data := pos + 8
		pos = data + int64(e.Size) // Size includes the pad byte
		e.Drain()

		r := in.textRange(data, min(pos, end))
		if r.Empty() {
			continue
		}
		tag := string(e.ID[:])
		if tag == "ICMT" {
			if !d.Comment.Empty() {
				d.addAuxComment(d.Comment)
			}
			d.Comment = r
		} else if d.Comment.Empty() {
			d.Comment = r
		} else if !d.addAuxComment(r) {
			logger.Debug("INFO entry ignored", "path", in.Path(), "tag", tag)
		}
	}
}

// readSampler takes the first two smpl loops as sustain and release.
func readSampler(in *Input, d *Descriptor, c chunk, o byteorder.Order) {
	if c.size < 36 {
		return
	}
	n := c.size
	if n > 36+2*24 {
		n = 36 + 2*24
	}
	b, err := in.Bytes(c.data, int(n), "smpl chunk")
	if err != nil {
		return
	}
	if d.Loops == nil {
		d.Loops = &Loops{}
	}
	d.Loops.BaseNote = int(o.Uint32(b[12:16]))
	loops := int(o.Uint32(b[28:32]))
	for i := 0; i < loops && i < 2 && 36+(i+1)*24 <= len(b); i++ {
		p := b[36+i*24:]
		l := Loop{
			Mode:  int(o.Uint32(p[4:8])) + 1,
			Start: int64(o.Uint32(p[8:12])),
			End:   int64(o.Uint32(p[12:16])),
		}
		if i == 0 {
			d.Loops.Sustain = l
		} else {
			d.Loops.Release = l
		}
	}
}

func readCues(in *Input, d *Descriptor, c chunk, o byteorder.Order) {
	var cnt [4]byte
	if c.size < 4 || in.ReadAt(cnt[:], c.data, "cue count") != nil {
		return
	}
	n := int64(o.Uint32(cnt[:]))
	avail := c.size - 4
	if rest := in.Size() - c.data - 4; rest < avail {
		avail = rest
	}
	if limit := avail / 24; n > limit {
		n = limit
	}
	if n <= 0 {
		return
	}
	b, err := in.Bytes(c.data+4, int(n*24), "cue points")
	if err != nil {
		return
	}
	for i := 0; i < int(n); i++ {
		p := b[i*24:]
		d.Markers = append(d.Markers, Marker{ID: int(o.Uint32(p[0:4])), Position: int64(o.Uint32(p[20:24]))})
	}
}

// SoundFont 2: the sample pool lives in LIST/sdta/smpl, the rate and loops
// of the first sample header in LIST/pdta/shdr.
func parseSoundFont(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(SoundFont)
	d.Chans = 1
	d.SampleType = sample.LShort
	found := false

	var walkList func(c chunk) (bool, error)
	walkList = func(c chunk) (bool, error) {
		switch c.id {
		case "LIST":
			sub := in.sub(c.end())
			if err := walkChunks(sub, c.data+4, riffWalk, walkList); err != nil {
				return true, err
			}
		case "smpl":
			d.DataLocation = c.data
			d.Samples = c.size / 2
			found = true
		case "shdr":
			if c.size >= 46 {
				b, err := in.Bytes(c.data, 46, "shdr record")
				if err != nil {
					return true, err
				}
				o := byteorder.LittleEndian
				start := int64(o.Uint32(b[20:24]))
				d.SampleRate = int(o.Uint32(b[36:40]))
				d.Loops = &Loops{
					BaseNote:   int(b[40]),
					BaseDetune: int(int8(b[41])),
					Sustain: Loop{
						Mode:  LoopForward,
						Start: int64(o.Uint32(b[28:32])) - start,
						End:   int64(o.Uint32(b[32:36])) - start,
					},
				}
			}
		case "INAM", "ICMT":
			if d.Comment.Empty() {
				d.Comment = in.textRange(c.data, c.end())
			}
		}
		return false, nil
	}

	if err := walkChunks(in, 12, riffWalk, walkList); err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	if !found {
		return nil, PendingWriteOffsets{}, in.fail(SoundFont, "no smpl chunk")
	}
	return d, PendingWriteOffsets{}, nil
}

// AVI: the first audio stream's strf is a WAVE fmt, its data the first
// ##wb chunk in movi.
func parseAVI(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(AVI)
	var (
		audioStream, haveFmt, haveData bool
		wf                             waveFormat
		dataBytes                      int64
	)

	var visit func(c chunk) (bool, error)
	visit = func(c chunk) (bool, error) {
		switch {
		case c.id == "LIST" || c.id == "RIFF":
			sub := in.sub(c.end())
			if err := walkChunks(sub, c.data+4, riffWalk, visit); err != nil {
				return true, err
			}
			return haveData, nil
		case c.id == "strh":
			var typ [4]byte
			if in.ReadAt(typ[:], c.data, "strh type") == nil {
				audioStream = string(typ[:]) == "auds"
			}
		case c.id == "strf" && audioStream && !haveFmt && c.size >= 16:
			b, err := in.Bytes(c.data, 16, "strf chunk")
			if err != nil {
				return true, err
			}
			wf = readWaveFormat(b, byteorder.LittleEndian)
			haveFmt = true
		case len(c.id) == 4 && c.id[2:] == "wb" && !haveData:
			d.DataLocation = c.data
			dataBytes = c.size
			haveData = true
			return true, nil
		}
		return false, nil
	}

	if err := walkChunks(in, 12, riffWalk, visit); err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	if !haveFmt || !haveData {
		return nil, PendingWriteOffsets{}, in.fail(AVI, "no audio stream")
	}
	d.Chans, d.SampleRate, d.Bits, d.OriginalFormat = wf.chans, wf.rate, wf.bits, wf.tag
	d.BlockAlign = wf.blockAlign
	d.SampleType = wf.sampleType(byteorder.LittleEndian)
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	return d, PendingWriteOffsets{}, nil
}

// Wave64 uses 16-byte GUID tags and 64-bit sizes that include the 24-byte
// chunk header; chunks are 8-byte aligned.
func parseWave64(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(Wave64)
	o := byteorder.LittleEndian
	var (
		haveFmt, haveData bool
		wf                waveFormat
		dataBytes         int64
	)

	pos := int64(40)
	for pos+24 <= in.Size() {
		hdr, err := in.Bytes(pos, 24, "wave64 chunk header")
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		size := int64(o.Uint64(hdr[16:24]))
		if size < 24 {
			break
		}
		switch string(hdr[:4]) {
		case "fmt ":
			if size-24 < fmtChunkSize {
				return nil, PendingWriteOffsets{}, in.fail(Wave64, "fmt chunk too short").at(pos)
			}
			n := size - 24
			if n > 40 {
				n = 40
			}
			b, err := in.Bytes(pos+24, int(n), "wave64 fmt")
			if err != nil {
				return nil, PendingWriteOffsets{}, err
			}
			wf = readWaveFormat(b, o)
			haveFmt = true
		case "data":
			d.DataLocation = pos + 24
			dataBytes = size - 24
			haveData = true
		}
		next := pos + size
		if r := next % 8; r != 0 {
			next += 8 - r
		}
		pos = next
	}

	if !haveFmt {
		return nil, PendingWriteOffsets{}, in.fail(Wave64, "no fmt chunk")
	}
	if !haveData {
		return nil, PendingWriteOffsets{}, in.fail(Wave64, "no data chunk")
	}
	d.Chans, d.SampleRate, d.Bits, d.OriginalFormat = wf.chans, wf.rate, wf.bits, wf.tag
	d.BlockAlign = wf.blockAlign
	d.SampleType = wf.sampleType(o)
	d.Samples = BytesToSamples(d.SampleType, dataBytes)
	return d, PendingWriteOffsets{}, nil
}
