// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// WriteSpec describes a header to write.
type WriteSpec struct {
	Type       Type
	SampleType sample.Type
	SampleRate int
	Chans      int
	// Samples is the interleaved sample count known so far; 0 when the data
	// is streamed afterwards and the size is patched on close.
	Samples int64
	Comment string
}

func (s WriteSpec) validate() error {
	if !s.Type.Writable() {
		return newError(KindUnsupportedHeaderType, "", s.Type, "cannot write this header type")
	}
	if !s.Type.SupportsType(s.SampleType) {
		return newError(KindUnsupportedDataFormat, "", s.Type, "cannot write %s samples", s.SampleType.Name())
	}
	if s.Chans <= 0 {
		return newError(KindBadSize, "", s.Type, "channel count %d", s.Chans)
	}
	if s.SampleRate < 0 {
		return newError(KindBadSize, "", s.Type, "sample rate %d", s.SampleRate)
	}
	if s.Samples < 0 {
		return newError(KindBadSize, "", s.Type, "sample count %d", s.Samples)
	}
	return nil
}

func (s WriteSpec) dataBytes() int64 { return SamplesToBytes(s.SampleType, s.Samples) }

// Write emits the header for spec at the start of w and leaves w positioned
// at the first sample byte. The returned offsets locate the size fields to
// patch once the final sample count is known. When the sample count does not
// fit the container's size fields the header is written with clamped sizes
// and an ErrBadSize error is returned alongside valid offsets.
func Write(w io.WriteSeeker, spec WriteSpec) (PendingWriteOffsets, error) {
	if err := spec.validate(); err != nil {
		return PendingWriteOffsets{}, err
	}

	hdr, off, sizeErr := buildHeader(spec)
	off.Type = spec.Type

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return off, wrapError(KindWriteError, "", spec.Type, err, "seek to header")
	}
	if _, err := w.Write(hdr); err != nil {
		return off, wrapError(KindWriteError, "", spec.Type, err, "write header")
	}
	return off, sizeErr
}

// buildHeader renders the header bytes for spec.
func buildHeader(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	switch spec.Type {
	case NeXT:
		return buildNeXT(spec)
	case AIFF, AIFC:
		return buildAIFF(spec)
	case RIFF:
		return buildRIFF(spec)
	case RF64:
		return buildRF64(spec)
	case CAFF:
		return buildCAFF(spec)
	case IRCAM:
		return buildIRCAM(spec)
	case NIST:
		return buildNIST(spec)
	case Raw:
		return nil, PendingWriteOffsets{}, nil
	}
	return nil, PendingWriteOffsets{}, newError(KindUnsupportedHeaderType, "", spec.Type, "cannot write this header type")
}

// clamp32 limits v to what fits a 32-bit size field.
func clamp32(t Type, v int64, what string) (uint32, error) {
	if v < 0 {
		return 0, newError(KindBadSize, "", t, "negative %s", what)
	}
	if v > math.MaxUint32-1 {
		return math.MaxUint32 - 1, newError(KindBadSize, "", t, "%s %d does not fit a 32-bit field", what, v)
	}
	return uint32(v), nil
}

type headerBuf struct {
	bytes.Buffer
	o byteorder.Order
}

func (b *headerBuf) tag(s string) { b.WriteString(s) }

func (b *headerBuf) u16(v uint16) {
	var x [2]byte
	b.o.PutUint16(x[:], v)
	b.Write(x[:])
}

func (b *headerBuf) u32(v uint32) {
	var x [4]byte
	b.o.PutUint32(x[:], v)
	b.Write(x[:])
}

func (b *headerBuf) u64(v uint64) {
	var x [8]byte
	b.o.PutUint64(x[:], v)
	b.Write(x[:])
}

func (b *headerBuf) f64(v float64) { b.u64(math.Float64bits(v)) }
func (b *headerBuf) f32(v float32) { b.u32(math.Float32bits(v)) }

func (b *headerBuf) zeros(n int) { b.Write(make([]byte, n)) }

func (b *headerBuf) pos() int64 { return int64(b.Len()) }

func buildNeXT(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	code, _ := nextCode(spec.SampleType)
	commentLen := (len(spec.Comment) + 3) &^ 3
	if commentLen < nextMinComment {
		commentLen = nextMinComment
	}
	loc := int64(nextHeaderSize + commentLen)
	size, err := clamp32(NeXT, spec.dataBytes(), "data size")

	b := &headerBuf{o: byteorder.BigEndian}
	b.tag(".snd")
	b.u32(uint32(loc))
	b.u32(size)
	b.u32(code)
	b.u32(uint32(spec.SampleRate))
	b.u32(uint32(spec.Chans))
	b.WriteString(spec.Comment)
	b.zeros(commentLen - len(spec.Comment))

	return b.Bytes(), PendingWriteOffsets{DataSize: nextSizeField, Comment: nextHeaderSize, Data: loc}, err
}

const aifcVersion = 0xA2805140

// aiffBits is the COMM sample size written for st.
func aiffBits(st sample.Type) int {
	switch st {
	case sample.MuLaw, sample.ALaw:
		return 16
	}
	return st.Bits()
}

func buildAIFF(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	aifc := spec.Type == AIFC
	b := &headerBuf{o: byteorder.BigEndian}
	var off PendingWriteOffsets

	b.tag("FORM")
	off.FormSize = b.pos()
	b.u32(0)
	if aifc {
		b.tag("AIFC")
		b.tag("FVER")
		b.u32(4)
		b.u32(aifcVersion)
	} else {
		b.tag("AIFF")
	}

	frames := spec.Samples / int64(spec.Chans)
	frames32, err := clamp32(spec.Type, frames, "frame count")

	commSize := 18
	var compTag, compName string
	if aifc {
		compTag, compName = aifcCompression(spec.SampleType)
		commSize += 4 + 1 + len(compName)
		if commSize%2 != 0 {
			commSize++
		}
	}
	b.tag("COMM")
	b.u32(uint32(commSize))
	off.Format, off.FormatSize = b.pos(), int64(commSize)
	b.u16(uint16(spec.Chans))
	off.Frames = b.pos()
	b.u32(frames32)
	b.u16(uint16(aiffBits(spec.SampleType)))
	var ext [10]byte
	byteorder.PutExtended80(ext[:], float64(spec.SampleRate))
	b.Write(ext[:])
	if aifc {
		b.tag(compTag)
		b.WriteByte(byte(len(compName)))
		b.WriteString(compName)
		if (1+len(compName))%2 != 0 {
			b.WriteByte(0)
		}
	}

	if spec.Comment != "" {
		b.tag("ANNO")
		b.u32(uint32(len(spec.Comment)))
		b.WriteString(spec.Comment)
		if len(spec.Comment)%2 != 0 {
			b.WriteByte(0)
		}
	}

	b.tag("SSND")
	off.DataSize = b.pos()
	bytesN := spec.dataBytes()
	ssnd, err2 := clamp32(spec.Type, bytesN+8, "SSND size")
	b.u32(ssnd)
	b.u32(0) // offset
	b.u32(0) // block size
	off.Data = b.pos()

	form, err3 := clamp32(spec.Type, off.Data+bytesN-8, "FORM size")
	b.o.PutUint32(b.Bytes()[off.FormSize:], form)
	return b.Bytes(), off, firstErr(err, err2, err3)
}

// waveFormatTag is the fmt chunk tag and bit depth for st.
func waveFormatTag(st sample.Type) (tag, bits int) {
	switch st {
	case sample.LFloat, sample.LDouble:
		return waveFloat, st.Bits()
	case sample.ALaw:
		return waveALaw, 8
	case sample.MuLaw:
		return waveMuLaw, 8
	}
	return wavePCM, st.Bits()
}

// writeFmt appends a fmt chunk, 16 bytes for PCM and 18 otherwise.
func writeFmt(b *headerBuf, spec WriteSpec, off *PendingWriteOffsets) {
	tag, bits := waveFormatTag(spec.SampleType)
	size := uint32(fmtChunkSize)
	if tag != wavePCM {
		size = 18
	}
	align := spec.Chans * spec.SampleType.Bytes()
	b.Write(riff.FmtID[:])
	b.u32(size)
	off.Format, off.FormatSize = b.pos(), int64(size)
	b.u16(uint16(tag))
	b.u16(uint16(spec.Chans))
	b.u32(uint32(spec.SampleRate))
	b.u32(uint32(spec.SampleRate * align))
	b.u16(uint16(align))
	b.u16(uint16(bits))
	if size == 18 {
		b.u16(0)
	}
}

// writeInfo appends a LIST/INFO chunk holding an ICMT comment.
func writeInfo(b *headerBuf, comment string) {
	if comment == "" {
		return
	}
	text := len(comment) + 1
	padded := text + text%2
	b.tag("LIST")
	b.u32(uint32(4 + 8 + padded))
	b.tag("INFO")
	b.tag("ICMT")
	b.u32(uint32(text))
	b.WriteString(comment)
	b.zeros(padded - len(comment))
}

func buildRIFF(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	b := &headerBuf{o: byteorder.LittleEndian}
	var off PendingWriteOffsets

	b.Write(riff.RiffID[:])
	off.FormSize = b.pos()
	b.u32(0)
	b.Write(riff.WavFormatID[:])

	// Reserved room for a ds64 chunk should the file outgrow 4 GiB.
	off.Filler, off.FillerSize = b.pos(), ds64Size
	b.Write(junkID[:])
	b.u32(ds64Size)
	b.zeros(ds64Size)

	writeFmt(b, spec, &off)
	writeInfo(b, spec.Comment)

	bytesN := spec.dataBytes()
	b.Write(riff.DataFormatID[:])
	off.DataSize = b.pos()
	data, err := clamp32(RIFF, bytesN, "data size")
	b.u32(data)
	off.Data = b.pos()

	form, err2 := clamp32(RIFF, off.Data+bytesN-8, "RIFF size")
	b.o.PutUint32(b.Bytes()[off.FormSize:], form)
	return b.Bytes(), off, firstErr(err, err2)
}

func buildRF64(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	b := &headerBuf{o: byteorder.LittleEndian}
	var off PendingWriteOffsets

	b.Write(rf64ID[:])
	off.FormSize = b.pos()
	b.u32(rf64Unknown)
	b.Write(riff.WavFormatID[:])

	b.Write(ds64ID[:])
	b.u32(ds64Size)
	off.DS64 = b.pos()
	b.u64(0) // riff size, filled below
	b.u64(uint64(spec.dataBytes()))
	b.u64(uint64(spec.Samples / int64(spec.Chans)))
	b.u32(0) // table length

	writeFmt(b, spec, &off)
	writeInfo(b, spec.Comment)

	b.Write(riff.DataFormatID[:])
	off.DataSize = b.pos()
	b.u32(rf64Unknown)
	off.Data = b.pos()

	b.o.PutUint64(b.Bytes()[off.DS64:], uint64(off.Data+spec.dataBytes()-8))
	return b.Bytes(), off, nil
}

func buildCAFF(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	b := &headerBuf{o: byteorder.BigEndian}
	var off PendingWriteOffsets

	b.tag("caff")
	b.u16(1)
	b.u16(0)

	format, flags := caffFormat(spec.SampleType)
	bits := spec.SampleType.Bits()
	b.tag("desc")
	b.u64(caffDescSize)
	off.Format, off.FormatSize = b.pos(), caffDescSize
	b.f64(float64(spec.SampleRate))
	b.tag(format)
	b.u32(flags)
	b.u32(uint32(spec.Chans * spec.SampleType.Bytes()))
	b.u32(1)
	b.u32(uint32(spec.Chans))
	b.u32(uint32(bits))

	if spec.Comment != "" {
		entry := "comments\x00" + spec.Comment + "\x00"
		b.tag("info")
		b.u64(uint64(4 + len(entry)))
		b.u32(1)
		b.WriteString(entry)
	}

	b.tag("data")
	off.DataSize = b.pos()
	b.u64(uint64(spec.dataBytes() + 4))
	b.u32(0) // edit count
	off.Data = b.pos()
	return b.Bytes(), off, nil
}

func buildIRCAM(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	mode, _ := ircamPackMode(spec.SampleType)
	b := &headerBuf{o: byteorder.BigEndian}
	b.u32(ircamSun)
	b.f32(float32(spec.SampleRate))
	b.u32(uint32(spec.Chans))
	b.u32(mode)

	var err error
	if c := spec.Comment; c != "" {
		room := ircamHeaderSize - ircamCodesStart - 8
		if len(c) > room {
			c = c[:room]
			err = newError(KindBadSize, "", IRCAM, "comment truncated to %d bytes", room)
		}
		size := 4 + len(c) + 1
		size += (4 - size%4) % 4
		b.u16(ircamComment)
		b.u16(uint16(size))
		b.WriteString(c)
		b.zeros(size - 4 - len(c))
	}
	b.u16(ircamEnd)
	b.u16(0)
	b.zeros(ircamHeaderSize - b.Len())
	return b.Bytes(), PendingWriteOffsets{Comment: ircamCodesStart, Data: ircamHeaderSize}, err
}

// nistByteFormat is the sample_byte_format value for st.
func nistByteFormat(st sample.Type) string {
	switch st.Bytes() {
	case 1:
		return "1"
	case 2:
		if st.IsLittleEndian() {
			return "01"
		}
		return "10"
	}
	if st.IsLittleEndian() {
		return "0123"
	}
	return "3210"
}

func buildNIST(spec WriteSpec) ([]byte, PendingWriteOffsets, error) {
	var b bytes.Buffer
	field := func(name, value string) {
		if value != "" && value[0] != '-' {
			value = fmt.Sprintf("-s%d %s", len(value), value)
		}
		fmt.Fprintf(&b, "%s %s\n", name, value)
	}
	b.WriteString(nistMagic + "\n")
	fmt.Fprintf(&b, "%7d\n", nistHeaderSize)
	field("channel_count", fmt.Sprintf("-i %d", spec.Chans))
	field("sample_count", fmt.Sprintf("-i %d", spec.Samples/int64(spec.Chans)))
	field("sample_rate", fmt.Sprintf("-i %d", spec.SampleRate))
	field("sample_n_bytes", fmt.Sprintf("-i %d", spec.SampleType.Bytes()))
	field("sample_byte_format", nistByteFormat(spec.SampleType))
	field("sample_sig_bits", fmt.Sprintf("-i %d", spec.SampleType.Bits()))
	coding := "pcm"
	if spec.SampleType == sample.MuLaw {
		coding = "ulaw"
	}
	field("sample_coding", coding)
	b.WriteString("end_head\n")
	if b.Len() > nistHeaderSize {
		return nil, PendingWriteOffsets{}, newError(KindBadSize, "", NIST, "header text longer than %d bytes", nistHeaderSize)
	}
	b.Write(bytes.Repeat([]byte{' '}, nistHeaderSize-b.Len()))
	return b.Bytes(), PendingWriteOffsets{Data: nistHeaderSize}, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
