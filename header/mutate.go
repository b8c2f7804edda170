// SPDX-License-Identifier: EPL-2.0

package header

import (
	"errors"
	"math"
	"os"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

// Editor changes header fields of an existing file. Fields at fixed or
// previously located offsets are patched in place; anything that changes the
// header's size goes through a temporary-file rewrite. After every change the
// header is read again so the next change works from fresh offsets.
type Editor struct {
	path string
	d    *Descriptor
	off  PendingWriteOffsets
}

// Edit reads path's header and returns an editor for it.
func Edit(path string) (*Editor, error) {
	d, off, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Editor{path: path, d: d, off: off}, nil
}

// NewEditor binds an already parsed header to path.
func NewEditor(path string, d *Descriptor, off PendingWriteOffsets) *Editor {
	return &Editor{path: path, d: d, off: off}
}

func (e *Editor) Descriptor() *Descriptor      { return e.d }
func (e *Editor) Offsets() PendingWriteOffsets { return e.off }
func (e *Editor) fail(k Kind, reason string, args ...any) *Error {
	return newError(k, e.path, e.d.Type, reason, args...)
}

func (e *Editor) refresh() error {
	d, off, err := ReadFile(e.path)
	if err != nil {
		return err
	}
	e.d, e.off = d, off
	notifyWrite(e.path, d)
	return nil
}

// fileWriter patches fields of an open file.
type fileWriter struct {
	f    *os.File
	path string
	t    Type
	o    byteorder.Order
	err  error
}

func (w *fileWriter) at(off int64, b []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.f.WriteAt(b, off); err != nil {
		w.err = wrapError(KindWriteError, w.path, w.t, err, "").at(off)
	}
}

func (w *fileWriter) u16(off int64, v uint16) {
	var b [2]byte
	w.o.PutUint16(b[:], v)
	w.at(off, b[:])
}

func (w *fileWriter) u32(off int64, v uint32) {
	var b [4]byte
	w.o.PutUint32(b[:], v)
	w.at(off, b[:])
}

func (w *fileWriter) u64(off int64, v uint64) {
	var b [8]byte
	w.o.PutUint64(b[:], v)
	w.at(off, b[:])
}

// patch opens the file for writing, runs fn, then re-reads the header. A
// BadSize error from fn does not stop the patch; it is returned afterwards.
func (e *Editor) patch(o byteorder.Order, fn func(w *fileWriter) error) error {
	f, err := os.OpenFile(e.path, os.O_RDWR, 0)
	if err != nil {
		return wrapError(KindCantOpenFile, e.path, e.d.Type, err, "")
	}
	w := &fileWriter{f: f, path: e.path, t: e.d.Type, o: o}
	ferr := fn(w)
	if ferr != nil && !errors.Is(ferr, ErrBadSize) {
		f.Close()
		return withPath(ferr, e.path)
	}
	if w.err != nil {
		f.Close()
		return w.err
	}
	if err := f.Close(); err != nil {
		return wrapError(KindWriteError, e.path, e.d.Type, err, "close")
	}
	if err := e.refresh(); err != nil {
		return err
	}
	return withPath(ferr, e.path)
}

// order is the byte order of the file's header fields, taken from its magic.
// The sample type does not tell: an 8-bit RIFX or "dns." file has no
// endianness of its own.
func (e *Editor) order() byteorder.Order {
	switch e.d.Type {
	case RIFF, RF64, NeXT, BICSF, IRCAM:
	default:
		return byteorder.BigEndian
	}
	b, err := e.readAt(0, 4)
	if err != nil {
		return byteorder.BigEndian
	}
	switch e.d.Type {
	case RIFF, RF64:
		if string(b) == string(rifxID[:]) {
			return byteorder.BigEndian
		}
		return byteorder.LittleEndian
	case NeXT, BICSF:
		o, _ := isNeXT(b)
		return o
	}
	o, _ := ircamMagic(b)
	return o
}

func (e *Editor) readAt(off int64, n int) ([]byte, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, wrapError(KindCantOpenFile, e.path, e.d.Type, err, "")
	}
	defer f.Close()
	b := make([]byte, n)
	if _, err := f.ReadAt(b, off); err != nil {
		return nil, wrapError(KindReadError, e.path, e.d.Type, err, "").at(off)
	}
	return b, nil
}

// spec describes the current header as a WriteSpec for rewrites.
func (e *Editor) spec() (WriteSpec, error) {
	comment, err := e.Comment()
	if err != nil {
		return WriteSpec{}, err
	}
	return WriteSpec{
		Type:       e.d.Type,
		SampleType: e.d.SampleType,
		SampleRate: e.d.SampleRate,
		Chans:      e.d.Chans,
		Samples:    e.d.Samples,
		Comment:    comment,
	}, nil
}

func (e *Editor) rewriteWith(spec WriteSpec) error {
	err := rewrite(e.path, e.d, spec, e.d.DataBytes())
	if err != nil && !errors.Is(err, ErrBadSize) {
		return err
	}
	if rerr := e.refresh(); rerr != nil {
		return rerr
	}
	return err
}

// Comment returns the text of the header comment, empty when there is none.
func (e *Editor) Comment() (string, error) {
	if e.d.Comment.Empty() {
		return "", nil
	}
	b, err := e.readAt(e.d.Comment.Start, int(e.d.Comment.Len()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Editor) frameBytes() int64 {
	return int64(max(e.d.Chans, 1) * e.d.SampleType.Bytes())
}

// SetSamples records a new interleaved sample count. A RIFF file whose sizes
// no longer fit 32 bits is upgraded to RF64.
func (e *Editor) SetSamples(n int64) error {
	if n < 0 {
		return e.fail(KindBadSize, "negative sample count %d", n)
	}
	if !e.d.SampleType.Valid() {
		return e.fail(KindUnsupportedDataFormat, "sample size unknown")
	}
	bytesN := SamplesToBytes(e.d.SampleType, n)
	frames := n / int64(max(e.d.Chans, 1))
	loc := e.d.DataLocation

	switch e.d.Type {
	case NeXT, BICSF:
		return e.patch(e.order(), func(w *fileWriter) error {
			v, err := clamp32(e.d.Type, bytesN, "data size")
			w.u32(nextSizeField, v)
			return err
		})

	case AIFF, AIFC:
		if e.off.DataSize == 0 || e.off.Frames == 0 {
			return e.fail(KindCantConvert, "size fields not located")
		}
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			ssndData := e.off.DataSize + 4
			form, err1 := clamp32(e.d.Type, loc+bytesN-8, "FORM size")
			ssnd, err2 := clamp32(e.d.Type, loc-ssndData+bytesN, "SSND size")
			fr, err3 := clamp32(e.d.Type, frames, "frame count")
			w.u32(e.off.FormSize, form)
			w.u32(e.off.DataSize, ssnd)
			w.u32(e.off.Frames, fr)
			return firstErr(err1, err2, err3)
		})

	case RIFF:
		if e.off.DataSize == 0 {
			return e.fail(KindCantConvert, "data chunk not located")
		}
		if loc+bytesN-8 > math.MaxUint32-1 {
			return e.upgradeRF64(n, bytesN, frames)
		}
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(e.off.FormSize, uint32(loc+bytesN-8))
			w.u32(e.off.DataSize, uint32(bytesN))
			return nil
		})

	case RF64:
		if e.off.DS64 == 0 {
			return e.fail(KindCantConvert, "no ds64 chunk")
		}
		return e.patch(byteorder.LittleEndian, func(w *fileWriter) error {
			w.u64(e.off.DS64, uint64(loc+bytesN-8))
			w.u64(e.off.DS64+8, uint64(bytesN))
			w.u64(e.off.DS64+16, uint64(frames))
			return nil
		})

	case CAFF:
		if e.off.DataSize == 0 {
			return e.fail(KindCantConvert, "data chunk not located")
		}
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			w.u64(e.off.DataSize, uint64(bytesN+4))
			return nil
		})

	case NIST:
		spec, err := e.spec()
		if err != nil {
			return err
		}
		spec.Samples = n
		return e.patchNIST(spec)

	case IRCAM, Raw:
		// No size field; the length of the file is the sample count.
		return nil
	}
	return e.fail(KindUnsupportedHeaderType, "cannot change the sample count")
}

// upgradeRF64 turns a RIFF header into RF64. A JUNK chunk reserved ahead of
// the data becomes the ds64 chunk so the samples stay where they are;
// without one the header is rewritten.
func (e *Editor) upgradeRF64(n, bytesN, frames int64) error {
	loc := e.d.DataLocation
	// RF64 is little-endian only, so a RIFX header cannot be patched over.
	rifx := e.order() == byteorder.BigEndian
	if rifx || e.off.Filler == 0 || e.off.FillerSize < ds64Size || e.off.Filler > loc {
		logger.Info("rewriting RIFF as RF64", "path", e.path, "bytes", bytesN, "rifx", rifx)
		spec, err := e.spec()
		if err != nil {
			return err
		}
		spec.Type, spec.Samples = RF64, n
		return e.rewriteWith(spec)
	}

	logger.Info("upgrading RIFF to RF64 in place", "path", e.path, "bytes", bytesN)
	return e.patch(byteorder.LittleEndian, func(w *fileWriter) error {
		w.at(0, rf64ID[:])
		w.u32(e.off.FormSize, rf64Unknown)
		w.at(e.off.Filler, ds64ID[:])
		w.u32(e.off.Filler+4, uint32(e.off.FillerSize))
		body := make([]byte, e.off.FillerSize)
		le := byteorder.LittleEndian
		le.PutUint64(body[0:8], uint64(loc+bytesN-8))
		le.PutUint64(body[8:16], uint64(bytesN))
		le.PutUint64(body[16:24], uint64(frames))
		w.at(e.off.Filler+8, body)
		w.u32(e.off.DataSize, rf64Unknown)
		return nil
	})
}

// SetSampleRate rewrites the rate field.
func (e *Editor) SetSampleRate(rate int) error {
	if rate <= 0 {
		return e.fail(KindBadSize, "sample rate %d", rate)
	}
	switch e.d.Type {
	case NeXT, BICSF:
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(nextRateField, uint32(rate))
			return nil
		})
	case AIFF, AIFC:
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			var ext [10]byte
			byteorder.PutExtended80(ext[:], float64(rate))
			w.at(e.off.Format+8, ext[:])
			return nil
		})
	case RIFF, RF64:
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(e.off.Format+4, uint32(rate))
			w.u32(e.off.Format+8, uint32(int64(rate)*e.frameBytes()))
			return nil
		})
	case CAFF:
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			w.u64(e.off.Format, math.Float64bits(float64(rate)))
			return nil
		})
	case IRCAM:
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(4, math.Float32bits(float32(rate)))
			return nil
		})
	case NIST:
		spec, err := e.spec()
		if err != nil {
			return err
		}
		spec.SampleRate = rate
		return e.patchNIST(spec)
	}
	return e.fail(KindUnsupportedHeaderType, "cannot change the sample rate")
}

// SetChans rewrites the channel count and the fields derived from it.
func (e *Editor) SetChans(chans int) error {
	if chans <= 0 || chans > math.MaxUint16 {
		return e.fail(KindBadSize, "channel count %d", chans)
	}
	width := int64(e.d.SampleType.Bytes())
	switch e.d.Type {
	case NeXT, BICSF:
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(nextChansField, uint32(chans))
			return nil
		})
	case AIFF, AIFC:
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			frames, err := clamp32(e.d.Type, e.d.Samples/int64(chans), "frame count")
			w.u16(e.off.Format, uint16(chans))
			w.u32(e.off.Frames, frames)
			return err
		})
	case RIFF, RF64:
		return e.patch(e.order(), func(w *fileWriter) error {
			align := int64(chans) * width
			w.u16(e.off.Format+2, uint16(chans))
			w.u32(e.off.Format+8, uint32(int64(e.d.SampleRate)*align))
			w.u16(e.off.Format+12, uint16(align))
			if e.d.Type == RF64 && e.off.DS64 != 0 {
				w.u64(e.off.DS64+16, uint64(e.d.Samples/int64(chans)))
			}
			return nil
		})
	case CAFF:
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			w.u32(e.off.Format+16, uint32(int64(chans)*width))
			w.u32(e.off.Format+24, uint32(chans))
			return nil
		})
	case IRCAM:
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(8, uint32(chans))
			return nil
		})
	case NIST:
		spec, err := e.spec()
		if err != nil {
			return err
		}
		spec.Chans = chans
		return e.patchNIST(spec)
	}
	return e.fail(KindUnsupportedHeaderType, "cannot change the channel count")
}

// SetSampleType changes how the existing sample bytes are interpreted. The
// data itself is not converted.
func (e *Editor) SetSampleType(st sample.Type) error {
	if !e.d.Type.SupportsType(st) {
		return e.fail(KindUnsupportedDataFormat, "%s cannot hold %s samples", e.d.Type.Name(), st.Name())
	}
	width := int64(st.Bytes())
	frameBytes := int64(max(e.d.Chans, 1)) * width

	switch e.d.Type {
	case NeXT:
		code, _ := nextCode(st)
		if e.order() != byteorder.BigEndian {
			return e.fail(KindCantConvert, "little-endian NeXT header")
		}
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			w.u32(nextFormField, code)
			return nil
		})

	case IRCAM:
		mode, _ := ircamPackMode(st)
		if e.order() != byteorder.BigEndian && st.Bytes() > 1 {
			spec, err := e.spec()
			if err != nil {
				return err
			}
			spec.SampleType = st
			spec.Samples = BytesToSamples(st, e.d.DataBytes())
			return e.rewriteWith(spec)
		}
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u32(12, mode)
			return nil
		})

	case RIFF, RF64:
		if e.off.FormatSize < fmtChunkSize {
			return e.fail(KindCantConvert, "fmt chunk too short")
		}
		tag, bits := waveFormatTag(st)
		return e.patch(e.order(), func(w *fileWriter) error {
			w.u16(e.off.Format, uint16(tag))
			w.u32(e.off.Format+8, uint32(int64(e.d.SampleRate)*frameBytes))
			w.u16(e.off.Format+12, uint16(frameBytes))
			w.u16(e.off.Format+14, uint16(bits))
			if e.d.Type == RF64 && e.off.DS64 != 0 {
				w.u64(e.off.DS64+16, uint64(e.d.DataBytes()/frameBytes))
			}
			return nil
		})

	case AIFF:
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			frames, err := clamp32(AIFF, e.d.DataBytes()/frameBytes, "frame count")
			w.u32(e.off.Frames, frames)
			w.u16(e.off.Format+6, uint16(aiffBits(st)))
			return err
		})

	case CAFF:
		format, flags := caffFormat(st)
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			w.at(e.off.Format+8, []byte(format))
			w.u32(e.off.Format+12, flags)
			w.u32(e.off.Format+16, uint32(frameBytes))
			w.u32(e.off.Format+28, uint32(st.Bits()))
			return nil
		})

	case AIFC, NIST:
		spec, err := e.spec()
		if err != nil {
			return err
		}
		spec.SampleType = st
		spec.Samples = BytesToSamples(st, e.d.DataBytes())
		if e.d.Type == NIST {
			return e.patchNIST(spec)
		}
		return e.rewriteWith(spec)
	}
	return e.fail(KindUnsupportedHeaderType, "cannot change the sample type")
}

// SetComment replaces the header comment, growing the header when needed.
func (e *Editor) SetComment(comment string) error {
	switch e.d.Type {
	case NeXT:
		room := e.d.DataLocation - nextHeaderSize
		if int64(len(comment)) <= room && e.order() == byteorder.BigEndian {
			return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
				b := make([]byte, room)
				copy(b, comment)
				w.at(nextHeaderSize, b)
				return nil
			})
		}
	case IRCAM:
		if e.order() == byteorder.BigEndian {
			hdr, _, err := buildIRCAM(WriteSpec{SampleType: e.d.SampleType, Comment: comment})
			if err != nil {
				return withPath(err, e.path)
			}
			return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
				w.at(ircamCodesStart, hdr[ircamCodesStart:])
				return nil
			})
		}
	case AIFF, AIFC, RIFF, RF64, CAFF:
	default:
		return e.fail(KindUnsupportedHeaderType, "no comment field")
	}

	spec, err := e.spec()
	if err != nil {
		return err
	}
	spec.Comment = comment
	return e.rewriteWith(spec)
}

// SetDataLocation moves where the header says the samples start.
func (e *Editor) SetDataLocation(loc int64) error {
	switch e.d.Type {
	case NeXT, BICSF:
		if loc < nextHeaderSize {
			return e.fail(KindBadSize, "data location %d inside the header", loc)
		}
		return e.patch(e.order(), func(w *fileWriter) error {
			v, err := clamp32(e.d.Type, loc, "data location")
			w.u32(4, v)
			return err
		})
	case AIFF, AIFC:
		ssndData := e.off.DataSize + 4
		skip := loc - ssndData - 8
		if e.off.DataSize == 0 || skip < 0 {
			return e.fail(KindCantConvert, "data location %d before the SSND chunk", loc)
		}
		return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
			size, err := clamp32(e.d.Type, 8+skip+e.d.DataBytes(), "SSND size")
			w.u32(e.off.DataSize, size)
			w.u32(ssndData, uint32(skip))
			return err
		})
	}
	return e.fail(KindCantConvert, "data location is fixed by the container")
}

// ConvertType rewrites the file under another container, sample data
// unchanged.
func (e *Editor) ConvertType(t Type) error {
	if t == e.d.Type {
		return nil
	}
	if !t.Writable() {
		return e.fail(KindUnsupportedHeaderType, "cannot write %s headers", t.Name())
	}
	if !t.SupportsType(e.d.SampleType) {
		return e.fail(KindUnsupportedDataFormat, "%s cannot hold %s samples", t.Name(), e.d.SampleType.Name())
	}
	spec, err := e.spec()
	if err != nil {
		return err
	}
	spec.Type = t
	if t == NIST || t == Raw {
		spec.Comment = ""
	}
	return e.rewriteWith(spec)
}

// patchNIST regenerates the fixed 1024-byte NIST header in place.
func (e *Editor) patchNIST(spec WriteSpec) error {
	if e.d.DataLocation != nistHeaderSize {
		return e.rewriteWith(spec)
	}
	hdr, _, err := buildNIST(spec)
	if err != nil {
		return withPath(err, e.path)
	}
	return e.patch(byteorder.BigEndian, func(w *fileWriter) error {
		w.at(0, hdr)
		return nil
	})
}
