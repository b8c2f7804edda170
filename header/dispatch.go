// SPDX-License-Identifier: EPL-2.0

package header

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
)

// HeadSize is how many leading bytes the dispatcher inspects.
const HeadSize = 256

// Reader recognizes and parses one container family.
type Reader interface {
	Type() Type
	// Detect looks only at the leading bytes (up to HeadSize) and the file size.
	Detect(head []byte, size int64) bool
	Parse(in *Input) (*Descriptor, PendingWriteOffsets, error)
}

// Input is what a Reader parses from: a bounds-checked view of the file plus
// its leading bytes.
type Input struct {
	*byteorder.SafeReader
	Head []byte
}

func (in *Input) descriptor(t Type) *Descriptor {
	return &Descriptor{Path: in.Path(), Type: t, TrueLength: in.Size()}
}

// sub restricts reads to the bytes before end.
func (in *Input) sub(end int64) *Input {
	return &Input{SafeReader: in.Limit(end), Head: in.Head}
}

func (in *Input) fail(t Type, reason string, args ...any) *Error {
	return readFailed(in.Path(), t, reason, args...)
}

// wrap turns a SafeReader error into a HeaderReadFailed error.
func (in *Input) wrap(t Type, err error) error {
	var he *Error
	if errors.As(err, &he) {
		return err
	}
	if errors.Is(err, byteorder.ErrOutOfBounds) {
		return wrapError(KindHeaderReadFailed, in.Path(), t, err, "truncated header")
	}
	return wrapError(KindReadError, in.Path(), t, err, "")
}

type readerFunc struct {
	typ    Type
	detect func(head []byte, size int64) bool
	parse  func(in *Input) (*Descriptor, PendingWriteOffsets, error)
	// form picks the concrete type for readers covering a family (AIFF and
	// AIFC, RIFF and RF64). Nil means typ.
	form func(head []byte) Type
}

// typedReader is implemented by readers whose type depends on the leading
// bytes.
type typedReader interface {
	TypeOf(head []byte) Type
}

func (r readerFunc) Type() Type { return r.typ }
func (r readerFunc) TypeOf(head []byte) Type {
	if r.form != nil {
		return r.form(head)
	}
	return r.typ
}
func (r readerFunc) Detect(head []byte, size int64) bool { return r.detect(head, size) }
func (r readerFunc) Parse(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	return r.parse(in)
}

// Readers returns the dispatch table in precedence order.
func Readers() []Reader {
	out := make([]Reader, len(registry))
	copy(out, registry)
	return out
}

// Detect reports which container the leading bytes belong to, Raw when none
// matches.
func Detect(head []byte, size int64) Type {
	if len(head) < 4 {
		return Raw
	}
	for _, r := range registry {
		if r.Detect(head, size) {
			return typeOf(r, head)
		}
	}
	return Raw
}

// typeOf is the type a reader reports for head, the one Parse stamps on the
// descriptor.
func typeOf(r Reader, head []byte) Type {
	if tr, ok := r.(typedReader); ok {
		return tr.TypeOf(head)
	}
	return r.Type()
}

// Parse reads the header of the file behind r.
func Parse(r io.ReaderAt, size int64, path string) (*Descriptor, PendingWriteOffsets, error) {
	sr := byteorder.NewSafeReader(r, size, path)
	head, err := sr.Head(HeadSize)
	if err != nil {
		return nil, PendingWriteOffsets{}, wrapError(KindReadError, path, Unsupported, err, "")
	}
	in := &Input{SafeReader: sr, Head: head}

	var rd Reader = rawReader
	if len(head) >= 4 {
		for _, cand := range registry {
			if cand.Detect(head, size) {
				rd = cand
				break
			}
		}
	}
	t := typeOf(rd, head)
	logger.Debug("header dispatch", "path", path, "type", t.Name(), "size", size)

	d, off, err := rd.Parse(in)
	if err != nil {
		return nil, PendingWriteOffsets{}, in.wrap(t, err)
	}
	finalize(d)
	off.Type = d.Type
	off.Data = d.DataLocation
	return d, off, nil
}

// ReadFile opens path, parses its header and stamps the modification time.
func ReadFile(path string) (*Descriptor, PendingWriteOffsets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, PendingWriteOffsets{}, wrapError(KindCantOpenFile, path, Unsupported, err, "")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, PendingWriteOffsets{}, wrapError(KindReadError, path, Unsupported, err, "stat")
	}
	if fi.IsDir() {
		return nil, PendingWriteOffsets{}, newError(KindCantOpenFile, path, Unsupported, "is a directory")
	}

	d, off, err := Parse(f, fi.Size(), path)
	if err != nil {
		return nil, off, err
	}
	d.ModTime = fi.ModTime()
	return d, off, nil
}

// finalize enforces the data-location/sample-count invariant.
func finalize(d *Descriptor) {
	if d.DataLocation > d.TrueLength {
		logger.Warn("data location past end of file", "path", d.Path, "type", d.Type.Name(),
			"data_location", d.DataLocation, "size", d.TrueLength)
		d.DataLocation = d.TrueLength
	}
	if d.Samples < 0 {
		d.Samples = 0
	}
	if !d.SampleType.Valid() {
		return
	}
	avail := BytesToSamples(d.SampleType, d.TrueLength-d.DataLocation)
	if d.Samples > avail {
		logger.Debug("declared sample count clamped to file length", "path", d.Path,
			"type", d.Type.Name(), "declared", d.Samples, "available", avail)
		d.Samples = avail
	}
}

// String renders the descriptor the way sndinfo prints it.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s: %s, %s, %d chans, %d Hz, %d frames, data at %d",
		d.Path, d.Type.Name(), d.SampleType.Name(), d.Chans, d.SampleRate, d.Frames(), d.DataLocation)
}
