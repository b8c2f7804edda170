// SPDX-License-Identifier: EPL-2.0

package byteorder

import (
	"errors"
	"fmt"
	"io"
)

// ErrOutOfBounds is returned when a read would cross the end of the file.
var ErrOutOfBounds = errors.New("read out of bounds")

// SafeReader wraps an io.ReaderAt with bounds checking so a truncated header
// turns into an error instead of a short slice.
type SafeReader struct {
	r    io.ReaderAt
	size int64
	path string
}

func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{r: r, size: size, path: path}
}

func (sr *SafeReader) Size() int64  { return sr.size }
func (sr *SafeReader) Path() string { return sr.path }

// ReadAt fills b from off. what names the field for the error message.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off+int64(len(b)) > sr.size {
		return fmt.Errorf("%s: %w: %d bytes at offset %d (file size %d) while reading %s",
			sr.path, ErrOutOfBounds, len(b), off, sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: read %s at offset %d: %w", sr.path, what, off, err)
	}
	return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, want %d",
		sr.path, what, off, n, len(b))
}

// Bytes reads n bytes at off into a fresh slice. The range is checked
// before anything is allocated.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	if n < 0 || off < 0 || off+int64(n) > sr.size {
		return nil, fmt.Errorf("%s: %w: %d bytes at offset %d (file size %d) while reading %s",
			sr.path, ErrOutOfBounds, n, off, sr.size, what)
	}
	b := make([]byte, n)
	if err := sr.ReadAt(b, off, what); err != nil {
		return nil, err
	}
	return b, nil
}

// Head reads up to n bytes from the start of the file; shorter files give a
// shorter slice and no error.
func (sr *SafeReader) Head(n int) ([]byte, error) {
	if int64(n) > sr.size {
		n = int(sr.size)
	}
	if n <= 0 {
		return nil, nil
	}
	return sr.Bytes(0, n, "leading bytes")
}

func (sr *SafeReader) Uint16(off int64, o Order, what string) (uint16, error) {
	var b [2]byte
	if err := sr.ReadAt(b[:], off, what); err != nil {
		return 0, err
	}
	return o.Uint16(b[:]), nil
}

func (sr *SafeReader) Uint32(off int64, o Order, what string) (uint32, error) {
	var b [4]byte
	if err := sr.ReadAt(b[:], off, what); err != nil {
		return 0, err
	}
	return o.Uint32(b[:]), nil
}

func (sr *SafeReader) Uint64(off int64, o Order, what string) (uint64, error) {
	var b [8]byte
	if err := sr.ReadAt(b[:], off, what); err != nil {
		return 0, err
	}
	return o.Uint64(b[:]), nil
}

// Section returns a sequential reader over n bytes from off, clamped to the
// file.
func (sr *SafeReader) Section(off, n int64) *io.SectionReader {
	off = min(max(off, 0), sr.size)
	n = min(max(n, 0), sr.size-off)
	return io.NewSectionReader(sr.r, off, n)
}

// Limit returns a reader over the same file that ends at size.
func (sr *SafeReader) Limit(size int64) *SafeReader {
	if size > sr.size {
		size = sr.size
	}
	return &SafeReader{r: sr.r, size: size, path: sr.path}
}
