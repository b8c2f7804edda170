// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/sndkit/audio"
	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

const defaultFrames = 4096

// Source reads the sample data described by a Descriptor.
type Source struct {
	r      io.ReaderAt
	closer io.Closer
	d      *header.Descriptor
	st     sample.Type
	chans  int

	start int64 // data location
	end   int64 // one past the last whole sample
	pos   int64 // next byte to read

	raw  []byte
	wide []float64
}

// NewSource reads from r, which must hold the file d was parsed from. If r
// is an io.Closer, Close closes it.
func NewSource(r io.ReaderAt, d *header.Descriptor) (*Source, error) {
	if !d.SampleType.Valid() {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedType, d.SampleType.Name(), d.Type.Name())
	}
	if d.Chans <= 0 || d.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d chans, %d Hz", ErrBadDescriptor, d.Chans, d.SampleRate)
	}

	s := &Source{
		r:     r,
		d:     d,
		st:    d.SampleType,
		chans: d.Chans,
		start: d.DataLocation,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	frames := d.Frames()
	s.end = s.start + header.SamplesToBytes(s.st, frames*int64(s.chans))
	s.pos = s.start
	return s, nil
}

func (s *Source) SampleRate() int { return s.d.SampleRate }
func (s *Source) Channels() int   { return s.chans }
func (s *Source) BufSize() int    { return defaultFrames * s.chans }

// Descriptor is the header the source was built from.
func (s *Source) Descriptor() *header.Descriptor { return s.d }

// Frames is the total frame count.
func (s *Source) Frames() int64 { return s.d.Frames() }

func (s *Source) frameBytes() int64 { return int64(s.chans * s.st.Bytes()) }

// Position is the index of the next frame ReadSamples returns.
func (s *Source) Position() int64 { return (s.pos - s.start) / s.frameBytes() }

// SeekFrame moves to frame, clamped to the stream.
func (s *Source) SeekFrame(frame int64) {
	frame = max(0, min(frame, s.Frames()))
	s.pos = s.start + frame*s.frameBytes()
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// ReadSamples decodes whole frames into dst.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.chans != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	n, err := s.readFloat64(len(dst))
	for i := range n {
		dst[i] = float32(s.wide[i])
	}
	return n, err
}

// ReadFloat64 is ReadSamples at full precision.
func (s *Source) ReadFloat64(dst []float64) (int, error) {
	if len(dst)%s.chans != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	n, err := s.readFloat64(len(dst))
	copy(dst, s.wide[:n])
	return n, err
}

func (s *Source) readFloat64(want int) (int, error) {
	if s.pos >= s.end {
		return 0, io.EOF
	}
	w := int64(s.st.Bytes())
	left := (s.end - s.pos) / w
	samples := min(int64(want), left)
	samples -= samples % int64(s.chans)
	if samples == 0 {
		return 0, io.EOF
	}

	nb := int(samples * w)
	if cap(s.raw) < nb {
		s.raw = make([]byte, nb)
	}
	if cap(s.wide) < int(samples) {
		s.wide = make([]float64, samples)
	}
	raw, wide := s.raw[:nb], s.wide[:samples]

	got, err := s.r.ReadAt(raw, s.pos)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: %w", header.ErrReadError, err)
	}
	// Drop a trailing partial frame left by a short file.
	got -= got % int(s.frameBytes())
	if got == 0 {
		s.pos = s.end
		return 0, io.EOF
	}
	n, derr := sample.Decode(wide, raw[:got], s.st)
	if derr != nil {
		return 0, derr
	}
	s.pos += int64(got)
	if s.pos >= s.end {
		return n, io.EOF
	}
	return n, nil
}

// Decoder is the registry entry for uncompressed containers. It needs r to
// be an io.ReaderAt, which *os.File is.
type Decoder struct{}

func (Decoder) Decode(r io.ReadSeeker, d *header.Descriptor) (audio.Source, error) {
	ra, ok := r.(io.ReaderAt)
	if !ok {
		return nil, fmt.Errorf("%w: reader does not support ReadAt", header.ErrReadError)
	}
	return NewSource(ra, d)
}
