// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/sndkit/audio"
	"github.com/ik5/sndkit/header"
)

// oggReader is the part of oggvorbis.Reader the source uses.
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

type source struct {
	dec   oggReader
	rate  int
	chans int
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.chans }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 - 4096%s.chans }

// Frames is the stream length in frames, 0 when the reader cannot tell.
func (s *source) Frames() int64 { return s.dec.Length() }

// ReadSamples reads whole frames; oggvorbis counts interleaved values.
func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%s.chans]
	if len(dst) == 0 {
		return 0, nil
	}
	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("vorbis read: %w", err)
	}
	return n, err
}

// Decoder reads Ogg Vorbis through oggvorbis. It is registered for
// header.Ogg; Ogg streams carrying other codecs fail in Decode.
type Decoder struct{}

func (Decoder) Decode(r io.ReadSeeker, _ *header.Descriptor) (audio.Source, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("vorbis seek: %w", err)
	}
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	if dec.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidStream, dec.Channels())
	}
	return &source{dec: dec, rate: dec.SampleRate(), chans: dec.Channels()}, nil
}
