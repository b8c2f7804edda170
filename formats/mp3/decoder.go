// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/sndkit/audio"
	"github.com/ik5/sndkit/header"
)

// go-mp3 always emits 16-bit little-endian stereo.
const (
	channels    = 2
	frameBytes  = 2 * channels
	defaultBuf  = 8192
	sampleScale = 1.0 / 32768
)

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec  mp3Reader
	rate int
	buf  []byte
	tail int // bytes of an incomplete sample kept at buf[0:tail]
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// Frames is the decoded length in frames, or -1 when unknown.
func (s *source) Frames() int64 {
	if n := s.dec.Length(); n >= 0 {
		return n / frameBytes
	}
	return -1
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * 2
	if cap(s.buf) < need {
		nb := make([]byte, need)
		copy(nb, s.buf[:s.tail])
		s.buf = nb
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.tail:])
	n += s.tail
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) * sampleScale
	}
	s.tail = copy(s.buf, s.buf[samples*2:n])

	if samples == 0 && err == nil {
		return 0, nil
	}
	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("mp3 read: %w", err)
	}
	return samples, err
}

// Decoder reads MPEG audio through go-mp3. It is registered for
// header.MPEG.
type Decoder struct{}

func (Decoder) Decode(r io.ReadSeeker, _ *header.Descriptor) (audio.Source, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("mp3 seek: %w", err)
	}
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	return &source{dec: dec, rate: dec.SampleRate(), buf: make([]byte, defaultBuf)}, nil
}
