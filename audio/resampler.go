// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

const maxIdleReads = 100

// Resampler converts src to another sample rate. Source frames are read in
// blocks of src.BufSize() samples and interpolated between; when
// downsampling, incoming frames pass through a one-pole low-pass just below
// the new Nyquist frequency.
type Resampler struct {
	src    Source
	rate   int
	chans  int
	step   float64 // source frames per output frame
	interp Interpolator

	buf    []float32 // buffered source frames, interleaved
	frames int       // frames held in buf
	pos    float64   // read position in buf, in frames
	eof    bool
	idle   int

	alpha float32
	state []float32
	warm  bool
}

// NewResampler resamples src to rate with cubic interpolation.
func NewResampler(src Source, rate int) *Resampler {
	return NewResamplerWith(src, rate, Cubic)
}

// NewResamplerWith resamples src to rate with interp.
func NewResamplerWith(src Source, rate int, interp Interpolator) *Resampler {
	chans := max(src.Channels(), 1)
	block := max(src.BufSize()/chans, 64)
	r := &Resampler{
		src:    src,
		rate:   rate,
		chans:  chans,
		step:   float64(src.SampleRate()) / float64(rate),
		interp: interp,
		buf:    make([]float32, 0, (block+4)*chans),
		state:  make([]float32, chans),
	}
	if r.step > 1 {
		r.alpha = lowPassAlpha(0.45*float64(rate), float64(src.SampleRate()))
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.chans }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// fill drops frames before keep and appends one block from the source.
func (r *Resampler) fill(keep int) error {
	keep = min(max(keep, 0), r.frames)
	if keep > 0 {
		n := copy(r.buf, r.buf[keep*r.chans:r.frames*r.chans])
		r.buf = r.buf[:n]
		r.frames -= keep
		r.pos -= float64(keep)
	}

	start := len(r.buf)
	r.buf = r.buf[:cap(r.buf)]
	n, err := r.src.ReadSamples(r.buf[start:])
	n -= n % r.chans
	r.buf = r.buf[:start+n]
	r.filter(r.buf[start:])
	r.frames += n / r.chans

	if err == io.EOF {
		r.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("resampler read: %w", err)
	}
	if n > 0 {
		r.idle = 0
	} else if r.idle++; r.idle > maxIdleReads {
		return io.ErrNoProgress
	}
	return nil
}

func (r *Resampler) filter(in []float32) {
	if r.alpha == 0 || len(in) == 0 {
		return
	}
	if !r.warm {
		copy(r.state, in[:r.chans])
		r.warm = true
	}
	for i := 0; i < len(in); i += r.chans {
		for c := range r.chans {
			r.state[c] += r.alpha * (in[i+c] - r.state[c])
			in[i+c] = r.state[c]
		}
	}
}

func (r *Resampler) frame(i, c int) float32 {
	i = min(max(i, 0), r.frames-1)
	return r.buf[i*r.chans+c]
}

// ReadSamples produces resampled frames; len(dst) must be a multiple of
// the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.chans != 0 {
		return 0, ErrInvalidDstSize
	}

	want := len(dst) / r.chans
	written := 0
	for written < want {
		i := int(r.pos)
		if !r.eof && i+2 >= r.frames {
			if err := r.fill(i - 1); err != nil {
				return written * r.chans, err
			}
			continue
		}
		if i >= r.frames {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.chans, io.EOF
		}

		x := float32(r.pos - float64(i))
		out := dst[written*r.chans:]
		for c := range r.chans {
			out[c] = r.interp(r.frame(i-1, c), r.frame(i, c), r.frame(i+1, c), r.frame(i+2, c), x)
		}
		written++
		r.pos += r.step
	}
	return written * r.chans, nil
}
