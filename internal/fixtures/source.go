// SPDX-License-Identifier: EPL-2.0

// Package fixtures builds synthetic sample streams and sound files for tests.
package fixtures

import (
	"io"
	"math"
)

// Waveform returns the value of frame i on channel ch.
type Waveform func(i, ch int) float32

// Source generates frames frames of a waveform. It satisfies audio.Source
// without importing it.
type Source struct {
	rate, chans int
	frames      int
	pos         int
	wave        Waveform

	// Err, when set, is returned by ReadSamples once FailAt frames are out.
	Err    error
	FailAt int

	Closed bool
}

func NewSource(rate, chans, frames int, wave Waveform) *Source {
	return &Source{rate: rate, chans: chans, frames: frames, wave: wave}
}

func Silence(rate, chans, frames int) *Source {
	return NewSource(rate, chans, frames, func(int, int) float32 { return 0 })
}

func Constant(rate, chans, frames int, v float32) *Source {
	return NewSource(rate, chans, frames, func(int, int) float32 { return v })
}

// Sine is a sine wave of freq Hz; channel ch is shifted by ch radians.
func Sine(rate, chans, frames int, freq float64) *Source {
	return NewSource(rate, chans, frames, SineWave(rate, freq, 1))
}

// Ramp counts up by one per frame, offset by 1000 per channel.
func Ramp(rate, chans, frames int) *Source {
	return NewSource(rate, chans, frames, func(i, ch int) float32 { return float32(i + 1000*ch) })
}

// SineWave is the waveform behind Sine, scaled by amp.
func SineWave(rate int, freq, amp float64) Waveform {
	return func(i, ch int) float32 {
		t := float64(i) / float64(rate)
		return float32(amp * math.Sin(2*math.Pi*freq*t+float64(ch)))
	}
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.chans }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

// Reset rewinds to the first frame.
func (s *Source) Reset() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.Err != nil && s.pos >= s.FailAt {
		return 0, s.Err
	}
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.chans, s.frames-s.pos)
	if s.Err != nil {
		n = min(n, s.FailAt-s.pos)
	}
	for f := range n {
		for ch := range s.chans {
			dst[f*s.chans+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n
	if s.pos >= s.frames {
		return n * s.chans, io.EOF
	}
	return n * s.chans, nil
}
