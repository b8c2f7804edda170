// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/sndkit/sample"
)

// Convert adapts src to rate and chans, wrapping it in a Resampler and a
// Remixer only where needed.
func Convert(src Source, rate, chans int) (Source, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadRate, rate)
	}
	if chans <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadChannels, chans)
	}
	out := src
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	if out.Channels() != chans {
		out = NewRemixer(out, chans)
	}
	return out, nil
}

// Collect reads src to the end.
func Collect(src Source, bufSize int) ([]float32, error) {
	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	bufSize -= bufSize % max(src.Channels(), 1)
	if bufSize <= 0 {
		bufSize = max(src.Channels(), 1)
	}

	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("collect: %w", err)
		}
	}
}

// Render converts src to rate and chans and encodes the whole stream as st,
// clamping out-of-range values. It produces the fixed interchange buffers
// playback devices take.
func Render(src Source, rate, chans int, st sample.Type, bufSize int) ([]byte, error) {
	conv, err := Convert(src, rate, chans)
	if err != nil {
		return nil, err
	}
	floats, err := Collect(conv, bufSize)
	if err != nil {
		return nil, err
	}

	wide := make([]float64, len(floats))
	for i, v := range floats {
		wide[i] = float64(v)
	}
	out := make([]byte, len(wide)*st.Bytes())
	if _, err := sample.Encode(out, wide, st, sample.NewClipper(nil)); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}
