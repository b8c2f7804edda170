// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/fixtures"
	"github.com/ik5/sndkit/sample"
)

// planar splits interleaved samples into one slice per channel.
func planar(interleaved []float64, chans int) [][]float64 {
	frames := len(interleaved) / chans
	out := make([][]float64, chans)
	for ch := range out {
		out[ch] = make([]float64, frames)
		for i := range frames {
			out[ch][i] = interleaved[i*chans+ch]
		}
	}
	return out
}

func makeBufs(chans, frames int) [][]float64 {
	out := make([][]float64, chans)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	return out
}

// writeSine creates a file of frames sine frames through c and returns the
// path and the samples written.
func writeSine(t *testing.T, c *Cache, name string, opts CreateOptions, frames int) (string, [][]float64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := planar(fixtures.SineFrames(opts.SampleRate, opts.Chans, frames, 440, 0.5), opts.Chans)

	h, err := c.Create(path, opts)
	require.NoError(t, err)
	require.NoError(t, h.WriteFrames(0, data))
	require.NoError(t, h.Close())
	return path, data
}

// touch moves path's modification time forward so the cache sees a change
// even on file systems with coarse timestamps.
func touch(t *testing.T, path string, ahead time.Duration) {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	mt := fi.ModTime().Add(ahead)
	require.NoError(t, os.Chtimes(path, mt, mt))
}

// tolerance allows two quantization steps of st.
func tolerance(st sample.Type) float64 {
	switch {
	case st.IsFloat():
		return 1e-6
	case st == sample.MuLaw || st == sample.ALaw:
		return 0.035
	}
	return 2.0 / float64(uint64(1)<<uint(st.Bits()-1))
}

var stereoWAV = CreateOptions{
	Type:       header.RIFF,
	SampleType: sample.LShort,
	SampleRate: 44100,
	Chans:      2,
}
