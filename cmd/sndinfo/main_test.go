// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/fixtures"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribe(t *testing.T) {
	path := fixtures.WriteFile(t, "a.wav", fixtures.WAV16(8000, 2, make([]int16, 20)))

	out, err := run(t, "describe", "--long", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "8000 Hz")
	assert.Contains(t, out, "10 frames")
	assert.Contains(t, out, "duration:")

	_, err = run(t, "describe")
	assert.Error(t, err)
}

func TestSetAndConvert(t *testing.T) {
	path := fixtures.WriteFile(t, "b.au", fixtures.NeXT(3, 8000, 1, make([]byte, 40)))

	out, err := run(t, "set", "--rate", "16000", "--comment", "hi", path)
	require.NoError(t, err)
	assert.Contains(t, out, "16000 Hz")

	_, err = run(t, "set", path)
	assert.ErrorContains(t, err, "nothing to set")

	_, err = run(t, "set", "--sample-type", "nope", path)
	assert.Error(t, err)

	out, err = run(t, "convert", "--type", "aifc", path)
	require.NoError(t, err)
	assert.Contains(t, out, "AIFC")

	d, _, err := header.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header.AIFC, d.Type)
	assert.Equal(t, int64(20), d.Samples)
}

func TestTranscode(t *testing.T) {
	in := fixtures.WriteFile(t, "in.wav", fixtures.WAV16(16000, 2, make([]int16, 3200)))
	out := filepath.Join(t.TempDir(), "out.aiff")

	_, err := run(t, "transcode", "-t", "aiff", "-s", "bshort", "-r", "8000", "--chans", "1", in, out)
	require.NoError(t, err)

	d, _, err := header.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header.AIFF, d.Type)
	assert.Equal(t, 8000, d.SampleRate)
	assert.Equal(t, 1, d.Chans)
}

func TestRawDefaultsWithConfig(t *testing.T) {
	old := header.RawDefaultsValue()
	t.Cleanup(func() { _ = header.SetRawDefaults(old) })

	cfg := filepath.Join(t.TempDir(), "sndinfo.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("raw:\n  sample_rate: 11025\n  channels: 1\n  sample_type: ubyte\n"), 0o644))

	out, err := run(t, "--config", cfg, "raw-defaults")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sample_rate: 11025\nchannels: 1\nsample_type: ubyte\n"), out)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "raw-defaults")
	assert.Error(t, err)
}
