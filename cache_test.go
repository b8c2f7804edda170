// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/fixtures"
	"github.com/ik5/sndkit/sample"
)

func TestCache_DescribeCaches(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "a.wav", fixtures.WAV16(8000, 1, make([]int16, 10)))

	d1, err := c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	d1.SampleRate = 1 // copies are private
	d2, err := c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, d2.SampleRate)
	assert.Equal(t, 1, c.Len())
}

func TestCache_OneEntryPerFile(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "same.wav", fixtures.WAV16(8000, 1, make([]int16, 10)))
	dir, name := filepath.Split(path)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(cwd, path)
	require.NoError(t, err)

	for _, p := range []string{path, dir + "./" + name, dir + "/" + name, rel} {
		_, err := c.Describe(p)
		require.NoError(t, err, p)
	}
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Edit(rel, func(e *header.Editor) error { return e.SetSampleRate(22050) }))
	d, err := c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, d.SampleRate)
	assert.Equal(t, 1, c.Len())

	c.Forget(dir + "./" + name)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ReparsesOnModTimeChange(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "b.wav", fixtures.WAV16(8000, 1, make([]int16, 10)))

	d, err := c.Describe(path)
	require.NoError(t, err)
	require.Equal(t, 8000, d.SampleRate)

	// Replace the file behind the cache's back.
	require.NoError(t, os.WriteFile(path, fixtures.WAV16(16000, 2, make([]int16, 40)), 0o644))
	touch(t, path, 2*time.Second)

	d, err = c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, d.SampleRate)
	assert.Equal(t, 2, d.Chans)
	assert.Equal(t, int64(20), d.Frames())
}

func TestCache_StaleEntryWithSameModTime(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "c.wav", fixtures.WAV16(8000, 1, make([]int16, 10)))
	fi, err := os.Stat(path)
	require.NoError(t, err)

	_, err = c.Describe(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, fixtures.WAV16(11025, 1, make([]int16, 10)), 0o644))
	require.NoError(t, os.Chtimes(path, fi.ModTime(), fi.ModTime()))

	// Only the modification time is compared.
	d, err := c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, d.SampleRate)

	c.Forget(path)
	d, err = c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 11025, d.SampleRate)
}

func TestCache_RawGrowth(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "d.raw", bytes.Repeat([]byte{0x55}, 64))

	d, err := c.Describe(path)
	require.NoError(t, err)
	require.Equal(t, header.Raw, d.Type)
	bw := int64(d.SampleType.Bytes())
	assert.Equal(t, 64/bw, d.Samples)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write(bytes.Repeat([]byte{0x55}, 64))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	touch(t, path, 2*time.Second)

	d, err = c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, int64(128), d.TrueLength)
	assert.Equal(t, 128/bw, d.Samples)

	// A shrunk raw file is parsed again.
	require.NoError(t, os.Truncate(path, 32))
	touch(t, path, 4*time.Second)
	d, err = c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32), d.TrueLength)
	assert.Equal(t, 32/bw, d.Samples)
}

func TestCache_PruneMissing(t *testing.T) {
	t.Parallel()

	c := NewCache()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.wav", "2.wav", "3.wav"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, fixtures.WAV16(8000, 1, make([]int16, 4)), 0o644))
		_, err := c.Describe(p)
		require.NoError(t, err)
		paths = append(paths, p)
	}
	require.Equal(t, 3, c.Len())

	require.NoError(t, os.Remove(paths[0]))
	require.NoError(t, os.Remove(paths[2]))
	assert.Equal(t, 2, c.PruneMissing())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.PruneMissing())
}

func TestCache_DescribeMissingDropsEntry(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path := fixtures.WriteFile(t, "gone.wav", fixtures.WAV16(8000, 1, make([]int16, 4)))
	_, err := c.Describe(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = c.Describe(path)
	assert.ErrorIs(t, err, ErrCantOpenFile)
	assert.Equal(t, 0, c.Len())
}

func TestCache_BadHeaderIsNotCached(t *testing.T) {
	t.Parallel()

	c := NewCache()
	// FORM/AIFF with no COMM chunk.
	data := []byte("FORM\x00\x00\x00\x04AIFF")
	path := fixtures.WriteFile(t, "bad.aiff", data)

	_, err := c.Describe(path)
	assert.ErrorIs(t, err, ErrHeaderReadFailed)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Edit(t *testing.T) {
	t.Parallel()

	c := NewCache()
	path, _ := writeSine(t, c, "edit.wav", stereoWAV, 100)

	require.NoError(t, c.Edit(path, func(e *header.Editor) error { return e.SetSampleRate(22050) }))
	d, err := c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, d.SampleRate)

	err = c.Edit(path, func(e *header.Editor) error { return e.SetSampleType(sample.BShort) })
	assert.ErrorIs(t, err, ErrUnsupportedDataFormat)
	assert.Equal(t, 0, c.Len())

	d, err = c.Describe(path)
	require.NoError(t, err)
	assert.Equal(t, sample.LShort, d.SampleType)
}
