// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

func TestMutations_KeepCacheInStep(t *testing.T) {
	t.Parallel()

	path, _ := writeSine(t, defaultCache, "mut.aiff",
		CreateOptions{Type: header.AIFF, SampleType: sample.BShort, SampleRate: 44100, Chans: 2}, 300)

	require.NoError(t, SetSampleRate(path, 48000))
	d, err := Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, d.SampleRate)

	require.NoError(t, SetChans(path, 1))
	d, err = Describe(path)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Chans)
	assert.Equal(t, int64(600), d.Frames())

	require.NoError(t, SetSamples(path, 100))
	d, err = Describe(path)
	require.NoError(t, err)
	assert.Equal(t, int64(100), d.Samples)

	require.NoError(t, SetComment(path, "hello"))
	cm, err := Comment(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", cm)

	err = ConvertType(path, header.RIFF)
	assert.ErrorIs(t, err, ErrUnsupportedDataFormat, "RIFF has no big-endian shorts")

	require.NoError(t, ConvertType(path, header.NeXT))
	d, err = Describe(path)
	require.NoError(t, err)
	assert.Equal(t, header.NeXT, d.Type)
	assert.Equal(t, 48000, d.SampleRate)
	assert.Equal(t, int64(100), d.Samples)

	require.NoError(t, SetSampleType(path, sample.ALaw))
	d, err = Describe(path)
	require.NoError(t, err)
	assert.Equal(t, sample.ALaw, d.SampleType)

	err = SetDataLocation(path, 10)
	assert.ErrorIs(t, err, ErrBadSize)

	Forget(path)
}
