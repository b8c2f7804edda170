// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/sndkit/audio"
	"github.com/ik5/sndkit/formats/mp3"
	"github.com/ik5/sndkit/formats/pcm"
	"github.com/ik5/sndkit/formats/vorbis"
	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(header.MPEG, mp3.Decoder{})
	reg.Register(header.Ogg, vorbis.Decoder{})
	return reg
}

// Decoders is the registry OpenSource consults for containers without PCM
// data. Register additional decoders on it.
func Decoders() *audio.Registry { return defaultRegistry }

// fileSource closes the file under a delegated decoder's source.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// OpenSource returns a normalized stream for path. Files with PCM data are
// read with the sample codec; anything else needs a registered decoder.
func (c *Cache) OpenSource(path string) (audio.Source, error) {
	d, err := c.Describe(path)
	if err != nil {
		return nil, err
	}

	dec, ok := defaultRegistry.Get(d.Type)
	if d.SampleType.Valid() {
		dec, ok = pcm.Decoder{}, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: %w", unsupportedData(d), audio.ErrNoDecoder)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: header.KindCantOpenFile, Path: path, Type: d.Type, Offset: -1, Err: err}
	}
	src, err := dec.Decode(f, d)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, ok := dec.(pcm.Decoder); ok {
		return src, nil
	}
	return &fileSource{Source: src, f: f}, nil
}

// OpenSource opens path through the default cache.
func OpenSource(path string) (audio.Source, error) { return defaultCache.OpenSource(path) }

// ResampleToMono16 reads src to the end at targetRate, averaged down to one
// channel and quantized to 16 bits with clamping. It returns the samples
// and the rate they are at.
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	raw, err := audio.Render(src, targetRate, 1, sample.LShort, bufferSize)
	if err != nil {
		return nil, targetRate, err
	}
	pcm16 := make([]int16, len(raw)/2)
	for i := range pcm16 {
		pcm16[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return pcm16, targetRate, nil
}

// Transcode renders the audio of in into a new file at out with the given
// layout, resampling and remixing as needed.
func Transcode(in, out string, opts CreateOptions) error {
	src, err := OpenSource(in)
	if err != nil {
		return err
	}
	defer src.Close()

	conv, err := audio.Convert(src, opts.SampleRate, opts.Chans)
	if err != nil {
		return err
	}
	h, err := Create(out, opts)
	if err != nil {
		return err
	}

	chans := opts.Chans
	buf := make([]float32, 4096*chans)
	planar := make([][]float64, chans)
	for ch := range planar {
		planar[ch] = make([]float64, 4096)
	}
	var pos int64
	for {
		n, rerr := conv.ReadSamples(buf)
		frames := n / chans
		for i := range frames {
			for ch := range chans {
				planar[ch][i] = float64(buf[i*chans+ch])
			}
		}
		if frames > 0 {
			view := make([][]float64, chans)
			for ch := range planar {
				view[ch] = planar[ch][:frames]
			}
			if err := h.WriteFrames(pos, view); err != nil {
				_ = h.Close()
				return err
			}
			pos += int64(frames)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			_ = h.Close()
			return rerr
		}
	}
	return h.Close()
}
