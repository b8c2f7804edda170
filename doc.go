// SPDX-License-Identifier: EPL-2.0

// Package sndkit reads, writes and rewrites sound file headers and the sample
// data behind them.
//
// The header package recognizes about seventy container types, from
// RIFF/WAVE, AIFF and CAFF to the headers of old samplers and trackers, and
// can write and patch the common ones. The sample package converts between
// the on-disk encodings and normalized floats. This package ties them
// together:
//
//   - Describe returns the parsed header of a file through a process-wide
//     cache that re-parses a file whenever its modification time changes.
//   - Open, OpenForUpdate and Create give frame-addressed handles that read
//     and write planar float64 buffers; closing a written handle finalizes
//     the sample count in the header, upgrading RIFF to RF64 if needed.
//   - SetSampleRate, SetChans, SetComment, ConvertType and friends edit a
//     header on disk and keep the cache in step.
//   - OpenSource returns an audio.Source for any file with PCM data, and for
//     MPEG and Ogg Vorbis through delegated decoders.
//
// # Quick Start
//
//	d, err := sndkit.Describe("take1.wav")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d)
//
//	h, err := sndkit.Open("take1.wav")
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	left := make([]float64, 1024)
//	right := make([]float64, 1024)
//	n, err := h.ReadFrames(0, [][]float64{left, right})
//
// # Writing
//
//	h, err := sndkit.Create("out.aiff", sndkit.CreateOptions{
//	    Type:       header.AIFF,
//	    SampleType: sample.BShort,
//	    SampleRate: 48000,
//	    Chans:      1,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := h.WriteFrames(0, [][]float64{mono}); err != nil {
//	    h.Close()
//	    return err
//	}
//	return h.Close()
//
// # Audio Processing Pipeline
//
// Sources from OpenSource plug into the audio subpackage:
//
//	src, err := sndkit.OpenSource("voice.mp3")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	pcm16, rate, err := sndkit.ResampleToMono16(src, 8000, 4096)
//
// # Configuration
//
// LoadConfig reads a YAML file that sets the raw-file defaults, clipping and
// log level; Apply pushes it into the process.
package sndkit
