// SPDX-License-Identifier: EPL-2.0

// Package audio is the consumer side of sndkit: normalized sample streams
// and the pieces that adapt them for playback and analysis.
//
// # Source Interface
//
// A Source yields interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Uncompressed files are read through formats/pcm; compressed containers
// the header package only recognizes are handed to decoders registered by
// container type in a Registry.
//
// # Rate and Channel Conversion
//
// Convert chains a Resampler and a Remixer as needed:
//
//	src, _ = audio.Convert(src, 16000, 1)
//	pcm, _ := audio.Render(src, 16000, 1, sample.LShort, 4096)
//
// The Resampler interpolates between buffered source frames (Cubic by
// default, Linear on request) and low-passes the input when downsampling.
// The Remixer averages down to mono, copies mono up, and otherwise keeps
// the leading channels.
//
// # Error Handling
//
// ReadSamples returns io.EOF once the stream is exhausted, possibly together
// with the final samples:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
