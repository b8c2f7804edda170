// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio for files the header package recognizes as
// header.MPEG but cannot read sample by sample.
//
// Decoding is delegated to github.com/hajimehoshi/go-mp3, which always
// produces 16-bit stereo; the source turns that into normalized float32:
//
//	src, err := mp3.Decoder{}.Decode(f, d)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
package mp3
