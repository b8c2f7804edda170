// SPDX-License-Identifier: EPL-2.0

// Package pcm streams the sample data of any uncompressed file the header
// package can describe. Samples are decoded with the sample codec and handed
// out as normalized interleaved float32, so a 24-bit AIFF and a mu-law NeXT
// file look the same to the caller.
//
// Usage:
//
//	d, _, err := header.ReadFile(path)
//	if err != nil {
//	    return err
//	}
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	src, err := pcm.NewSource(f, d)
//	if err != nil {
//	    f.Close()
//	    return err
//	}
//	defer src.Close() // closes f
package pcm
