// SPDX-License-Identifier: EPL-2.0

// Package header reads, writes and edits the headers of sound files.
//
// Reading starts from the first HeadSize bytes of a file: every registered
// Reader is asked in a fixed order whether it recognizes them, and the first
// match parses the rest. Files nothing recognizes are treated as headerless
// Raw data described by the process-wide RawDefaults.
//
//	d, off, err := header.ReadFile("take1.wav")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d.SampleRate, d.Chans, d.SampleType, d.Frames())
//
// Write emits a fresh header for one of the WritableTypes and reports where
// its size fields live, so a writer can patch them once the final sample
// count is known. An Editor changes the fields of an existing file in place
// where the container allows it and rewrites the file through a temporary
// copy where it does not. A RIFF file that outgrows 32-bit sizes is
// upgraded to RF64.
//
// All failures are *Error values carrying a Kind; errors.Is matches them
// against the package sentinels.
package header
