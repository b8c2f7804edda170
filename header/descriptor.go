// SPDX-License-Identifier: EPL-2.0

package header

import (
	"time"

	"github.com/ik5/sndkit/sample"
)

// MaxAuxComments bounds how many ANNO-style comments a descriptor keeps.
const MaxAuxComments = 4

// Range is a half-open byte range [Start, End) inside the file.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Len() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) Empty() bool { return r.Len() == 0 }

// Loop modes.
const (
	LoopOff       = 0
	LoopForward   = 1
	LoopBackForth = 2
	LoopBackward  = 3
)

// Loop is one loop point pair in frames.
type Loop struct {
	Mode  int
	Start int64
	End   int64
}

// Loops carries the sustain and release loops of sampler formats.
type Loops struct {
	Sustain    Loop
	Release    Loop
	BaseNote   int
	BaseDetune int
}

// Marker is a named position in frames.
type Marker struct {
	ID       int
	Position int64
}

// Descriptor is the parsed summary of a sound file header.
type Descriptor struct {
	Path       string
	Type       Type
	SampleType sample.Type
	// OriginalFormat is the container's own encoding code (RIFF format tag,
	// NeXT format number, AIFC compression fourcc packed big-endian, ...).
	OriginalFormat int
	Chans          int
	SampleRate     int
	DataLocation   int64
	// Samples is the interleaved sample count (frames * channels).
	Samples    int64
	TrueLength int64
	BlockAlign int
	Bits       int

	Comment     Range
	AuxComments []Range
	Loops       *Loops
	Markers     []Marker
	ModTime     time.Time
}

// Frames is Samples divided by the channel count.
func (d *Descriptor) Frames() int64 {
	if d.Chans <= 0 {
		return d.Samples
	}
	return d.Samples / int64(d.Chans)
}

// Duration is the playback length; zero when the rate is unknown.
func (d *Descriptor) Duration() time.Duration {
	if d.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(d.Frames()) / float64(d.SampleRate) * float64(time.Second))
}

// DataBytes is the byte length of the sample data.
func (d *Descriptor) DataBytes() int64 {
	return SamplesToBytes(d.SampleType, d.Samples)
}

func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.AuxComments = append([]Range(nil), d.AuxComments...)
	c.Markers = append([]Marker(nil), d.Markers...)
	if d.Loops != nil {
		l := *d.Loops
		c.Loops = &l
	}
	return &c
}

func (d *Descriptor) addAuxComment(r Range) bool {
	if len(d.AuxComments) >= MaxAuxComments {
		return false
	}
	d.AuxComments = append(d.AuxComments, r)
	return true
}

// SamplesToBytes converts an interleaved sample count to bytes.
func SamplesToBytes(t sample.Type, n int64) int64 {
	if !t.Valid() {
		return n
	}
	return sample.SamplesToBytes(t, n)
}

// BytesToSamples converts a byte count to whole samples of t.
func BytesToSamples(t sample.Type, n int64) int64 {
	if !t.Valid() {
		return n
	}
	return sample.BytesToSamples(t, n)
}

// PendingWriteOffsets records where size-dependent fields live in the file
// so later mutations can patch them without walking chunks again. Zero means
// the field does not exist in this file.
type PendingWriteOffsets struct {
	Type Type
	// FormSize is the RIFF/FORM container size field.
	FormSize int64
	// DataSize is the size field of the data/SSND chunk.
	DataSize int64
	// Frames is the AIFF COMM frame count field.
	Frames int64
	// Format is the start of the COMM/fmt/desc chunk data.
	Format int64
	// FormatSize is the data size of that chunk.
	FormatSize int64
	// DS64 is the start of the RF64 ds64 chunk data.
	DS64 int64
	// Filler is the header start of a JUNK chunk that can become ds64.
	Filler     int64
	FillerSize int64
	// Comment is the start of the in-place comment area (NeXT, IRCAM).
	Comment int64
	// Data is the first sample byte.
	Data int64
}
