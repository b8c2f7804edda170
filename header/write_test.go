// SPDX-License-Identifier: EPL-2.0

package header

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/ik5/sndkit/sample"
)

func commentable(t Type) bool {
	switch t {
	case NIST, Raw:
		return false
	}
	return true
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, ht := range WritableTypes() {
		if ht == Raw {
			continue
		}
		for _, st := range sample.Types() {
			if !ht.SupportsType(st) {
				continue
			}
			t.Run(fmt.Sprintf("%s/%s", ht, st), func(t *testing.T) {
				t.Parallel()

				spec := WriteSpec{Type: ht, SampleType: st, SampleRate: 22050, Chans: 2, Samples: 24}
				if commentable(ht) {
					spec.Comment = "take five"
				}
				path, off := encodeFile(t, "out."+ht.Extension(), spec)

				d, got, err := ReadFile(path)
				if err != nil {
					t.Fatalf("ReadFile() error = %v, want nil", err)
				}
				if d.Type != ht {
					t.Errorf("Type = %v, want %v", d.Type, ht)
				}
				if d.SampleType != st {
					t.Errorf("SampleType = %v, want %v", d.SampleType, st)
				}
				if d.Chans != 2 || d.SampleRate != 22050 {
					t.Errorf("Chans, SampleRate = %d, %d, want 2, 22050", d.Chans, d.SampleRate)
				}
				if d.Samples != 24 {
					t.Errorf("Samples = %d, want 24", d.Samples)
				}
				if d.DataLocation != off.Data || got.Data != off.Data {
					t.Errorf("DataLocation = %d, want %d", d.DataLocation, off.Data)
				}

				if spec.Comment != "" {
					c, err := NewEditor(path, d, got).Comment()
					if err != nil {
						t.Fatalf("Comment() error = %v", err)
					}
					if c != spec.Comment {
						t.Errorf("Comment() = %q, want %q", c, spec.Comment)
					}
				}
			})
		}
	}
}

func TestWrite_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec WriteSpec
		want error
	}{
		{"read-only type", WriteSpec{Type: SoundFont, SampleType: sample.LShort, SampleRate: 8000, Chans: 1}, ErrUnsupportedHeaderType},
		{"aiff float", WriteSpec{Type: AIFF, SampleType: sample.LFloat, SampleRate: 8000, Chans: 1}, ErrUnsupportedDataFormat},
		{"wav big endian", WriteSpec{Type: RIFF, SampleType: sample.BShort, SampleRate: 8000, Chans: 1}, ErrUnsupportedDataFormat},
		{"no channels", WriteSpec{Type: NeXT, SampleType: sample.BShort, SampleRate: 8000}, ErrBadSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := os.Create(filepath.Join(t.TempDir(), "x"))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			if _, err := Write(f, tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("Write() error = %v, want %v", err, tt.want)
			}
			if info, _ := f.Stat(); info.Size() != 0 {
				t.Errorf("file size = %d, want 0", info.Size())
			}
		})
	}
}

func TestWrite_SizeOverflow(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "big.au"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	off, err := Write(f, WriteSpec{Type: NeXT, SampleType: sample.BShort, SampleRate: 8000, Chans: 1, Samples: 1 << 33})
	if !errors.Is(err, ErrBadSize) {
		t.Fatalf("Write() error = %v, want ErrBadSize", err)
	}
	if off.DataSize != nextSizeField || off.Data == 0 {
		t.Errorf("offsets = %+v, want DataSize at %d", off, nextSizeField)
	}
}

func TestWrite_RIFFReadableByGoAudio(t *testing.T) {
	t.Parallel()

	path, _ := encodeFile(t, "oracle.wav", WriteSpec{
		Type: RIFF, SampleType: sample.LShort, SampleRate: 44100, Chans: 2, Samples: 2000, Comment: "oracle",
	})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p := riff.New(f)
	if err := p.ParseHeaders(); err != nil {
		t.Fatalf("ParseHeaders() error = %v", err)
	}
	if p.ID != riff.RiffID || p.Format != riff.WavFormatID {
		t.Errorf("riff header = %q/%q, want RIFF/WAVE", p.ID, p.Format)
	}
	info, _ := f.Stat()
	if int64(p.Size) != info.Size()-8 {
		t.Errorf("riff size = %d, want %d", p.Size, info.Size()-8)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("IsValidFile() = false, want true")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 44100 {
		t.Errorf("format = %+v, want 2 channels at 44100", buf.Format)
	}
	if len(buf.Data) != 2000 {
		t.Errorf("len(Data) = %d, want 2000", len(buf.Data))
	}
}

func TestWrite_AIFFReadableByGoAudio(t *testing.T) {
	t.Parallel()

	path, _ := encodeFile(t, "oracle.aiff", WriteSpec{
		Type: AIFF, SampleType: sample.BShort, SampleRate: 48000, Chans: 1, Samples: 300,
	})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("IsValidFile() = false, want true")
	}
	dec.ReadInfo()
	if dec.NumChans != 1 || dec.SampleRate != 48000 || dec.BitDepth != 16 {
		t.Errorf("decoder = %d ch, %d Hz, %d bits, want 1, 48000, 16", dec.NumChans, dec.SampleRate, dec.BitDepth)
	}
	if dec.NumSampleFrames != 300 {
		t.Errorf("NumSampleFrames = %d, want 300", dec.NumSampleFrames)
	}
}
