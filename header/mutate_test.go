// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/ik5/sndkit/sample"
)

func mustEdit(t *testing.T, path string) *Editor {
	t.Helper()
	e, err := Edit(path)
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	return e
}

func TestEditor_SetSamples(t *testing.T) {
	t.Parallel()

	for _, ht := range []Type{NeXT, AIFF, AIFC, RIFF, RF64, CAFF, NIST} {
		t.Run(ht.String(), func(t *testing.T) {
			t.Parallel()

			st := sample.BShort
			if !ht.SupportsType(st) {
				st = sample.LShort
			}
			path, _ := encodeFile(t, "s."+ht.Extension(), WriteSpec{Type: ht, SampleType: st, SampleRate: 8000, Chans: 2, Samples: 40})

			e := mustEdit(t, path)
			if err := e.SetSamples(20); err != nil {
				t.Fatalf("SetSamples() error = %v", err)
			}
			if e.Descriptor().Samples != 20 {
				t.Errorf("Samples = %d, want 20", e.Descriptor().Samples)
			}

			d, _, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if d.Samples != 20 || d.Frames() != 10 {
				t.Errorf("reread Samples, Frames = %d, %d, want 20, 10", d.Samples, d.Frames())
			}
		})
	}
}

func TestEditor_SetSamplesUpgradesToRF64(t *testing.T) {
	t.Parallel()

	path, off := encodeFile(t, "grow.wav", WriteSpec{Type: RIFF, SampleType: sample.LShort, SampleRate: 44100, Chans: 2, Samples: 8})
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	huge := int64(3) << 30 // 6 GiB of 16-bit samples
	e := mustEdit(t, path)
	if err := e.SetSamples(huge); err != nil {
		t.Fatalf("SetSamples() error = %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) {
		t.Fatalf("file length = %d, want %d", len(after), len(before))
	}
	if string(after[0:4]) != "RF64" || string(after[off.Filler:off.Filler+4]) != "ds64" {
		t.Fatalf("header = %q ... %q, want RF64 ... ds64", after[0:4], after[off.Filler:off.Filler+4])
	}
	if got := binary.LittleEndian.Uint32(after[4:8]); got != 0xFFFFFFFF {
		t.Errorf("riff size = %#x, want 0xFFFFFFFF", got)
	}
	if got := binary.LittleEndian.Uint32(after[off.DataSize:]); got != 0xFFFFFFFF {
		t.Errorf("data size = %#x, want 0xFFFFFFFF", got)
	}
	ds64 := after[off.Filler+8:]
	if got := binary.LittleEndian.Uint64(ds64[8:16]); got != uint64(huge*2) {
		t.Errorf("ds64 data size = %d, want %d", got, huge*2)
	}
	if got := binary.LittleEndian.Uint64(ds64[16:24]); got != uint64(huge/2) {
		t.Errorf("ds64 frames = %d, want %d", got, huge/2)
	}
	if !bytes.Equal(after[off.Data:], before[off.Data:]) {
		t.Error("sample data moved or changed")
	}

	d := e.Descriptor()
	if d.Type != RF64 || d.DataLocation != off.Data {
		t.Errorf("descriptor = %v, want RF64 with data at %d", d, off.Data)
	}
}

// rifx8Bytes builds an 8-bit big-endian RIFX file, with a 28-byte JUNK
// reserve ahead of fmt when junk is set.
func rifx8Bytes(junk bool, data []byte) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")
	if junk {
		body.WriteString("JUNK")
		binary.Write(body, binary.BigEndian, uint32(28))
		body.Write(make([]byte, 28))
	}
	body.WriteString("fmt ")
	binary.Write(body, binary.BigEndian, uint32(16))
	binary.Write(body, binary.BigEndian, uint16(1))
	binary.Write(body, binary.BigEndian, uint16(1))
	binary.Write(body, binary.BigEndian, uint32(8000))
	binary.Write(body, binary.BigEndian, uint32(8000))
	binary.Write(body, binary.BigEndian, uint16(1))
	binary.Write(body, binary.BigEndian, uint16(8))
	body.WriteString("data")
	binary.Write(body, binary.BigEndian, uint32(len(data)))
	body.Write(data)

	buf := new(bytes.Buffer)
	buf.WriteString("RIFX")
	binary.Write(buf, binary.BigEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func TestEditor_SetSamplesKeepsHeaderByteOrder(t *testing.T) {
	t.Parallel()

	t.Run("rifx", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "x.wav", rifx8Bytes(false, make([]byte, 100)))
		e := mustEdit(t, path)
		if st := e.Descriptor().SampleType; st != sample.UByte {
			t.Fatalf("SampleType = %v, want ubyte", st)
		}
		if err := e.SetSamples(50); err != nil {
			t.Fatalf("SetSamples() error = %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := binary.BigEndian.Uint32(raw[40:44]); got != 50 {
			t.Errorf("data size field = %d, want 50", got)
		}
		if got := binary.BigEndian.Uint32(raw[4:8]); got != 36+50 {
			t.Errorf("RIFX size field = %d, want 86", got)
		}
		if d := e.Descriptor(); d.Samples != 50 {
			t.Errorf("Samples = %d, want 50", d.Samples)
		}
	})

	t.Run("little-endian next", func(t *testing.T) {
		t.Parallel()

		data := nextBytes(sample.Byte, 8000, 1, "", make([]byte, 40))
		copy(data[0:4], "dns.")
		for _, f := range []int{4, 8, 12, 16, 20} {
			v := binary.BigEndian.Uint32(data[f:])
			binary.LittleEndian.PutUint32(data[f:], v)
		}
		path := writeTemp(t, "le.snd", data)

		e := mustEdit(t, path)
		if err := e.SetSamples(10); err != nil {
			t.Fatalf("SetSamples() error = %v", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := binary.LittleEndian.Uint32(raw[8:12]); got != 10 {
			t.Errorf("data size field = %d, want 10", got)
		}
		if d := e.Descriptor(); d.Samples != 10 {
			t.Errorf("Samples = %d, want 10", d.Samples)
		}
	})
}

func TestEditor_RIFXUpgradeRewritesLittleEndian(t *testing.T) {
	t.Parallel()

	samples := bytes.Repeat([]byte{0x40, 0xC0}, 50)
	path := writeTemp(t, "big.wav", rifx8Bytes(true, samples))

	e := mustEdit(t, path)
	if err := e.SetSamples(int64(3) << 30); err != nil {
		t.Fatalf("SetSamples() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw[0:4]) != "RF64" {
		t.Fatalf("magic = %q, want RF64", raw[0:4])
	}
	d := e.Descriptor()
	if d.Type != RF64 || d.SampleType != sample.UByte {
		t.Fatalf("descriptor = %v, want RF64 ubyte", d)
	}
	if !bytes.Equal(raw[d.DataLocation:], samples) {
		t.Error("sample data changed by the rewrite")
	}
}

func TestEditor_SetFormatFields(t *testing.T) {
	t.Parallel()

	for _, ht := range []Type{NeXT, AIFF, RIFF, CAFF, IRCAM, NIST} {
		t.Run(ht.String(), func(t *testing.T) {
			t.Parallel()

			st := sample.BShort
			if !ht.SupportsType(st) {
				st = sample.LShort
			}
			path, _ := encodeFile(t, "f."+ht.Extension(), WriteSpec{Type: ht, SampleType: st, SampleRate: 8000, Chans: 1, Samples: 64})

			e := mustEdit(t, path)
			if err := e.SetSampleRate(16000); err != nil {
				t.Fatalf("SetSampleRate() error = %v", err)
			}
			if err := e.SetChans(2); err != nil {
				t.Fatalf("SetChans() error = %v", err)
			}

			d, _, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if d.SampleRate != 16000 || d.Chans != 2 {
				t.Errorf("SampleRate, Chans = %d, %d, want 16000, 2", d.SampleRate, d.Chans)
			}
			if d.SampleType != st {
				t.Errorf("SampleType = %v, want %v", d.SampleType, st)
			}
		})
	}
}

func TestEditor_SetSampleType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ht       Type
		from, to sample.Type
	}{
		{NeXT, sample.BShort, sample.MuLaw},
		{RIFF, sample.LShort, sample.ALaw},
		{RIFF, sample.LShort, sample.LFloat},
		{AIFF, sample.BShort, sample.Byte},
		{AIFC, sample.BShort, sample.LShort},
		{CAFF, sample.BShort, sample.LFloat},
		{IRCAM, sample.BShort, sample.BFloat},
		{NIST, sample.BShort, sample.LShort},
	}

	for _, tt := range tests {
		t.Run(tt.ht.String()+"/"+tt.to.String(), func(t *testing.T) {
			t.Parallel()

			path, _ := encodeFile(t, "t."+tt.ht.Extension(), WriteSpec{Type: tt.ht, SampleType: tt.from, SampleRate: 8000, Chans: 1, Samples: 32})
			e := mustEdit(t, path)
			if err := e.SetSampleType(tt.to); err != nil {
				t.Fatalf("SetSampleType() error = %v", err)
			}

			d, _, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if d.SampleType != tt.to {
				t.Errorf("SampleType = %v, want %v", d.SampleType, tt.to)
			}
			want := BytesToSamples(tt.to, SamplesToBytes(tt.from, 32))
			if d.Samples != want {
				t.Errorf("Samples = %d, want %d", d.Samples, want)
			}
		})
	}
}

func TestEditor_RejectsWithoutTouchingFile(t *testing.T) {
	t.Parallel()

	path, _ := encodeFile(t, "keep.aiff", WriteSpec{Type: AIFF, SampleType: sample.BShort, SampleRate: 8000, Chans: 1, Samples: 16})
	before, _ := os.ReadFile(path)
	e := mustEdit(t, path)

	if err := e.SetSampleType(sample.LFloat); !errors.Is(err, ErrUnsupportedDataFormat) {
		t.Errorf("SetSampleType(lfloat) error = %v, want ErrUnsupportedDataFormat", err)
	}
	if err := e.ConvertType(SoundFont); !errors.Is(err, ErrUnsupportedHeaderType) {
		t.Errorf("ConvertType(SoundFont) error = %v, want ErrUnsupportedHeaderType", err)
	}
	if err := e.ConvertType(RIFF); !errors.Is(err, ErrUnsupportedDataFormat) {
		t.Errorf("ConvertType(RIFF) error = %v, want ErrUnsupportedDataFormat", err)
	}
	if err := e.SetDataLocation(0); !errors.Is(err, ErrCantConvert) {
		t.Errorf("SetDataLocation(0) error = %v, want ErrCantConvert", err)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("rejected edits modified the file")
	}
}

func TestEditor_SetCommentRewrites(t *testing.T) {
	t.Parallel()

	for _, ht := range []Type{NeXT, AIFF, RIFF, RF64, CAFF, IRCAM} {
		t.Run(ht.String(), func(t *testing.T) {
			t.Parallel()

			st := sample.BShort
			if !ht.SupportsType(st) {
				st = sample.LShort
			}
			path, off := encodeFile(t, "c."+ht.Extension(), WriteSpec{Type: ht, SampleType: st, SampleRate: 8000, Chans: 1, Samples: 50})
			before, _ := os.ReadFile(path)
			data := before[off.Data:]

			comment := "a considerably longer comment than the header had room for"
			e := mustEdit(t, path)
			if err := e.SetComment(comment); err != nil {
				t.Fatalf("SetComment() error = %v", err)
			}

			got, err := e.Comment()
			if err != nil {
				t.Fatalf("Comment() error = %v", err)
			}
			if got != comment {
				t.Errorf("Comment() = %q, want %q", got, comment)
			}

			d := e.Descriptor()
			if d.Samples != 50 {
				t.Errorf("Samples = %d, want 50", d.Samples)
			}
			after, _ := os.ReadFile(path)
			if !bytes.Equal(after[d.DataLocation:], data) {
				t.Error("sample data changed across the rewrite")
			}
		})
	}
}

func TestEditor_SetDataLocation(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "loc.au", nextBytes(sample.Byte, 8000, 1, "commentary", make([]byte, 40)))
	e := mustEdit(t, path)
	if err := e.SetDataLocation(28); err != nil {
		t.Fatalf("SetDataLocation() error = %v", err)
	}
	if e.Descriptor().DataLocation != 28 {
		t.Errorf("DataLocation = %d, want 28", e.Descriptor().DataLocation)
	}
	if err := e.SetDataLocation(8); !errors.Is(err, ErrBadSize) {
		t.Errorf("SetDataLocation(8) error = %v, want ErrBadSize", err)
	}
}

func TestEditor_ConvertType(t *testing.T) {
	t.Parallel()

	path, off := encodeFile(t, "conv.wav", WriteSpec{Type: RIFF, SampleType: sample.MuLaw, SampleRate: 8000, Chans: 1, Samples: 100, Comment: "phone"})
	before, _ := os.ReadFile(path)

	e := mustEdit(t, path)
	if err := e.ConvertType(NeXT); err != nil {
		t.Fatalf("ConvertType(NeXT) error = %v", err)
	}

	d := e.Descriptor()
	if d.Type != NeXT || d.SampleType != sample.MuLaw || d.Samples != 100 {
		t.Errorf("descriptor = %v, want NeXT mulaw with 100 samples", d)
	}
	if c, _ := e.Comment(); c != "phone" {
		t.Errorf("Comment() = %q, want %q", c, "phone")
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(after[d.DataLocation:], before[off.Data:]) {
		t.Error("sample data changed across the conversion")
	}

	if err := e.ConvertType(NeXT); err != nil {
		t.Errorf("ConvertType(same) error = %v, want nil", err)
	}
}

func TestEditor_WriteHookRuns(t *testing.T) {
	path, _ := encodeFile(t, "hook.au", WriteSpec{Type: NeXT, SampleType: sample.BShort, SampleRate: 8000, Chans: 1, Samples: 8})

	var mu sync.Mutex
	var seen []string
	SetWriteHook(func(p string, d *Descriptor) {
		mu.Lock()
		defer mu.Unlock()
		if p == path {
			seen = append(seen, d.Type.String())
		}
	})
	t.Cleanup(func() { SetWriteHook(nil) })

	e := mustEdit(t, path)
	if err := e.SetSampleRate(11025); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 {
		t.Errorf("hook calls = %d, want 1", len(seen))
	}
}
