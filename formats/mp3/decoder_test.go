// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	offset     int
	chunk      int // bytes per Read, 0 for unlimited
	err        error
}

func newMockReader(rate int, samples []int16) *mockMP3Reader {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, pcm: pcm}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return int64(len(m.pcm)) }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.pcm) {
		return 0, io.EOF
	}
	n := len(buf)
	if m.chunk > 0 {
		n = min(n, m.chunk)
	}
	n = copy(buf[:n], m.pcm[m.offset:])
	m.offset += n
	if m.offset >= len(m.pcm) {
		return n, io.EOF
	}
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", bytes.Repeat([]byte{0x12, 0x34}, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decoder{}.Decode(bytes.NewReader(tt.data), nil)
			if !errors.Is(err, ErrInvalidStream) {
				t.Errorf("Decode() error = %v, want ErrInvalidStream", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader(44100, make([]int16, 100)), rate: 44100, buf: make([]byte, defaultBuf)}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.BufSize() != defaultBuf/2 {
		t.Errorf("BufSize() = %d, want %d", src.BufSize(), defaultBuf/2)
	}
	if src.Frames() != 50 {
		t.Errorf("Frames() = %d, want 50", src.Frames())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	pcm := []int16{0, 16384, 32767, -16384, -32768, 8192, -8192, 0}
	src := &source{dec: newMockReader(8000, pcm), rate: 8000}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 8 {
		t.Fatalf("ReadSamples() n = %d, want 8", n)
	}

	for i, s := range pcm {
		if want := float32(s) / 32768; math.Abs(float64(dst[i]-want)) > 1e-6 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestSource_ReadSamples_OddChunks(t *testing.T) {
	t.Parallel()

	pcm := make([]int16, 64)
	for i := range pcm {
		pcm[i] = int16(i * 100)
	}
	mock := newMockReader(8000, pcm)
	mock.chunk = 3
	src := &source{dec: mock, rate: 8000}

	var got []float32
	buf := make([]float32, 10)
	for range 1000 {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(pcm) {
		t.Fatalf("read %d samples, want %d", len(got), len(pcm))
	}
	for i, s := range pcm {
		if got[i] != float32(s)/32768 {
			t.Errorf("sample %d = %v, want %v", i, got[i], float32(s)/32768)
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	mock := newMockReader(8000, nil)
	mock.err = io.ErrUnexpectedEOF
	src := &source{dec: mock, rate: 8000}

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}
