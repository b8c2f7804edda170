// SPDX-License-Identifier: EPL-2.0

package fixtures

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// SineFrames returns frames interleaved frames of a sine at amp on every
// channel, each channel phase-shifted by one radian.
func SineFrames(rate, chans, frames int, freq, amp float64) []float64 {
	wave := SineWave(rate, freq, amp)
	out := make([]float64, frames*chans)
	for f := range frames {
		for ch := range chans {
			out[f*chans+ch] = float64(wave(f, ch))
		}
	}
	return out
}

// PCM16 quantizes normalized samples to 16-bit integers.
func PCM16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = int16(math.Round(math.Max(-1, math.Min(v, 32767.0/32768)) * 32768))
	}
	return out
}

// WAV16 builds a canonical 16-bit little-endian RIFF/WAVE file.
func WAV16(rate, chans int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	align := chans * 2
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(chans))
	binary.Write(buf, binary.LittleEndian, uint32(rate))
	binary.Write(buf, binary.LittleEndian, uint32(rate*align))
	binary.Write(buf, binary.LittleEndian, uint16(align))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// NeXT builds a big-endian .snd file with a 4-byte empty comment.
func NeXT(code uint32, rate, chans int, data []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(".snd")
	binary.Write(buf, binary.BigEndian, uint32(28))
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	binary.Write(buf, binary.BigEndian, code)
	binary.Write(buf, binary.BigEndian, uint32(rate))
	binary.Write(buf, binary.BigEndian, uint32(chans))
	buf.Write(make([]byte, 4))
	buf.Write(data)
	return buf.Bytes()
}

// WriteFile stores data under a fresh temporary directory and returns the
// path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
