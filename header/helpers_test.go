// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// writeTemp stores data in a fresh file under t.TempDir.
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// encodeFile writes a header for spec followed by its sample data.
func encodeFile(t *testing.T, name string, spec WriteSpec) (string, PendingWriteOffsets) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	off, err := Write(f, spec)
	if err != nil {
		t.Fatalf("Write(%v, %v) error = %v", spec.Type, spec.SampleType, err)
	}
	data := make([]byte, SamplesToBytes(spec.SampleType, spec.Samples))
	for i := range data {
		data[i] = byte(i)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write(data) error = %v", err)
	}
	return path, off
}

// wavBytes builds a canonical 44-byte-header PCM WAV.
func wavBytes(rate, chans, bits int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	align := chans * bits / 8
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
	binary.Write(buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

// aiffBytes builds a minimal AIFF or AIFC file. comp is ignored for AIFF.
func aiffBytes(form string, chans, bits int, rate float64, comp string, data []byte) []byte {
	buf := new(bytes.Buffer)
	frames := uint32(0)
	if chans > 0 && bits > 0 {
		frames = uint32(len(data) / (chans * ((bits + 7) / 8)))
	}

	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, uint16(chans))
	binary.Write(comm, binary.BigEndian, frames)
	binary.Write(comm, binary.BigEndian, uint16(bits))
	var ext [10]byte
	byteorder.PutExtended80(ext[:], rate)
	comm.Write(ext[:])
	if form == "AIFC" {
		comm.WriteString(comp)
		comm.Write([]byte{0, 0})
	}

	body := new(bytes.Buffer)
	body.WriteString(form)
	body.WriteString("COMM")
	binary.Write(body, binary.BigEndian, uint32(comm.Len()))
	body.Write(comm.Bytes())
	body.WriteString("SSND")
	binary.Write(body, binary.BigEndian, uint32(8+len(data)))
	binary.Write(body, binary.BigEndian, uint32(0))
	binary.Write(body, binary.BigEndian, uint32(0))
	body.Write(data)

	buf.WriteString("FORM")
	binary.Write(buf, binary.BigEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// nextBytes builds a NeXT header with the given comment and data.
func nextBytes(st sample.Type, rate, chans int, comment string, data []byte) []byte {
	code, _ := nextCode(st)
	loc := 24 + max(len(comment), 4)
	buf := new(bytes.Buffer)
	buf.WriteString(".snd")
	binary.Write(buf, binary.BigEndian, uint32(loc))
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	binary.Write(buf, binary.BigEndian, code)
	binary.Write(buf, binary.BigEndian, uint32(rate))
	binary.Write(buf, binary.BigEndian, uint32(chans))
	buf.WriteString(comment)
	buf.Write(make([]byte, loc-24-len(comment)))
	buf.Write(data)
	return buf.Bytes()
}

func parseBytes(t *testing.T, data []byte) (*Descriptor, PendingWriteOffsets, error) {
	t.Helper()
	return Parse(bytes.NewReader(data), int64(len(data)), "test")
}
