// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ik5/sndkit/sample"
)

// nistHeader pads lines to a 1024-byte NIST header.
func nistHeader(lines ...string) []byte {
	h := "NIST_1A\n   1024\n" + strings.Join(lines, "\n") + "\nend_head\n"
	return append([]byte(h), bytes.Repeat([]byte{' '}, 1024-len(h))...)
}

func TestParse_NIST(t *testing.T) {
	t.Parallel()

	data := nistHeader(
		"channel_count -i 2",
		"sample_count -i 50",
		"sample_rate -i 16000",
		"sample_n_bytes -i 2",
		"sample_byte_format -s2 01",
		"sample_coding -s3 pcm",
	)
	data = append(data, make([]byte, 200)...)

	d, _, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if d.Type != NIST || d.SampleType != sample.LShort {
		t.Errorf("Type, SampleType = %v, %v, want NIST, lshort", d.Type, d.SampleType)
	}
	if d.Chans != 2 || d.SampleRate != 16000 || d.Samples != 100 || d.DataLocation != 1024 {
		t.Errorf("descriptor = %v", d)
	}
}

func TestParse_NISTCodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		coding string
		bytes  string
		want   sample.Type
	}{
		{"-s4 ulaw", "1", sample.MuLaw},
		{"-s4 alaw", "1", sample.ALaw},
		{"-s3 pcm", "4", sample.BIntN},
		{"-s25 pcm,embedded-shorten-v1.1", "2", sample.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.coding, func(t *testing.T) {
			t.Parallel()
			data := nistHeader("sample_n_bytes -i "+tt.bytes, "sample_coding "+tt.coding, "sample_rate -i 8000")
			d, _, err := parseBytes(t, data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.SampleType != tt.want {
				t.Errorf("SampleType = %v, want %v", d.SampleType, tt.want)
			}
		})
	}
}

func TestParse_NISTLongFieldName(t *testing.T) {
	t.Parallel()

	data := nistHeader(strings.Repeat("x", maxFieldName+1) + " -i 1")
	_, _, err := parseBytes(t, data)
	if !errors.Is(err, ErrHeaderReadFailed) {
		t.Errorf("Parse() error = %v, want ErrHeaderReadFailed", err)
	}
}

func TestParse_Comdisco(t *testing.T) {
	t.Parallel()

	text := "$SIGNAL FILE 9\r\n$USER COMMENT\r\nhello\r\n$COMMON_INFO\r\nSPW Version = 3.10\r\n" +
		"System Type = pc\r\nSampling Frequency = 11025\r\nStarting Time = 0\r\n$DATA_INFO\r\n" +
		"Number of points = 6\r\nSignal Type = float\r\n$DATA BINARY\r\n"
	data := append([]byte(text), make([]byte, 24)...)

	d, _, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if d.Type != Comdisco || d.SampleType != sample.LFloat {
		t.Errorf("Type, SampleType = %v, %v, want Comdisco, lfloat", d.Type, d.SampleType)
	}
	if d.SampleRate != 11025 || d.Samples != 6 || d.DataLocation != int64(len(text)) {
		t.Errorf("descriptor = %v", d)
	}
}

func TestParse_PVF(t *testing.T) {
	t.Parallel()

	data := append([]byte("PVF1\n1 8000 16\n"), make([]byte, 20)...)
	d, _, err := parseBytes(t, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.SampleType != sample.BShort || d.SampleRate != 8000 || d.DataLocation != 15 || d.Samples != 10 {
		t.Errorf("descriptor = %v", d)
	}
}

func TestParse_SoX(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	buf.WriteString(".SoX")
	binary.Write(buf, binary.LittleEndian, uint32(40))
	binary.Write(buf, binary.LittleEndian, uint64(4))
	binary.Write(buf, binary.LittleEndian, math.Float64bits(48000))
	binary.Write(buf, binary.LittleEndian, uint32(2))
	binary.Write(buf, binary.LittleEndian, uint32(5))
	buf.WriteString("notes\x00\x00\x00")
	buf.Write(make([]byte, 16))

	d, _, err := parseBytes(t, buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.SampleType != sample.LIntN || d.SampleRate != 48000 || d.Chans != 2 || d.Samples != 4 {
		t.Errorf("descriptor = %v", d)
	}
	if d.Comment != (Range{32, 37}) {
		t.Errorf("Comment = %+v, want {32 37}", d.Comment)
	}
}

func TestParse_VOC(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	buf.WriteString(vocMagic)
	binary.Write(buf, binary.LittleEndian, uint16(26))
	binary.Write(buf, binary.LittleEndian, uint16(0x010A))
	binary.Write(buf, binary.LittleEndian, uint16(0x1129))
	// Block 9: rate, bits, channels, format, reserved.
	buf.Write([]byte{vocSoundNew, 12 + 40, 0, 0})
	binary.Write(buf, binary.LittleEndian, uint32(22050))
	buf.Write([]byte{16, 2})
	binary.Write(buf, binary.LittleEndian, uint16(4))
	buf.Write(make([]byte, 4))
	buf.Write(make([]byte, 40))
	buf.WriteByte(vocTerminator)

	d, _, err := parseBytes(t, buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Type != VOC || d.SampleType != sample.LShort || d.Chans != 2 || d.SampleRate != 22050 {
		t.Errorf("descriptor = %v", d)
	}
	if d.DataLocation != 42 || d.Samples != 20 {
		t.Errorf("DataLocation, Samples = %d, %d, want 42, 20", d.DataLocation, d.Samples)
	}
}

func TestDetect_LongTail(t *testing.T) {
	t.Parallel()

	pad := func(s string) []byte { return append([]byte(s), make([]byte, 512)...) }
	tests := []struct {
		head []byte
		want Type
	}{
		{pad("SOUND SAMPLE DATA 2.1 "), SMP},
		{pad("2BIT"), AVR},
		{pad("SOUND\x1a"), SNDT},
		{pad("ALawSoundFile**"), PSION},
		{pad("GoldWave sample"), Goldwave},
		{pad("GF1PATCH110"), Gravis},
		{pad("DiamondWare Digitized"), DiamondWare},
		{pad("IMPS"), ImpulseTracker},
		{pad("FSM\xfe"), Farandole},
		{pad("LM8953"), YamahaTX16W},
		{pad("PRAM"), Kurzweil2000},
		{pad("SMP1"), Korg},
		{pad("NVF "), NVF},
		{pad("file=samp"), FileSamp},
		{pad("$SIGNAL FILE 9"), Comdisco},
	}

	for _, tt := range tests {
		if got := Detect(tt.head, int64(len(tt.head))); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.head[:8], got, tt.want)
		}
	}
}
