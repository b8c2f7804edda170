// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"
	"math"
	"strings"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// ESPS feature files keep their magic at 16 and a generic header of
// NUL-terminated item names; the rate follows the "record_freq" item.
const espsMagic = 27162

var espsReader = readerFunc{
	typ: ESPS,
	detect: func(h []byte, _ int64) bool {
		if len(h) < 60 {
			return false
		}
		return byteorder.BEUint32(h[16:20]) == espsMagic || byteorder.LEUint32(h[16:20]) == espsMagic
	},
	parse: parseESPS,
}

func parseESPS(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	h := in.Head
	o := byteorder.BigEndian
	if byteorder.LEUint32(h[16:20]) == espsMagic {
		o = byteorder.LittleEndian
	}
	little := o == byteorder.LittleEndian
	d := in.descriptor(ESPS)
	d.SampleRate = 8000
	d.DataLocation = int64(o.Uint32(h[8:12]))
	if d.DataLocation < 60 || d.DataLocation > in.Size() {
		return nil, PendingWriteOffsets{}, in.fail(ESPS, "bad data location %d", d.DataLocation).at(8)
	}

	doubles := int(o.Uint32(h[40:44]))
	floats := int(o.Uint32(h[44:48]))
	longs := int(o.Uint32(h[48:52]))
	shorts := int(o.Uint32(h[52:56]))
	chars := int(o.Uint32(h[56:60]))
	switch {
	case shorts > 0:
		d.Chans, d.SampleType = shorts, pick(little, sample.LShort, sample.BShort)
	case floats > 0:
		d.Chans, d.SampleType = floats, pick(little, sample.LFloat, sample.BFloat)
	case doubles > 0:
		d.Chans, d.SampleType = doubles, pick(little, sample.LDouble, sample.BDouble)
	case longs > 0:
		d.Chans, d.SampleType = longs, pick(little, sample.LIntN, sample.BIntN)
	case chars > 0:
		d.Chans, d.SampleType = chars, sample.Byte
	default:
		d.Chans, d.SampleType = 1, pick(little, sample.LShort, sample.BShort)
	}

	s := newLineScanner(in, ESPS, 60, d.DataLocation)
	for {
		line, ok, err := s.next()
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		if !ok {
			break
		}
		if !strings.HasSuffix(line, "record_freq") {
			continue
		}
		// NUL already consumed; pad to 4, skip the item's count word.
		p := s.offset()
		if r := p % 4; r != 0 {
			p += 4 - r
		}
		var b [8]byte
		if in.ReadAt(b[:], p+4, "record_freq value") == nil {
			if v := o.Float64(b[:]); v >= 1 && v <= 1e7 && !math.IsNaN(v) {
				d.SampleRate = int(v + 0.5)
			}
		}
		break
	}

	d.Samples = BytesToSamples(d.SampleType, in.Size()-d.DataLocation)
	return d, PendingWriteOffsets{}, nil
}

// Comdisco SPW signal files: "key = value" lines ending at "$DATA BINARY".
var comdiscoReader = readerFunc{
	typ: Comdisco,
	detect: func(h []byte, _ int64) bool {
		return bytes.HasPrefix(h, []byte("$SIGNAL FILE 9")) || bytes.HasPrefix(h, []byte("$SIGNAL_FILE 9"))
	},
	parse: parseComdisco,
}

func parseComdisco(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(Comdisco)
	d.Chans = 1
	var (
		little     bool
		signalType = "double"
		fixedBits  = 16
		found      bool
		count      int64 = -1
	)

	s := newLineScanner(in, Comdisco, 0, 0)
	for {
		line, ok, err := s.next()
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		if !ok {
			break
		}
		if line == "$DATA" || strings.HasPrefix(line, "$DATA ") {
			if strings.Contains(line[len("$DATA"):], "BINARY") {
				d.DataLocation = s.offset()
				found = true
			}
			break
		}
		key, value, has := strings.Cut(line, "=")
		if !has {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if len(key) > maxFieldName {
			return nil, PendingWriteOffsets{}, in.fail(Comdisco, "field name longer than %d bytes", maxFieldName).at(s.offset())
		}
		value = strings.TrimSpace(value)
		switch key {
		case "sampling frequency":
			d.SampleRate = atoi(value)
		case "number of points":
			count = int64(atoi(value))
		case "signal type":
			signalType = strings.ToLower(value)
		case "fixed point format":
			// <bits,int bits,t|f>
			bits, _, _ := strings.Cut(strings.Trim(value, "<>"), ",")
			fixedBits = atoi(bits)
		case "system type":
			v := strings.ToLower(value)
			little = strings.Contains(v, "pc") || strings.Contains(v, "vax") ||
				strings.Contains(v, "dec") || strings.Contains(v, "linux") || strings.Contains(v, "x86")
		}
	}
	if !found {
		return nil, PendingWriteOffsets{}, in.fail(Comdisco, "no $DATA BINARY section")
	}

	switch {
	case strings.HasPrefix(signalType, "double"):
		d.SampleType = pick(little, sample.LDouble, sample.BDouble)
	case strings.HasPrefix(signalType, "float"):
		d.SampleType = pick(little, sample.LFloat, sample.BFloat)
	case fixedBits > 16:
		d.SampleType = pick(little, sample.LIntN, sample.BIntN)
	default:
		d.SampleType = pick(little, sample.LShort, sample.BShort)
	}
	if count >= 0 {
		d.Samples = count
	} else {
		d.Samples = BytesToSamples(d.SampleType, in.Size()-d.DataLocation)
	}
	return d, PendingWriteOffsets{}, nil
}

// snack "file=samp" headers: key=value lines in a 1024-byte header.
var fileSampReader = readerFunc{
	typ: FileSamp,
	detect: func(h []byte, _ int64) bool {
		return bytes.HasPrefix(h, []byte("file=samp"))
	},
	parse: parseFileSamp,
}

func parseFileSamp(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(FileSamp)
	d.Chans = 1
	d.SampleRate = 16000
	d.SampleType = sample.LShort
	d.DataLocation = 1024

	s := newLineScanner(in, FileSamp, 0, 1024)
	for {
		line, ok, err := s.next()
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		if !ok || strings.HasPrefix(line, "end_head") {
			break
		}
		key, value, _ := strings.Cut(strings.TrimSpace(line), "=")
		if len(key) > maxFieldName {
			return nil, PendingWriteOffsets{}, in.fail(FileSamp, "field name longer than %d bytes", maxFieldName).at(s.offset())
		}
		switch key {
		case "sftot":
			d.SampleRate = atoi(value)
		case "nchans":
			d.Chans = atoi(value)
		case "msb":
			if value == "first" {
				d.SampleType = sample.BShort
			}
		case "hdrsize":
			d.DataLocation = int64(atoi(value))
		}
	}
	if d.DataLocation > in.Size() {
		return nil, PendingWriteOffsets{}, in.fail(FileSamp, "file shorter than its header")
	}
	d.Samples = BytesToSamples(d.SampleType, in.Size()-d.DataLocation)
	return d, PendingWriteOffsets{}, nil
}

// Portable Voice Format: "PVF1\n<chans> <rate> <bits>\n" then big-endian
// samples. PVF2 is ASCII.
var pvfReader = readerFunc{
	typ: PVF,
	detect: func(h []byte, _ int64) bool {
		return bytes.HasPrefix(h, []byte("PVF1\n")) || bytes.HasPrefix(h, []byte("PVF2\n"))
	},
	parse: parsePVF,
}

func parsePVF(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(PVF)
	s := newLineScanner(in, PVF, 0, 0)
	if _, _, err := s.next(); err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	line, ok, err := s.next()
	if err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	f := strings.Fields(line)
	if !ok || len(f) != 3 {
		return nil, PendingWriteOffsets{}, in.fail(PVF, "bad format line %q", line).at(5)
	}
	d.Chans, d.SampleRate, d.Bits = atoi(f[0]), atoi(f[1]), atoi(f[2])
	d.DataLocation = s.offset()
	if string(in.Head[:4]) == "PVF1" {
		switch d.Bits {
		case 8:
			d.SampleType = sample.Byte
		case 16:
			d.SampleType = sample.BShort
		case 32:
			d.SampleType = sample.BIntN
		}
	}
	d.Samples = BytesToSamples(d.SampleType, in.Size()-d.DataLocation)
	return d, PendingWriteOffsets{}, nil
}

// SoX native format: 32-bit samples, little-endian under ".SoX", big-endian
// under "XoS.".
var soxReader = readerFunc{
	typ: SoX,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 32 && (string(h[:4]) == ".SoX" || string(h[:4]) == "XoS.")
	},
	parse: parseSoX,
}

func parseSoX(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	h := in.Head
	o := byteorder.LittleEndian
	if string(h[:4]) == "XoS." {
		o = byteorder.BigEndian
	}
	d := in.descriptor(SoX)
	d.DataLocation = int64(o.Uint32(h[4:8]))
	d.Samples = int64(o.Uint64(h[8:16]))
	rate := o.Float64(h[16:24])
	if math.IsNaN(rate) || rate < 0 || rate > math.MaxInt32 {
		return nil, PendingWriteOffsets{}, in.fail(SoX, "bad sample rate").at(16)
	}
	d.SampleRate = int(rate + 0.5)
	d.Chans = int(o.Uint32(h[24:28]))
	d.SampleType = pick(o == byteorder.LittleEndian, sample.LIntN, sample.BIntN)
	if n := int64(o.Uint32(h[28:32])); n > 0 {
		d.Comment = in.textRange(32, 32+n)
	}
	if d.DataLocation < 32 {
		return nil, PendingWriteOffsets{}, in.fail(SoX, "bad header size %d", d.DataLocation).at(4)
	}
	return d, PendingWriteOffsets{}, nil
}
