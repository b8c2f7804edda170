// SPDX-License-Identifier: EPL-2.0

package header

import (
	"strings"

	"github.com/ik5/sndkit/sample"
)

const (
	nistMagic      = "NIST_1A"
	nistHeaderSize = 1024
)

var nistReader = readerFunc{
	typ: NIST,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 16 && string(h[:7]) == nistMagic
	},
	parse: parseNIST,
}

type nistFields struct {
	chans, rate, bytes, sigBits int
	count                       int64
	byteFormat, coding          string
}

func (f nistFields) sampleType() sample.Type {
	coding := strings.ToLower(f.coding)
	switch {
	case strings.Contains(coding, "shorten"), strings.Contains(coding, "wavpack"), strings.Contains(coding, "shortpack"):
		return sample.Unknown
	case strings.Contains(coding, "ulaw"), strings.Contains(coding, "mu-law"):
		return sample.MuLaw
	case strings.Contains(coding, "alaw"):
		return sample.ALaw
	}
	little := strings.HasPrefix(f.byteFormat, "0")
	switch f.bytes {
	case 1:
		return sample.Byte
	case 2:
		return pick(little, sample.LShort, sample.BShort)
	case 3:
		return pick(little, sample.L24Int, sample.B24Int)
	case 4:
		return pick(little, sample.LIntN, sample.BIntN)
	}
	return sample.Unknown
}

func parseNIST(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(NIST)

	s := newLineScanner(in, NIST, 0, 0)
	if _, _, err := s.next(); err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	sizeLine, ok, err := s.next()
	if err != nil {
		return nil, PendingWriteOffsets{}, err
	}
	hdr := int64(atoi(sizeLine))
	if !ok || hdr <= 0 {
		return nil, PendingWriteOffsets{}, in.fail(NIST, "bad header size %q", sizeLine).at(8)
	}
	s.limit = min(hdr, in.Size())

	f := nistFields{chans: 1, count: -1}
	for {
		line, ok, err := s.next()
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		if !ok {
			break
		}
		name, value, err := s.field(line)
		if err != nil {
			return nil, PendingWriteOffsets{}, err
		}
		if name == "end_head" {
			break
		}
		v := typedValue(value)
		switch name {
		case "channel_count":
			f.chans = atoi(v)
		case "sample_count":
			f.count = int64(atoi(v))
		case "sample_rate":
			f.rate = atoi(v)
		case "sample_n_bytes":
			f.bytes = atoi(v)
		case "sample_sig_bits":
			f.sigBits = atoi(v)
		case "sample_byte_format":
			f.byteFormat = v
		case "sample_coding":
			f.coding = v
		}
	}

	d.Chans = f.chans
	d.SampleRate = f.rate
	d.Bits = f.sigBits
	d.SampleType = f.sampleType()
	d.DataLocation = hdr
	if f.count >= 0 {
		d.Samples = f.count * int64(f.chans)
	} else {
		d.Samples = BytesToSamples(d.SampleType, in.Size()-hdr)
	}
	return d, PendingWriteOffsets{}, nil
}
