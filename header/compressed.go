// SPDX-License-Identifier: EPL-2.0

package header

import (
	"bytes"

	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/sample"
)

// Containers whose samples are compressed or otherwise not in a codec the
// engine handles. They are recognized so they are not misread as raw data;
// where the stream header is simple the rate and channel count are filled in.

func recognized(t Type) func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	return func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
		d := in.descriptor(t)
		d.SampleType = sample.Unknown
		return d, PendingWriteOffsets{}, nil
	}
}

var midiReader = readerFunc{typ: MIDI, detect: prefix("MThd"), parse: recognized(MIDI)}

// Ogg: the first page carries the codec identification packet at 28.
var oggReader = readerFunc{typ: Ogg, detect: prefix("OggS"), parse: parseOgg, form: oggType}

// oggType tells Speex and FLAC streams from Vorbis by the first packet.
func oggType(h []byte) Type {
	switch {
	case len(h) >= 80 && bytes.Equal(h[28:36], []byte("Speex   ")):
		return Speex
	case len(h) >= 47 && bytes.Equal(h[28:33], []byte("\x7fFLAC")):
		return FLAC
	}
	return Ogg
}

func parseOgg(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	h := in.Head
	d := in.descriptor(oggType(h))
	d.SampleType = sample.Unknown
	switch d.Type {
	case Speex:
		d.SampleRate = int(byteorder.LEUint32(h[64:68]))
		d.Chans = int(byteorder.LEUint32(h[76:80]))
	case FLAC:
		if len(h) >= 45+18 && string(h[37:41]) == "fLaC" {
			flacStreamInfo(d, h[45:])
		}
	default:
		if len(h) >= 45 && bytes.Equal(h[28:35], []byte("\x01vorbis")) {
			d.Chans = int(h[39])
			d.SampleRate = int(byteorder.LEUint32(h[40:44]))
		}
	}
	return d, PendingWriteOffsets{}, nil
}

var flacReader = readerFunc{typ: FLAC, detect: prefix("fLaC"), parse: func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(FLAC)
	d.SampleType = sample.Unknown
	// STREAMINFO is always the first metadata block.
	if len(in.Head) >= 8+18 && in.Head[4]&0x7F == 0 {
		flacStreamInfo(d, in.Head[8:])
	}
	return d, PendingWriteOffsets{}, nil
}}

// flacStreamInfo decodes rate, channels, bits and total samples from a
// STREAMINFO block body.
func flacStreamInfo(d *Descriptor, b []byte) {
	if len(b) < 18 {
		return
	}
	d.SampleRate = int(b[10])<<12 | int(b[11])<<4 | int(b[12])>>4
	d.Chans = int(b[12]>>1&0x07) + 1
	d.Bits = int(b[12]&1)<<4 | int(b[13]>>4) + 1
	frames := int64(b[13]&0x0F)<<32 | int64(byteorder.BEUint32(b[14:18]))
	d.Samples = frames * int64(d.Chans)
}

var shortenReader = readerFunc{typ: Shorten, detect: prefix("ajkg"), parse: recognized(Shorten)}

var ttaReader = readerFunc{typ: TTA, detect: prefix("TTA1"), parse: func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
	d := in.descriptor(TTA)
	d.SampleType = sample.Unknown
	if h := in.Head; len(h) >= 18 {
		le := byteorder.LittleEndian
		d.Chans = int(le.Uint16(h[6:8]))
		d.Bits = int(le.Uint16(h[8:10]))
		d.SampleRate = int(le.Uint32(h[10:14]))
		d.Samples = int64(le.Uint32(h[14:18])) * int64(d.Chans)
	}
	return d, PendingWriteOffsets{}, nil
}}

var wavPackReader = readerFunc{typ: WavPack, detect: prefix("wvpk"), parse: recognized(WavPack)}
var sdifReader = readerFunc{typ: SDIF, detect: prefix("SDIF"), parse: recognized(SDIF)}
var twinVQReader = readerFunc{typ: TwinVQ, detect: prefix("TWIN"), parse: recognized(TwinVQ)}
var matlabReader = readerFunc{typ: Matlab, detect: prefix("MATLAB"), parse: recognized(Matlab)}
var ieeeReader = readerFunc{typ: IEEE, detect: prefix("%//\n"), parse: recognized(IEEE)}

var omfReader = readerFunc{typ: OMF,
	detect: func(h []byte, _ int64) bool { return bytes.Contains(h, []byte("OMFI")) },
	parse:  recognized(OMF)}

var quicktimeReader = readerFunc{typ: Quicktime,
	detect: func(h []byte, _ int64) bool {
		if len(h) < 8 {
			return false
		}
		switch string(h[4:8]) {
		case "moov", "mdat", "ftyp", "wide", "free", "skip":
			return true
		}
		return false
	},
	parse: recognized(Quicktime)}

var asfGUID = []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11}

var asfReader = readerFunc{typ: ASF,
	detect: func(h []byte, _ int64) bool { return bytes.HasPrefix(h, asfGUID) },
	parse:  recognized(ASF)}

// HCOM is a Macintosh resource with "FSSD" and "HCOM" at 65 and 69.
var hcomReader = readerFunc{typ: HCOM,
	detect: func(h []byte, _ int64) bool {
		return len(h) >= 73 && string(h[65:69]) == "FSSD" && string(h[69:73]) == "HCOM"
	},
	parse: recognized(HCOM)}

// MPEG audio: an ID3v2 tag or a frame sync with valid layer, bitrate and
// rate indices.
var mpegReader = readerFunc{typ: MPEG,
	detect: func(h []byte, _ int64) bool {
		if bytes.HasPrefix(h, []byte("ID3")) {
			return true
		}
		_, _, ok := mpegFrame(h)
		return ok
	},
	parse: func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
		d := in.descriptor(MPEG)
		d.SampleType = sample.Unknown
		if rate, chans, ok := mpegFrame(in.Head); ok {
			d.SampleRate, d.Chans = rate, chans
		}
		return d, PendingWriteOffsets{}, nil
	}}

var mpegRates = [4][3]int{
	{11025, 12000, 8000},  // MPEG 2.5
	{},                    // reserved
	{22050, 24000, 16000}, // MPEG 2
	{44100, 48000, 32000}, // MPEG 1
}

func mpegFrame(h []byte) (rate, chans int, ok bool) {
	if len(h) < 4 || h[0] != 0xFF || h[1]&0xE0 != 0xE0 {
		return 0, 0, false
	}
	version := int(h[1]>>3) & 3
	layer := int(h[1]>>1) & 3
	bitrate := int(h[2] >> 4)
	rateIdx := int(h[2]>>2) & 3
	if version == 1 || layer == 0 || bitrate == 15 || rateIdx == 3 {
		return 0, 0, false
	}
	chans = 2
	if h[3]>>6 == 3 {
		chans = 1
	}
	return mpegRates[version][rateIdx], chans, true
}
