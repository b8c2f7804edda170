// SPDX-License-Identifier: EPL-2.0

package header

import (
	"fmt"
	"strings"

	"github.com/ik5/sndkit/sample"
)

// Type is the container (header) kind of a sound file.
type Type int

const (
	Unsupported Type = iota
	NeXT
	AIFC
	RIFF
	RF64
	BICSF
	NIST
	INRS
	ESPS
	SVX
	VOC
	SNDT
	Raw
	SMP
	AVR
	IRCAM
	SD1
	SPPACK
	MUS10
	HCOM
	PSION
	MAUD
	IEEE
	Matlab
	ADC
	MIDI
	SoundFont
	Gravis
	Comdisco
	Goldwave
	SRFS
	MIDISampleDump
	DiamondWare
	ADF
	SBStudioII
	Delusion
	Farandole
	SampleDump
	UltraTracker
	YamahaSY85
	YamahaTX16W
	DigiPlayer
	Covox
	AVI
	OMF
	Quicktime
	ASF
	YamahaSY99
	Kurzweil2000
	AIFF
	PAF
	CSL
	FileSamp
	PVF
	Wave64
	TwinVQ
	Akai4
	ImpulseTracker
	Korg
	NVF
	CAFF
	Maui
	SDIF
	Ogg
	FLAC
	Speex
	MPEG
	Shorten
	TTA
	WavPack
	SoX

	numTypes
)

type typeInfo struct {
	name string
	ext  string
}

var typeInfos = [numTypes]typeInfo{
	Unsupported:    {"unsupported", ""},
	NeXT:           {"Sun/NeXT", "snd"},
	AIFC:           {"AIFC", "aifc"},
	RIFF:           {"RIFF", "wav"},
	RF64:           {"RF64", "wav"},
	BICSF:          {"BICSF", "sf"},
	NIST:           {"NIST", "nist"},
	INRS:           {"INRS", "inrs"},
	ESPS:           {"ESPS", "sd"},
	SVX:            {"IFF/8SVX", "svx"},
	VOC:            {"VOC", "voc"},
	SNDT:           {"SNDT", "snd"},
	Raw:            {"raw (no header)", "raw"},
	SMP:            {"SampleVision SMP", "smp"},
	AVR:            {"AVR", "avr"},
	IRCAM:          {"IRCAM", "sf"},
	SD1:            {"Sound Designer 1", "sd1"},
	SPPACK:         {"SPPACK", "sppack"},
	MUS10:          {"Mus10", "snd"},
	HCOM:           {"HCOM", "hcom"},
	PSION:          {"Psion", "wve"},
	MAUD:           {"MAUD", "maud"},
	IEEE:           {"IEEE text", "ieee"},
	Matlab:         {"Matlab", "mat"},
	ADC:            {"ADC/OGI", "adc"},
	MIDI:           {"MIDI", "mid"},
	SoundFont:      {"SoundFont", "sf2"},
	Gravis:         {"Gravis Ultrasound patch", "pat"},
	Comdisco:       {"Comdisco SPW signal", "spw"},
	Goldwave:       {"Goldwave sample", "smp"},
	SRFS:           {"SRFS", "srfs"},
	MIDISampleDump: {"MIDI sample dump", "sds"},
	DiamondWare:    {"DiamondWare", "dwd"},
	ADF:            {"CSRE adf", "adf"},
	SBStudioII:     {"Sound Blaster Studio II", "sou"},
	Delusion:       {"Delusion", "dsf"},
	Farandole:      {"Farandole", "fsm"},
	SampleDump:     {"Sample dump", "sd"},
	UltraTracker:   {"Ultratracker", "wt"},
	YamahaSY85:     {"Sy-85", "sy85"},
	YamahaTX16W:    {"TX-16W", "tx"},
	DigiPlayer:     {"Digiplayer ST3", "dsm"},
	Covox:          {"Covox V8", "v8"},
	AVI:            {"AVI", "avi"},
	OMF:            {"OMF", "omf"},
	Quicktime:      {"Quicktime", "mov"},
	ASF:            {"asf", "asf"},
	YamahaSY99:     {"Sy-99", "sy99"},
	Kurzweil2000:   {"Kurzweil 2000", "krz"},
	AIFF:           {"AIFF", "aiff"},
	PAF:            {"Ensoniq Paris", "paf"},
	CSL:            {"CSL", "nsp"},
	FileSamp:       {"snack SMP", "smp"},
	PVF:            {"Portable Voice Format", "pvf"},
	Wave64:         {"Sony Wave64", "w64"},
	TwinVQ:         {"TwinVQ", "vqf"},
	Akai4:          {"Akai 4", "akai"},
	ImpulseTracker: {"Impulse Tracker", "its"},
	Korg:           {"Korg", "korg"},
	NVF:            {"Creative NVF", "nvf"},
	CAFF:           {"CAFF", "caf"},
	Maui:           {"maui", "wfs"},
	SDIF:           {"SDIF", "sdif"},
	Ogg:            {"Ogg", "ogg"},
	FLAC:           {"Flac", "flac"},
	Speex:          {"Speex", "spx"},
	MPEG:           {"mpeg", "mp3"},
	Shorten:        {"shorten", "shn"},
	TTA:            {"tta", "tta"},
	WavPack:        {"wavpack", "wv"},
	SoX:            {"sox", "sox"},
}

// Types lists every container kind, Unsupported excluded.
func Types() []Type {
	out := make([]Type, 0, numTypes-1)
	for t := NeXT; t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

func (t Type) Valid() bool { return t >= 0 && t < numTypes }

// Name is the human readable container name.
func (t Type) Name() string {
	if !t.Valid() {
		return fmt.Sprintf("header.Type(%d)", int(t))
	}
	return typeInfos[t].name
}

func (t Type) String() string { return t.Name() }

// Extension is the customary file extension without the dot.
func (t Type) Extension() string {
	if !t.Valid() {
		return ""
	}
	return typeInfos[t].ext
}

// writableTypes lists, per container the writer can produce, the encodings
// it can declare.
var writableTypes = map[Type][]sample.Type{
	NeXT:  {sample.MuLaw, sample.Byte, sample.BShort, sample.B24Int, sample.BIntN, sample.BFloat, sample.BDouble, sample.ALaw},
	AIFF:  {sample.Byte, sample.BShort, sample.B24Int, sample.BIntN},
	AIFC:  {sample.Byte, sample.BShort, sample.B24Int, sample.BIntN, sample.BFloat, sample.BDouble, sample.MuLaw, sample.ALaw, sample.LShort, sample.UByte, sample.L24Int, sample.LIntN},
	RIFF:  {sample.UByte, sample.LShort, sample.L24Int, sample.LIntN, sample.LFloat, sample.LDouble, sample.MuLaw, sample.ALaw},
	RF64:  {sample.UByte, sample.LShort, sample.L24Int, sample.LIntN, sample.LFloat, sample.LDouble, sample.MuLaw, sample.ALaw},
	CAFF:  {sample.Byte, sample.BShort, sample.LShort, sample.B24Int, sample.L24Int, sample.BIntN, sample.LIntN, sample.BFloat, sample.LFloat, sample.BDouble, sample.LDouble, sample.MuLaw, sample.ALaw},
	IRCAM: {sample.Byte, sample.BShort, sample.B24Int, sample.BIntN, sample.BFloat, sample.MuLaw, sample.ALaw},
	NIST:  {sample.Byte, sample.BShort, sample.LShort, sample.BIntN, sample.LIntN, sample.MuLaw},
	Raw:   sample.Types(),
}

// Writable reports whether the header writer can produce t.
func (t Type) Writable() bool {
	_, ok := writableTypes[t]
	return ok
}

// SupportsType reports whether t can declare st on write.
func (t Type) SupportsType(st sample.Type) bool {
	for _, s := range writableTypes[t] {
		if s == st {
			return true
		}
	}
	return false
}

// WritableTypes lists the containers the writer can produce.
func WritableTypes() []Type {
	return []Type{NeXT, AIFF, AIFC, RIFF, RF64, CAFF, IRCAM, NIST, Raw}
}

// ParseType accepts a container name or extension, case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for _, t := range WritableTypes() {
		if strings.ToLower(t.Name()) == s || t.Extension() == s {
			return t, nil
		}
	}
	for t := NeXT; t < numTypes; t++ {
		if strings.ToLower(t.Name()) == s {
			return t, nil
		}
	}
	switch s {
	case "wave", "wav":
		return RIFF, nil
	case "next", "sun", "au":
		return NeXT, nil
	case "aif":
		return AIFF, nil
	}
	return Unsupported, fmt.Errorf("%w: unknown header type %q", ErrUnsupportedHeaderType, s)
}
