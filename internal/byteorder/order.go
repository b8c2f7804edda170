// SPDX-License-Identifier: EPL-2.0

// Package byteorder holds the fixed-width integer and float codecs shared by
// the header parsers and the sample codec table.
//
// The byte order is a runtime value, picked once when a header or a codec is
// selected, instead of a per-platform build switch.
package byteorder

import (
	"encoding/binary"
	"math"

	goaudio "github.com/go-audio/audio"
)

// Order is the byte order of a multi-byte field.
type Order uint8

const (
	// BigEndian is used by AIFF, NeXT, CAFF and most Motorola-era formats.
	BigEndian Order = iota
	// LittleEndian is used by RIFF/WAVE, VOC and most Intel-era formats.
	LittleEndian
)

func (o Order) String() string {
	if o == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// Binary returns the matching encoding/binary byte order.
func (o Order) Binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o Order) Uint16(b []byte) uint16 {
	if o == LittleEndian {
		return binary.LittleEndian.Uint16(b)
	}
	return binary.BigEndian.Uint16(b)
}

func (o Order) Int16(b []byte) int16 { return int16(o.Uint16(b)) }

func (o Order) PutUint16(b []byte, v uint16) {
	if o == LittleEndian {
		binary.LittleEndian.PutUint16(b, v)
		return
	}
	binary.BigEndian.PutUint16(b, v)
}

func (o Order) PutInt16(b []byte, v int16) { o.PutUint16(b, uint16(v)) }

// Int24 decodes a sign-extended 3-byte integer.
func (o Order) Int24(b []byte) int32 {
	if o == LittleEndian {
		return goaudio.Int24LETo32(b)
	}
	return goaudio.Int24BETo32(b)
}

// PutInt24 stores the low 24 bits of v.
func (o Order) PutInt24(b []byte, v int32) {
	if o == LittleEndian {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
		return
	}
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func (o Order) Uint32(b []byte) uint32 {
	if o == LittleEndian {
		return binary.LittleEndian.Uint32(b)
	}
	return binary.BigEndian.Uint32(b)
}

func (o Order) Int32(b []byte) int32 { return int32(o.Uint32(b)) }

func (o Order) PutUint32(b []byte, v uint32) {
	if o == LittleEndian {
		binary.LittleEndian.PutUint32(b, v)
		return
	}
	binary.BigEndian.PutUint32(b, v)
}

func (o Order) PutInt32(b []byte, v int32) { o.PutUint32(b, uint32(v)) }

func (o Order) Uint64(b []byte) uint64 {
	if o == LittleEndian {
		return binary.LittleEndian.Uint64(b)
	}
	return binary.BigEndian.Uint64(b)
}

func (o Order) Int64(b []byte) int64 { return int64(o.Uint64(b)) }

func (o Order) PutUint64(b []byte, v uint64) {
	if o == LittleEndian {
		binary.LittleEndian.PutUint64(b, v)
		return
	}
	binary.BigEndian.PutUint64(b, v)
}

func (o Order) PutInt64(b []byte, v int64) { o.PutUint64(b, uint64(v)) }

func (o Order) Float32(b []byte) float32 { return math.Float32frombits(o.Uint32(b)) }

func (o Order) PutFloat32(b []byte, v float32) { o.PutUint32(b, math.Float32bits(v)) }

func (o Order) Float64(b []byte) float64 { return math.Float64frombits(o.Uint64(b)) }

func (o Order) PutFloat64(b []byte, v float64) { o.PutUint64(b, math.Float64bits(v)) }

// Shorthands for the header parsers, which mostly mix the two orders.

func BEUint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func LEUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func BEUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func LEUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func BEInt32(b []byte) int32   { return int32(binary.BigEndian.Uint32(b)) }
func LEInt32(b []byte) int32   { return int32(binary.LittleEndian.Uint32(b)) }
func BEUint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
func LEUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
