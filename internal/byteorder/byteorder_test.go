// SPDX-License-Identifier: EPL-2.0

package byteorder

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestOrder_Int24RoundTrip(t *testing.T) {
	t.Parallel()

	values := []int32{0, 1, -1, 0x7fffff, -0x800000, 123456, -654321}
	for _, o := range []Order{BigEndian, LittleEndian} {
		for _, v := range values {
			b := make([]byte, 3)
			o.PutInt24(b, v)
			if got := o.Int24(b); got != v {
				t.Errorf("%s Int24(PutInt24(%d)) = %d", o, v, got)
			}
		}
	}
}

func TestOrder_Layout(t *testing.T) {
	t.Parallel()

	b := make([]byte, 4)
	BigEndian.PutUint32(b, 0x01020304)
	if !bytes.Equal(b, []byte{1, 2, 3, 4}) {
		t.Errorf("BigEndian.PutUint32 = %v, want [1 2 3 4]", b)
	}

	LittleEndian.PutUint32(b, 0x01020304)
	if !bytes.Equal(b, []byte{4, 3, 2, 1}) {
		t.Errorf("LittleEndian.PutUint32 = %v, want [4 3 2 1]", b)
	}

	b3 := make([]byte, 3)
	BigEndian.PutInt24(b3, -2)
	if !bytes.Equal(b3, []byte{0xff, 0xff, 0xfe}) {
		t.Errorf("BigEndian.PutInt24(-2) = %v", b3)
	}
}

func TestOrder_Floats(t *testing.T) {
	t.Parallel()

	for _, o := range []Order{BigEndian, LittleEndian} {
		b := make([]byte, 8)
		o.PutFloat64(b, math.Pi)
		if got := o.Float64(b); got != math.Pi {
			t.Errorf("%s Float64 = %v, want %v", o, got, math.Pi)
		}
		o.PutFloat32(b, -0.25)
		if got := o.Float32(b); got != -0.25 {
			t.Errorf("%s Float32 = %v, want -0.25", o, got)
		}
		o.PutInt64(b, -5)
		if got := o.Int64(b); got != -5 {
			t.Errorf("%s Int64 = %v, want -5", o, got)
		}
	}
}

func TestExtended80(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes []byte
		want  float64
	}{
		{"44100", []byte{0x40, 0x0e, 0xac, 0x44, 0, 0, 0, 0, 0, 0}, 44100},
		{"8000", []byte{0x40, 0x0b, 0xfa, 0, 0, 0, 0, 0, 0, 0}, 8000},
		{"zero", make([]byte, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Extended80(tt.bytes); got != tt.want {
				t.Errorf("Extended80() = %v, want %v", got, tt.want)
			}

			b := make([]byte, 10)
			PutExtended80(b, tt.want)
			if !bytes.Equal(b, tt.bytes) {
				t.Errorf("PutExtended80(%v) = % x, want % x", tt.want, b, tt.bytes)
			}
		})
	}
}

func TestExtended80_Fractional(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{22050.5, 0.75, 11025.25, -3.5} {
		b := make([]byte, 10)
		PutExtended80(b, v)
		if got := Extended80(b); got != v {
			t.Errorf("Extended80(PutExtended80(%v)) = %v", v, got)
		}
	}
}

func TestSafeReader(t *testing.T) {
	t.Parallel()

	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "mem")

	v, err := sr.Uint32(4, BigEndian, "field")
	if err != nil {
		t.Fatalf("Uint32() error = %v", err)
	}
	if v != 0x04050607 {
		t.Errorf("Uint32() = %#x, want 0x04050607", v)
	}

	if _, err := sr.Uint32(6, BigEndian, "tail"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Uint32(6) error = %v, want ErrOutOfBounds", err)
	}

	head, err := sr.Head(256)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if len(head) != len(data) {
		t.Errorf("Head() len = %d, want %d", len(head), len(data))
	}
}

func TestSafeReader_BoundsBeforeAllocating(t *testing.T) {
	t.Parallel()

	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "mem")

	for _, tt := range []struct {
		off int64
		n   int
	}{
		{0, math.MaxInt32 * 4},
		{4, 5},
		{-1, 2},
		{0, -1},
	} {
		if b, err := sr.Bytes(tt.off, tt.n, "field"); !errors.Is(err, ErrOutOfBounds) || b != nil {
			t.Errorf("Bytes(%d, %d) = %v, %v, want nil, ErrOutOfBounds", tt.off, tt.n, b, err)
		}
	}

	sec := sr.Section(6, 100)
	if sec.Size() != 2 {
		t.Errorf("Section(6, 100).Size() = %d, want 2", sec.Size())
	}
}
