// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/sndkit/internal/fixtures"
)

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(fixtures.Silence(44100, 2, 1000), 8000)

	if resampler.SampleRate() != 8000 {
		t.Errorf("Resampler.SampleRate() = %d, want 8000", resampler.SampleRate())
	}
	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}
}

func TestResampler_SameRateIsExact(t *testing.T) {
	t.Parallel()

	src := fixtures.Ramp(8000, 2, 500)
	got, err := Collect(NewResampler(src, 8000), 64)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1000 {
		t.Fatalf("len = %d, want 1000", len(got))
	}
	for f := range 500 {
		if got[2*f] != float32(f) || got[2*f+1] != float32(f+1000) {
			t.Fatalf("frame %d = %v, %v, want %d, %d", f, got[2*f], got[2*f+1], f, f+1000)
		}
	}
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		frames   int
		want     int
	}{
		{"downsample 44.1k to 8k", 44100, 8000, 44100, 8000},
		{"upsample 8k to 16k", 8000, 16000, 8000, 16000},
		{"upsample 22.05k to 48k", 22050, 48000, 22050, 48000},
		{"extreme down", 48000, 1000, 48000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Collect(NewResampler(fixtures.Sine(tt.from, 1, tt.frames, 440), tt.to), 4096)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if diff := len(got) - tt.want; diff < -2 || diff > 2 {
				t.Errorf("output frames = %d, want %d±2", len(got), tt.want)
			}
		})
	}
}

func TestResampler_PreservesSine(t *testing.T) {
	t.Parallel()

	const freq = 200.0
	got, err := Collect(NewResampler(fixtures.Sine(8000, 1, 8000, freq), 16000), 1024)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for i := 8; i < len(got)-8; i++ {
		want := math.Sin(2 * math.Pi * freq * float64(i) / 16000)
		if math.Abs(float64(got[i])-want) > 0.01 {
			t.Fatalf("sample %d = %v, want ≈%v", i, got[i], want)
		}
	}
}

func TestResampler_LinearInterpolation(t *testing.T) {
	t.Parallel()

	got, err := Collect(NewResamplerWith(fixtures.Ramp(1000, 1, 10), 2000, Linear), 16)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for i := 0; i < 18; i++ {
		if want := float32(i) / 2; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(fixtures.Silence(44100, 2, 100), 8000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	r := NewResampler(fixtures.Silence(44100, 1, 0), 8000)
	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 0, EOF", n, err)
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	src := fixtures.Sine(8000, 1, 8000, 440)
	src.Err, src.FailAt = errors.New("disk gone"), 100

	_, err := Collect(NewResampler(src, 16000), 64)
	if !errors.Is(err, src.Err) {
		t.Errorf("Collect() error = %v, want %v", err, src.Err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := fixtures.Silence(8000, 1, 10)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.Closed {
		t.Error("Close() did not close the source")
	}
}

func TestInterpolators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		interp         Interpolator
		y0, y1, y2, y3 float32
		x, want        float32
	}{
		{"cubic start", Cubic, 0, 1, 2, 3, 0, 1},
		{"cubic end", Cubic, 0, 1, 2, 3, 1, 2},
		{"cubic linear data", Cubic, 1, 2, 3, 4, 0.25, 2.25},
		{"cubic flat", Cubic, 0, 0, 0, 0, 0.5, 0},
		{"linear mid", Linear, 9, 1, 3, -9, 0.5, 2},
	}

	for _, tt := range tests {
		got := tt.interp(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
		if math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}
