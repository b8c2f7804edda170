// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Remixer changes the channel count of src. Downmixing to mono averages
// all channels, upmixing from mono copies the single channel, and any other
// change keeps the leading channels and zero-fills the rest.
type Remixer struct {
	src   Source
	chans int
	tmp   []float32
}

// NewRemixer returns src with chans channels per frame.
func NewRemixer(src Source, chans int) *Remixer {
	return &Remixer{src: src, chans: chans, tmp: make([]float32, 4096)}
}

// NewMonoMixer downmixes src to a single channel.
func NewMonoMixer(src Source) *Remixer { return NewRemixer(src, 1) }

func (m *Remixer) SampleRate() int { return m.src.SampleRate() }
func (m *Remixer) Channels() int   { return m.chans }
func (m *Remixer) BufSize() int    { return m.src.BufSize() }

func (m *Remixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("close remixer source: %w", err)
	}
	return nil
}

func (m *Remixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.chans != 0 {
		return 0, ErrInvalidDstSize
	}
	in := m.src.Channels()
	if in == m.chans {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.chans
	need := frames * in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / in
	if got == 0 {
		return 0, err
	}
	src := m.tmp[:got*in]

	switch {
	case m.chans == 1 && in == 2:
		for f := range got {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}
	case m.chans == 1:
		inv := 1 / float32(in)
		for f := range got {
			var sum float32
			for _, v := range src[f*in : f*in+in] {
				sum += v
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f, v := range src {
			for c := range m.chans {
				dst[f*m.chans+c] = v
			}
		}
	default:
		keep := min(in, m.chans)
		for f := range got {
			out := dst[f*m.chans : f*m.chans+m.chans]
			copy(out, src[f*in:f*in+keep])
			clear(out[keep:])
		}
	}
	return got * m.chans, err
}
