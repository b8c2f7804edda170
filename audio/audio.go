// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"

	"github.com/ik5/sndkit/header"
)

// Source is a stream of normalized, interleaved float32 samples.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame.
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1, 1] and returns
	// the number of values written, not frames. n == 0 with io.EOF ends the
	// stream.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is the read size, in samples, the source works best with.
	BufSize() int
	// Close releases the underlying file or decoder.
	Close() error
}

// Decoder builds a Source for a file whose header has already been parsed.
// d describes the file behind r; delegated decoders for compressed
// containers may ignore it and read their own framing.
type Decoder interface {
	Decode(r io.ReadSeeker, d *header.Descriptor) (Source, error)
}

// Registry maps container types to decoders.
type Registry struct {
	codecs map[header.Type]Decoder
	mtx    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[header.Type]Decoder)}
}

// Register installs d for t, replacing any earlier decoder.
func (r *Registry) Register(t header.Type, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[t] = d
}

func (r *Registry) Get(t header.Type) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[t]
	return d, ok
}

// Types lists the registered container types in ascending order.
func (r *Registry) Types() []header.Type {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]header.Type, 0, len(r.codecs))
	for t := range r.codecs {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
