// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

// File is an open sound file addressed in frames. A File is safe for
// concurrent use, though calls are serialized.
type File struct {
	mtx sync.Mutex

	path  string
	f     *os.File
	d     *header.Descriptor
	off   header.PendingWriteOffsets
	cache *Cache

	writable bool
	clip     *sample.Clipper
	frames   int64 // frames present, grows with writes past the end
	dirty    bool
	closed   bool

	raw []byte
}

// CreateOptions describes a file for Create.
type CreateOptions struct {
	Type       header.Type
	SampleType sample.Type
	SampleRate int
	Chans      int
	Comment    string

	// Clip clamps out-of-range samples on write; ClipHandler replaces the
	// clamp when set. Without either, integer encodings wrap.
	Clip        bool
	ClipHandler sample.ClipHandler
}

func (o CreateOptions) clipper() *sample.Clipper {
	if o.ClipHandler != nil {
		return sample.NewClipper(o.ClipHandler)
	}
	if o.Clip || clippingDefault() {
		return sample.NewClipper(nil)
	}
	return nil
}

func unsupportedData(d *header.Descriptor) error {
	return &Error{
		Kind:   header.KindUnsupportedDataFormat,
		Path:   d.Path,
		Type:   d.Type,
		Reason: fmt.Sprintf("cannot read %s samples", d.SampleType.Name()),
		Offset: -1,
	}
}

func (c *Cache) open(path string, flag int) (*File, error) {
	ent, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	d := ent.d.Clone()
	if !d.SampleType.Valid() || d.Chans <= 0 {
		return nil, unsupportedData(d)
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, &Error{Kind: header.KindCantOpenFile, Path: path, Type: d.Type, Offset: -1, Err: err}
	}
	h := &File{
		path:     path,
		f:        f,
		d:        d,
		off:      ent.off,
		cache:    c,
		writable: flag&os.O_RDWR != 0,
		frames:   d.Frames(),
	}
	if h.writable {
		h.clip = CreateOptions{}.clipper()
	}
	return h, nil
}

// Open opens path for reading. Files whose container or sample encoding the
// codec cannot handle are refused with ErrUnsupportedDataFormat.
func (c *Cache) Open(path string) (*File, error) { return c.open(path, os.O_RDONLY) }

// OpenForUpdate opens an existing file for reading and writing. Frames
// written past the end extend the file; Close records the new length.
func (c *Cache) OpenForUpdate(path string) (*File, error) { return c.open(path, os.O_RDWR) }

// Create writes a header for an empty file at path, truncating any existing
// file, and returns a handle positioned for WriteFrames.
func (c *Cache) Create(path string, opts CreateOptions) (*File, error) {
	spec := header.WriteSpec{
		Type:       opts.Type,
		SampleType: opts.SampleType,
		SampleRate: opts.SampleRate,
		Chans:      opts.Chans,
		Comment:    opts.Comment,
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, &Error{Kind: header.KindCantOpenFile, Path: path, Type: opts.Type, Offset: -1, Err: err}
	}
	c.Forget(path)

	off, err := header.Write(f, spec)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		var he *Error
		if errors.As(err, &he) && he.Path == "" {
			he.Path = path
		}
		return nil, err
	}
	loc, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		_ = f.Close()
		return nil, &Error{Kind: header.KindWriteError, Path: path, Type: opts.Type, Offset: -1, Err: err}
	}

	d := &header.Descriptor{
		Path:         path,
		Type:         opts.Type,
		SampleType:   opts.SampleType,
		Chans:        opts.Chans,
		SampleRate:   opts.SampleRate,
		DataLocation: loc,
		TrueLength:   loc,
		Bits:         opts.SampleType.Bits(),
	}
	logger.Debug("created sound file", "path", path, "type", opts.Type.Name(), "sample_type", opts.SampleType.String())
	return &File{
		path:     path,
		f:        f,
		d:        d,
		off:      off,
		cache:    c,
		writable: true,
		clip:     opts.clipper(),
		dirty:    true,
	}, nil
}

// Open opens path for reading through the default cache.
func Open(path string) (*File, error) { return defaultCache.Open(path) }

// OpenForUpdate opens path for reading and writing through the default cache.
func OpenForUpdate(path string) (*File, error) { return defaultCache.OpenForUpdate(path) }

// Create creates path through the default cache.
func Create(path string, opts CreateOptions) (*File, error) { return defaultCache.Create(path, opts) }

// Descriptor returns a copy of the header the handle works from.
func (h *File) Descriptor() *header.Descriptor {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	d := h.d.Clone()
	d.Samples = h.frames * int64(d.Chans)
	return d
}

// Frames is the current length in frames.
func (h *File) Frames() int64 {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.frames
}

// SetClipHandler changes clipping for later writes; nil with clip false
// turns clipping off.
func (h *File) SetClipHandler(clip bool, fn sample.ClipHandler) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.clip = CreateOptions{Clip: clip, ClipHandler: fn}.clipper()
}

func (h *File) frameBytes() int64 { return int64(h.d.Chans * h.d.SampleType.Bytes()) }

func (h *File) buffer(n int) []byte {
	if cap(h.raw) < n {
		h.raw = make([]byte, n)
	}
	return h.raw[:n]
}

func (h *File) checkChannels(bufs [][]float64) (int, error) {
	if len(bufs) != h.d.Chans {
		return 0, fmt.Errorf("%w: %d buffers for %d channels", ErrChannelCount, len(bufs), h.d.Chans)
	}
	n := len(bufs[0])
	for _, b := range bufs[1:] {
		n = min(n, len(b))
	}
	return n, nil
}

// ReadFrames decodes frames starting at start into one buffer per channel
// and returns how many frames were read. It reads min(len(buf)) frames or
// up to the end of the data; reading exactly at the end returns 0, io.EOF.
func (h *File) ReadFrames(start int64, bufs [][]float64) (int, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return 0, ErrClosed
	}
	want, err := h.checkChannels(bufs)
	if err != nil {
		return 0, err
	}
	if start < 0 || start > h.frames {
		return 0, fmt.Errorf("%w: start %d of %d frames", ErrFrameRange, start, h.frames)
	}
	if start == h.frames {
		return 0, io.EOF
	}
	n := int(min(int64(want), h.frames-start))
	if n == 0 {
		return 0, nil
	}

	raw := h.buffer(n * int(h.frameBytes()))
	got, err := h.f.ReadAt(raw, h.d.DataLocation+start*h.frameBytes())
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, &Error{Kind: header.KindReadError, Path: h.path, Type: h.d.Type, Offset: -1, Err: err}
	}
	n = got / int(h.frameBytes())
	if n == 0 {
		return 0, io.EOF
	}
	if err := sample.DecodeChannels(bufs, raw, h.d.SampleType, n); err != nil {
		return 0, err
	}
	return n, nil
}

// ReadBuffer reads up to frames frames from start as an interleaved
// float32 buffer for consumers of github.com/go-audio/audio.
func (h *File) ReadBuffer(start int64, frames int) (*goaudio.Float32Buffer, error) {
	h.mtx.Lock()
	chans, rate, bits := h.d.Chans, h.d.SampleRate, h.d.SampleType.Bits()
	h.mtx.Unlock()

	planar := make([][]float64, chans)
	for ch := range planar {
		planar[ch] = make([]float64, frames)
	}
	n, err := h.ReadFrames(start, planar)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	data := make([]float32, n*chans)
	for i := range n {
		for ch := range chans {
			data[i*chans+ch] = float32(planar[ch][i])
		}
	}
	return &goaudio.Float32Buffer{
		Format:         &goaudio.Format{NumChannels: chans, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	}, err
}

// WriteFrames encodes min(len(buf)) frames from one buffer per channel at
// start. Writing may begin anywhere up to the current end.
func (h *File) WriteFrames(start int64, bufs [][]float64) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return ErrClosed
	}
	if !h.writable {
		return ErrReadOnly
	}
	n, err := h.checkChannels(bufs)
	if err != nil {
		return err
	}
	if start < 0 || start > h.frames {
		return fmt.Errorf("%w: start %d of %d frames", ErrFrameRange, start, h.frames)
	}
	if n == 0 {
		return nil
	}

	raw := h.buffer(n * int(h.frameBytes()))
	if err := sample.EncodeChannels(raw, bufs, h.d.SampleType, n, h.clip); err != nil {
		return err
	}
	if _, err := h.f.WriteAt(raw, h.d.DataLocation+start*h.frameBytes()); err != nil {
		return &Error{Kind: header.KindWriteError, Path: h.path, Type: h.d.Type, Offset: -1, Err: err}
	}
	if end := start + int64(n); end > h.frames {
		h.frames = end
		h.dirty = true
	}
	return nil
}

// Close releases the file. For a handle that wrote past the old end the
// header's sample count is updated first; a RIFF file that outgrew 32-bit
// sizes becomes RF64.
func (h *File) Close() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var syncErr error
	if h.dirty {
		syncErr = h.f.Sync()
	}
	if err := h.f.Close(); err != nil {
		return &Error{Kind: header.KindWriteError, Path: h.path, Type: h.d.Type, Offset: -1, Err: err}
	}
	if syncErr != nil {
		return &Error{Kind: header.KindWriteError, Path: h.path, Type: h.d.Type, Offset: -1, Err: syncErr}
	}
	if !h.dirty {
		return nil
	}

	samples := h.frames * int64(h.d.Chans)
	return h.cache.Edit(h.path, func(e *header.Editor) error {
		return e.SetSamples(samples)
	})
}
