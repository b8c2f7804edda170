// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

// Edit runs fn on an editor for path and records the resulting header in the
// cache. On failure the entry is dropped so the next Describe re-reads the
// file.
func (c *Cache) Edit(path string, fn func(e *header.Editor) error) error {
	ent, err := c.lookup(path)
	if err != nil {
		return err
	}
	ed := header.NewEditor(path, ent.d.Clone(), ent.off)
	if err := fn(ed); err != nil {
		c.Forget(path)
		return err
	}
	c.store(path, cacheEntry{d: ed.Descriptor(), off: ed.Offsets()})
	return nil
}

// SetSamples sets the interleaved sample count in path's header.
func SetSamples(path string, n int64) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetSamples(n) })
}

// SetSampleRate sets the sample rate in path's header.
func SetSampleRate(path string, rate int) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetSampleRate(rate) })
}

// SetChans sets the channel count in path's header.
func SetChans(path string, chans int) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetChans(chans) })
}

// SetSampleType relabels the sample encoding. The data is not converted.
func SetSampleType(path string, st sample.Type) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetSampleType(st) })
}

// SetComment replaces the header comment.
func SetComment(path, comment string) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetComment(comment) })
}

// SetDataLocation moves the recorded start of the sample data.
func SetDataLocation(path string, loc int64) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.SetDataLocation(loc) })
}

// ConvertType rewrites path's header as container t, keeping the data.
func ConvertType(path string, t header.Type) error {
	return defaultCache.Edit(path, func(e *header.Editor) error { return e.ConvertType(t) })
}

// Comment returns the text of path's header comment.
func Comment(path string) (string, error) {
	ent, err := defaultCache.lookup(path)
	if err != nil {
		return "", err
	}
	return header.NewEditor(path, ent.d, ent.off).Comment()
}
