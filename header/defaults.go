// SPDX-License-Identifier: EPL-2.0

package header

import (
	"fmt"
	"sync"

	"github.com/ik5/sndkit/sample"
)

// RawDefaults describes how headerless files are interpreted.
type RawDefaults struct {
	SampleRate int
	Chans      int
	SampleType sample.Type
}

// WriteHook is notified after every header write or patch.
type WriteHook func(path string, d *Descriptor)

var (
	stateMu   sync.RWMutex
	rawDef    = RawDefaults{SampleRate: 44100, Chans: 2, SampleType: sample.BShort}
	writeHook WriteHook
)

// SetRawDefaults replaces the process-wide raw interpretation.
func SetRawDefaults(rd RawDefaults) error {
	if rd.SampleRate <= 0 || rd.Chans <= 0 {
		return fmt.Errorf("%w: raw defaults need a positive rate and channel count (got %d Hz, %d chans)",
			ErrBadSize, rd.SampleRate, rd.Chans)
	}
	if !rd.SampleType.Valid() {
		return fmt.Errorf("%w: raw default sample type %v", ErrUnsupportedDataFormat, rd.SampleType)
	}

	stateMu.Lock()
	rawDef = rd
	stateMu.Unlock()
	return nil
}

// RawDefaultsValue returns the current raw interpretation.
func RawDefaultsValue() RawDefaults {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return rawDef
}

// SetWriteHook installs h; nil removes it.
func SetWriteHook(h WriteHook) {
	stateMu.Lock()
	writeHook = h
	stateMu.Unlock()
}

func notifyWrite(path string, d *Descriptor) {
	stateMu.RLock()
	h := writeHook
	stateMu.RUnlock()
	if h != nil {
		h(path, d)
	}
}
