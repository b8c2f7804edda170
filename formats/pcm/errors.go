// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"fmt"

	"github.com/ik5/sndkit/header"
)

var (
	// ErrUnsupportedType is returned for descriptors whose samples the
	// sample codec cannot decode.
	ErrUnsupportedType = fmt.Errorf("%w: no PCM codec", header.ErrUnsupportedDataFormat)

	// ErrBadDescriptor is returned for descriptors without channels or rate.
	ErrBadDescriptor = errors.New("descriptor has no channels or sample rate")
)
