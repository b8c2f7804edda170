// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream is returned when the Ogg stream holds no Vorbis audio.
var ErrInvalidStream = errors.New("invalid ogg vorbis stream")
