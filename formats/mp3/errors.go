// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrInvalidStream is returned when go-mp3 cannot find an MPEG frame.
var ErrInvalidStream = errors.New("invalid mp3 stream")
