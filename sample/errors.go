// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	// ErrUnknownType is returned for Unknown or out-of-range encodings.
	ErrUnknownType = errors.New("unknown sample type")

	// ErrShortBuffer is returned when a destination cannot hold the result.
	ErrShortBuffer = errors.New("buffer too short")

	// ErrChannelMismatch is returned when planar buffers disagree with the channel count.
	ErrChannelMismatch = errors.New("channel buffers do not match channel count")
)
