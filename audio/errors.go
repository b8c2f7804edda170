// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrNoDecoder is returned when no decoder handles a container type.
	ErrNoDecoder = errors.New("no decoder for container type")

	// ErrBadChannels is returned for a non-positive channel count.
	ErrBadChannels = errors.New("channel count must be positive")

	// ErrBadRate is returned for a non-positive sample rate.
	ErrBadRate = errors.New("sample rate must be positive")
)
