// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"errors"

	"github.com/ik5/sndkit/header"
)

// Error is the structured error of the header engine.
type Error = header.Error

// Header engine sentinels, matched with errors.Is.
var (
	ErrHeaderReadFailed      = header.ErrHeaderReadFailed
	ErrUnsupportedHeaderType = header.ErrUnsupportedHeaderType
	ErrUnsupportedDataFormat = header.ErrUnsupportedDataFormat
	ErrCantOpenFile          = header.ErrCantOpenFile
	ErrReadError             = header.ErrReadError
	ErrWriteError            = header.ErrWriteError
	ErrBadSize               = header.ErrBadSize
	ErrCantConvert           = header.ErrCantConvert
)

var (
	// ErrClosed is returned by operations on a closed handle.
	ErrClosed = errors.New("handle is closed")

	// ErrReadOnly is returned by WriteFrames on a handle opened with Open.
	ErrReadOnly = errors.New("handle is read-only")

	// ErrFrameRange is returned for a negative start frame or a read that
	// starts past the end.
	ErrFrameRange = errors.New("frame range out of bounds")

	// ErrChannelCount is returned when the buffers passed to ReadFrames or
	// WriteFrames do not match the file's channel count.
	ErrChannelCount = errors.New("channel buffers do not match file")
)
