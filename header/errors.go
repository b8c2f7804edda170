// SPDX-License-Identifier: EPL-2.0

package header

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies header engine failures.
type Kind int

const (
	KindHeaderReadFailed Kind = iota + 1
	KindUnsupportedHeaderType
	KindUnsupportedDataFormat
	KindCantOpenFile
	KindReadError
	KindWriteError
	KindBadSize
	KindCantConvert
)

var kindNames = map[Kind]string{
	KindHeaderReadFailed:      "header read failed",
	KindUnsupportedHeaderType: "unsupported header type",
	KindUnsupportedDataFormat: "unsupported data format",
	KindCantOpenFile:          "can't open file",
	KindReadError:             "read error",
	KindWriteError:            "write error",
	KindBadSize:               "bad size",
	KindCantConvert:           "can't convert",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("header.Kind(%d)", int(k))
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrHeaderReadFailed      = errors.New(KindHeaderReadFailed.String())
	ErrUnsupportedHeaderType = errors.New(KindUnsupportedHeaderType.String())
	ErrUnsupportedDataFormat = errors.New(KindUnsupportedDataFormat.String())
	ErrCantOpenFile          = errors.New(KindCantOpenFile.String())
	ErrReadError             = errors.New(KindReadError.String())
	ErrWriteError            = errors.New(KindWriteError.String())
	ErrBadSize               = errors.New(KindBadSize.String())
	ErrCantConvert           = errors.New(KindCantConvert.String())
)

// Sentinel returns the sentinel error of k.
func (k Kind) Sentinel() error {
	switch k {
	case KindHeaderReadFailed:
		return ErrHeaderReadFailed
	case KindUnsupportedHeaderType:
		return ErrUnsupportedHeaderType
	case KindUnsupportedDataFormat:
		return ErrUnsupportedDataFormat
	case KindCantOpenFile:
		return ErrCantOpenFile
	case KindReadError:
		return ErrReadError
	case KindWriteError:
		return ErrWriteError
	case KindBadSize:
		return ErrBadSize
	case KindCantConvert:
		return ErrCantConvert
	}
	return nil
}

// Error is the structured error returned by parsers, writers and mutations.
type Error struct {
	Kind   Kind
	Path   string
	Type   Type
	Reason string
	Offset int64 // -1 when no byte offset applies
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Type != Unsupported {
		b.WriteString(" (")
		b.WriteString(e.Type.Name())
		b.WriteString(")")
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

func newError(k Kind, path string, t Type, reason string, args ...any) *Error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &Error{Kind: k, Path: path, Type: t, Reason: reason, Offset: -1}
}

func wrapError(k Kind, path string, t Type, err error, reason string, args ...any) *Error {
	e := newError(k, path, t, reason, args...)
	e.Err = err
	return e
}

func readFailed(path string, t Type, reason string, args ...any) *Error {
	return newError(KindHeaderReadFailed, path, t, reason, args...)
}

func (e *Error) at(off int64) *Error {
	e.Offset = off
	return e
}
