// SPDX-License-Identifier: EPL-2.0

package header

import (
	"strconv"
	"strings"
)

const (
	textWindow   = 256
	maxFieldName = 64
	maxLineLen   = 4096
)

// lineScanner hands out newline or NUL terminated lines from [start, limit),
// refilling from the file one window at a time.
type lineScanner struct {
	in    *Input
	t     Type
	base  int64 // file offset of buf[0]
	buf   []byte
	pos   int
	limit int64
}

func newLineScanner(in *Input, t Type, start, limit int64) *lineScanner {
	if limit > in.Size() || limit <= 0 {
		limit = in.Size()
	}
	return &lineScanner{in: in, t: t, base: start, limit: limit}
}

// offset is the file position of the next unread byte.
func (s *lineScanner) offset() int64 { return s.base + int64(s.pos) }

func (s *lineScanner) fill() (bool, error) {
	next := s.base + int64(len(s.buf))
	if next >= s.limit {
		return false, nil
	}
	n := int64(textWindow)
	if next+n > s.limit {
		n = s.limit - next
	}
	b, err := s.in.Bytes(next, int(n), s.t.Name()+" header text")
	if err != nil {
		return false, err
	}
	s.base, s.buf, s.pos = next, b, 0
	return true, nil
}

// next returns the next line without its terminator; ok is false at the end.
func (s *lineScanner) next() (line string, ok bool, err error) {
	var acc []byte
	for {
		if s.pos >= len(s.buf) {
			more, err := s.fill()
			if err != nil {
				return "", false, err
			}
			if !more {
				return string(acc), len(acc) > 0, nil
			}
		}
		c := s.buf[s.pos]
		s.pos++
		if c == '\n' || c == 0 {
			return strings.TrimRight(string(acc), "\r"), true, nil
		}
		if len(acc) >= maxLineLen {
			return "", false, s.in.fail(s.t, "header line longer than %d bytes", maxLineLen).at(s.offset())
		}
		acc = append(acc, c)
	}
}

// field splits a line on the first space into name and value.
func (s *lineScanner) field(line string) (name, value string, err error) {
	line = strings.TrimLeft(line, " \t")
	name, value, _ = strings.Cut(line, " ")
	if len(name) > maxFieldName {
		return "", "", s.in.fail(s.t, "field name %.20q... longer than %d bytes", name, maxFieldName).at(s.offset())
	}
	return name, strings.TrimSpace(value), nil
}

// typedValue strips a NIST style type tag: "-i 16000", "-r 1.0", "-s2 01".
func typedValue(v string) string {
	if !strings.HasPrefix(v, "-") {
		return v
	}
	tag, rest, _ := strings.Cut(v, " ")
	if strings.HasPrefix(tag, "-s") {
		if n, err := strconv.Atoi(tag[2:]); err == nil && n >= 0 && n <= len(rest) {
			return rest[:n]
		}
	}
	return strings.TrimSpace(rest)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			return int(f + 0.5)
		}
		return 0
	}
	return n
}
