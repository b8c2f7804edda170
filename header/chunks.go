// SPDX-License-Identifier: EPL-2.0

package header

import (
	"github.com/ik5/sndkit/internal/byteorder"
	"github.com/ik5/sndkit/internal/logger"
)

// chunk is one (tag, size) record of a chunked container.
type chunk struct {
	id    string
	size  int64 // declared data size, -1 when the container says "to end of file"
	start int64 // offset of the chunk header
	data  int64 // offset of the chunk data
}

func (c chunk) end() int64 { return c.data + c.size }

type walkOpts struct {
	order byteorder.Order
	wide  bool  // 8-byte size fields
	align int64 // chunk sizes are padded up to a multiple of align
}

var (
	iffWalk  = walkOpts{order: byteorder.BigEndian, align: 2}
	riffWalk = walkOpts{order: byteorder.LittleEndian, align: 2}
	rifxWalk = walkOpts{order: byteorder.BigEndian, align: 2}
	caffWalk = walkOpts{order: byteorder.BigEndian, wide: true, align: 1}
)

// walkChunks visits chunks from off until fn asks to stop or the chunk list
// ends. An all-zero tag with size 0 ends the list. A negative size is passed
// to fn once and then ends the walk. Chunks reaching past the end of the file
// are still visited so the caller can clamp.
func walkChunks(in *Input, off int64, o walkOpts, fn func(c chunk) (stop bool, err error)) error {
	hdr := int64(8)
	if o.wide {
		hdr = 12
	}
	var b [12]byte
	size := in.Size()

	for off+hdr <= size {
		if err := in.ReadAt(b[:hdr], off, "chunk header"); err != nil {
			return err
		}
		c := chunk{id: string(b[:4]), start: off, data: off + hdr}
		if o.wide {
			c.size = o.order.Int64(b[4:12])
		} else {
			c.size = int64(o.order.Uint32(b[4:8]))
		}

		if c.size == 0 && b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0 {
			return nil
		}
		if c.size < 0 {
			c.size = -1
			_, err := fn(c)
			return err
		}

		stop, err := fn(c)
		if err != nil || stop {
			return err
		}

		next := c.end()
		if o.align > 1 && c.size%o.align != 0 {
			next += o.align - c.size%o.align
		}
		if next > size && c.end() < size {
			logger.Debug("chunk padding byte missing", "path", in.Path(), "chunk", c.id, "offset", c.start)
		}
		if next <= off {
			return nil
		}
		off = next
	}
	return nil
}

// pstring reads a Pascal string (length byte + text) from b, returning the
// text and the padded length it occupies.
func pstring(b []byte) (string, int) {
	if len(b) == 0 {
		return "", 0
	}
	n := int(b[0])
	if 1+n > len(b) {
		n = len(b) - 1
	}
	used := 1 + n
	if used%2 != 0 {
		used++
	}
	return string(b[1 : 1+n]), used
}

// fourcc packs a 4-byte tag into an int, big-endian.
func fourcc(s string) int {
	if len(s) < 4 {
		return 0
	}
	return int(s[0])<<24 | int(s[1])<<16 | int(s[2])<<8 | int(s[3])
}

// textRange returns [start, end) clamped to the file, cut at the first NUL
// and with trailing blanks removed.
func (in *Input) textRange(start, end int64) Range {
	if end > in.Size() {
		end = in.Size()
	}
	if start < 0 || end <= start {
		return Range{}
	}
	b, err := in.Bytes(start, int(end-start), "comment")
	if err != nil {
		return Range{}
	}
	n := len(b)
	for i, c := range b {
		if c == 0 {
			n = i
			break
		}
	}
	for n > 0 && (b[n-1] == ' ' || b[n-1] == '\n' || b[n-1] == '\r') {
		n--
	}
	if n == 0 {
		return Range{}
	}
	return Range{Start: start, End: start + int64(n)}
}
