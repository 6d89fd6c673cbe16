package ptau

import (
	"encoding/binary"
	"fmt"
	"io"
)

// readAt fills buf from the byte source at the given offset. It is the
// single point through which all payload reads go, so a caller-supplied
// io.ReaderAt sees exactly one call per decoded value.
func (f *File) readAt(buf []byte, off int64) error {
	if off < 0 || off+int64(len(buf)) > f.size {
		return fmt.Errorf("%w: need %d bytes at offset %d, file size %d",
			ErrTruncated, len(buf), off, f.size)
	}
	if _, err := f.r.ReadAt(buf, off); err != nil && err != io.EOF {
		return fmt.Errorf("error reading %d bytes at offset %d: %v", len(buf), off, err)
	}
	return nil
}

func (f *File) u32At(off int64) (uint32, error) {
	var buf [4]byte
	if err := f.readAt(buf[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (f *File) i64At(off int64) (int64, error) {
	var buf [8]byte
	if err := f.readAt(buf[:], off); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func (f *File) bytesAt(off int64, n int64) ([]byte, error) {
	buf := make([]byte, n)
	if err := f.readAt(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// cursor is a forward reader bounded to one section's byte range. Reads
// past end fail with ErrTruncated even when the file itself has more
// bytes, so a record can never leak into the next section.
type cursor struct {
	f   *File
	off int64
	end int64
}

func (f *File) sectionCursor(s Section) *cursor {
	return &cursor{f: f, off: s.Offset, end: s.Offset + s.Size}
}

func (c *cursor) remaining() int64 { return c.end - c.off }

func (c *cursor) bytes(n int64) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes, %d left in section",
			ErrTruncated, n, c.remaining())
	}
	buf, err := c.f.bytesAt(c.off, n)
	if err != nil {
		return nil, err
	}
	c.off += n
	return buf, nil
}

func (c *cursor) u32() (uint32, error) {
	buf, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}
