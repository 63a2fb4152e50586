package tds

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// maxStringLength caps NUL-terminated strings, terminator included.
const maxStringLength = 1024

// streamReader decodes little-endian primitives from a forward-only stream.
type streamReader struct {
	r   io.Reader
	buf [4]byte
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

// read fills the scratch buffer with exactly n bytes.
func (s *streamReader) read(n int) ([]byte, error) {
	b := s.buf[:n]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}
	return b, nil
}

func (s *streamReader) readUint8() (uint8, error) {
	b, err := s.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *streamReader) readInt16() (int16, error) {
	b, err := s.read(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (s *streamReader) readUint16() (uint16, error) {
	b, err := s.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *streamReader) readInt32() (int32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (s *streamReader) readUint32() (uint32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *streamReader) readFloat32() (float32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// readString reads a NUL-terminated string and returns it together with the
// number of bytes consumed, terminator included.
func (s *streamReader) readString() (string, int32, error) {
	var sb strings.Builder
	for n := int32(0); n < maxStringLength; n++ {
		c, err := s.readUint8()
		if err != nil {
			return "", 0, err
		}
		if c == 0 {
			return sb.String(), n + 1, nil
		}
		sb.WriteByte(c)
	}
	return "", 0, ErrStringTooLong
}

// skip discards exactly n bytes from the stream.
func (s *streamReader) skip(n int32) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, s.r, int64(n)); err != nil {
		return fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}
	return nil
}
