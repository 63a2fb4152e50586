package tds

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStreamReader_Primitives(t *testing.T) {
	data := []byte{
		0x2a,                   // uint8
		0xfe, 0xff,             // int16 -2
		0x39, 0x30,             // uint16 12345
		0x40, 0xe2, 0x01, 0x00, // int32 123456
		0x00, 0x00, 0x80, 0x3f, // float32 1.0
	}
	r := newStreamReader(bytes.NewReader(data))

	b, err := r.readUint8()
	if err != nil || b != 0x2a {
		t.Errorf("readUint8 = %d, %v; want 42, nil", b, err)
	}
	i16, err := r.readInt16()
	if err != nil || i16 != -2 {
		t.Errorf("readInt16 = %d, %v; want -2, nil", i16, err)
	}
	u16v, err := r.readUint16()
	if err != nil || u16v != 12345 {
		t.Errorf("readUint16 = %d, %v; want 12345, nil", u16v, err)
	}
	i32, err := r.readInt32()
	if err != nil || i32 != 123456 {
		t.Errorf("readInt32 = %d, %v; want 123456, nil", i32, err)
	}
	f, err := r.readFloat32()
	if err != nil || f != 1.0 {
		t.Errorf("readFloat32 = %f, %v; want 1.0, nil", f, err)
	}
}

func TestStreamReader_Truncation(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *streamReader) error
	}{
		{"uint8 empty", nil, func(r *streamReader) error { _, err := r.readUint8(); return err }},
		{"int16 short", []byte{1}, func(r *streamReader) error { _, err := r.readInt16(); return err }},
		{"int32 short", []byte{1, 2, 3}, func(r *streamReader) error { _, err := r.readInt32(); return err }},
		{"float32 short", []byte{1, 2, 3}, func(r *streamReader) error { _, err := r.readFloat32(); return err }},
		{"uint32 short", []byte{1, 2}, func(r *streamReader) error { _, err := r.readUint32(); return err }},
		{"skip past end", []byte{1, 2}, func(r *streamReader) error { return r.skip(3) }},
		{"string unterminated", []byte("abc"), func(r *streamReader) error { _, _, err := r.readString(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(newStreamReader(bytes.NewReader(tt.data)))
			if !errors.Is(err, ErrTruncatedData) {
				t.Errorf("got %v, want ErrTruncatedData", err)
			}
		})
	}
}

func TestStreamReader_ReadString(t *testing.T) {
	r := newStreamReader(bytes.NewReader([]byte("Box01\x00rest")))

	s, n, err := r.readString()
	if err != nil {
		t.Fatalf("readString failed: %v", err)
	}
	if s != "Box01" {
		t.Errorf("string = %q, want %q", s, "Box01")
	}
	if n != 6 {
		t.Errorf("consumed = %d, want 6", n)
	}

	// The reader must stop exactly at the terminator.
	next, err := r.readUint8()
	if err != nil || next != 'r' {
		t.Errorf("next byte = %c, %v; want 'r', nil", next, err)
	}
}

func TestStreamReader_ReadStringEmpty(t *testing.T) {
	r := newStreamReader(bytes.NewReader([]byte{0}))
	s, n, err := r.readString()
	if err != nil || s != "" || n != 1 {
		t.Errorf("got %q, %d, %v; want \"\", 1, nil", s, n, err)
	}
}

func TestStreamReader_ReadStringCap(t *testing.T) {
	// Terminator as the 1024th byte: exactly at the cap, still valid.
	data := strings.Repeat("a", maxStringLength-1) + "\x00"
	r := newStreamReader(strings.NewReader(data))
	s, n, err := r.readString()
	if err != nil {
		t.Fatalf("readString at cap failed: %v", err)
	}
	if len(s) != maxStringLength-1 || n != maxStringLength {
		t.Errorf("len = %d, consumed = %d; want %d, %d", len(s), n, maxStringLength-1, maxStringLength)
	}

	// 1024 bytes with no terminator: rejected even if more data follows.
	data = strings.Repeat("a", maxStringLength) + "\x00"
	r = newStreamReader(strings.NewReader(data))
	if _, _, err := r.readString(); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("got %v, want ErrStringTooLong", err)
	}
}

func TestStreamReader_Skip(t *testing.T) {
	r := newStreamReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	if err := r.skip(4); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	b, err := r.readUint8()
	if err != nil || b != 5 {
		t.Errorf("byte after skip = %d, %v; want 5, nil", b, err)
	}
	if err := r.skip(0); err != nil {
		t.Errorf("zero skip failed: %v", err)
	}
}
