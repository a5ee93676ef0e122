// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

// frame assembles one header block by hand: magic, little-endian
// length, fragment. Tests use it to build containers that Pack never
// writes (alternate magics, split blobs, zero-length blocks).
func frame(magic uint32, fragment []byte) []byte {
	block := make([]byte, 8+len(fragment))
	binary.LittleEndian.PutUint32(block[0:], magic)
	binary.LittleEndian.PutUint32(block[4:], uint32(len(fragment)))
	copy(block[8:], fragment)
	return block
}

func mustEncode(t *testing.T, meta Metadata) []byte {
	t.Helper()
	encoded, err := encodeMetadata(meta)
	if err != nil {
		t.Fatalf("encodeMetadata failed: %v", err)
	}
	return encoded
}

func TestHeaderRoundtrip(t *testing.T) {
	meta := NewMetadata("widget", "someone", "app", "", "1.0.0", "a widget")

	var buffer bytes.Buffer
	if err := writeHeader(&buffer, mustEncode(t, meta)); err != nil {
		t.Fatalf("writeHeader failed: %v", err)
	}
	buffer.WriteString("payload bytes")

	reader := bytes.NewReader(buffer.Bytes())
	decoded, err := ReadHeader(reader, UnknownIgnore)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if !decoded.Equal(meta) {
		t.Errorf("decoded = %+v, want %+v", decoded, meta)
	}

	// The reader must sit at the payload start.
	rest, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if string(rest) != "payload bytes" {
		t.Errorf("stream after header = %q, want %q", rest, "payload bytes")
	}
}

func TestWriteHeaderWireLayout(t *testing.T) {
	var buffer bytes.Buffer
	// 0xa0 is an empty CBOR map; the exact fragment content doesn't
	// matter for the layout check.
	if err := writeHeader(&buffer, []byte{0xa0}); err != nil {
		t.Fatalf("writeHeader failed: %v", err)
	}

	want := []byte{
		0x50, 0x2a, 0x4d, 0x18, // skippable frame magic, little-endian
		0x01, 0x00, 0x00, 0x00, // fragment length, little-endian
		0xa0,
	}
	if !bytes.Equal(buffer.Bytes(), want) {
		t.Errorf("wire bytes = % x, want % x", buffer.Bytes(), want)
	}
}

func TestReadHeaderMultipleBlocks(t *testing.T) {
	// A blob split across blocks decodes the same as a single block:
	// the split point may fall mid-CBOR-item, so concatenation must
	// happen before any decoding.
	meta := NewMetadata("split", "", "", "", "2.0.0", "")
	encoded := mustEncode(t, meta)
	split := len(encoded) / 2

	var buffer bytes.Buffer
	buffer.Write(frame(0x184D2A50, encoded[:split]))
	buffer.Write(frame(0x184D2A5C, encoded[split:]))
	buffer.WriteString("tar bytes")

	reader := bytes.NewReader(buffer.Bytes())
	decoded, err := ReadHeader(reader, UnknownIgnore)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if !decoded.Equal(meta) {
		t.Errorf("decoded = %+v, want %+v", decoded, meta)
	}

	rest, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if string(rest) != "tar bytes" {
		t.Errorf("stream after header = %q, want %q", rest, "tar bytes")
	}
}

func TestReadHeaderAcceptsWholeMagicWindow(t *testing.T) {
	// Pack pins the first magic, but readers take all sixteen values
	// of the skippable window.
	encoded := mustEncode(t, NewMetadata("any", "", "", "", "", ""))

	for magic := uint32(0x184D2A50); magic <= 0x184D2A5F; magic++ {
		decoded, err := ReadHeader(bytes.NewReader(frame(magic, encoded)), UnknownIgnore)
		if err != nil {
			t.Fatalf("ReadHeader with magic 0x%08X failed: %v", magic, err)
		}
		if decoded.Name == nil || *decoded.Name != "any" {
			t.Errorf("magic 0x%08X: name not decoded", magic)
		}
	}
}

func TestReadHeaderZeroLengthBlocks(t *testing.T) {
	// Zero-length blocks contribute nothing but are legal as long as
	// some block carries bytes.
	encoded := mustEncode(t, NewMetadata("padded", "", "", "", "", ""))

	var buffer bytes.Buffer
	buffer.Write(frame(0x184D2A51, nil))
	buffer.Write(frame(0x184D2A50, encoded))
	buffer.Write(frame(0x184D2A5F, nil))

	decoded, err := ReadHeader(bytes.NewReader(buffer.Bytes()), UnknownIgnore)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if decoded.Name == nil || *decoded.Name != "padded" {
		t.Error("name not decoded through zero-length blocks")
	}
}

func TestReadHeaderMetadataOnly(t *testing.T) {
	// Clean EOF after the last block is a metadata-only container,
	// not a truncation.
	meta := NewMetadata("bare", "", "", "", "0.1.0", "")
	raw := frame(0x184D2A50, mustEncode(t, meta))

	decoded, err := ReadHeader(bytes.NewReader(raw), UnknownIgnore)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if !decoded.Equal(meta) {
		t.Errorf("decoded = %+v, want %+v", decoded, meta)
	}
}

func TestReadHeaderEmptyInput(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(nil), UnknownIgnore)
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("error = %v, want ErrInvalidHeader", err)
	}
}

func TestReadHeaderForeignMagic(t *testing.T) {
	// First bytes outside the window: not a container at all.
	_, err := ReadHeader(bytes.NewReader([]byte("PK\x03\x04 definitely a zip")), UnknownIgnore)
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("error = %v, want ErrInvalidHeader", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	encoded := mustEncode(t, NewMetadata("cut", "", "", "", "", ""))
	whole := frame(0x184D2A50, encoded)

	tests := []struct {
		name string
		raw  []byte
	}{
		{"magic only", whole[:4]},
		{"partial length", whole[:6]},
		{"no fragment", whole[:8]},
		{"partial fragment", whole[:len(whole)-3]},
		{"only zero-length blocks", frame(0x184D2A50, nil)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(test.raw), UnknownIgnore)
			if !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("error = %v, want ErrInvalidHeader", err)
			}
		})
	}
}

func TestReadHeaderSizeBound(t *testing.T) {
	// A block announcing more than the cap fails before its fragment
	// is read; there is no 10 MiB fragment behind the length here.
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint32(raw[0:], 0x184D2A50)
	binary.LittleEndian.PutUint32(raw[4:], MaxMetadataSize+1)

	_, err := ReadHeader(bytes.NewReader(raw), UnknownIgnore)
	if !errors.Is(err, ErrMetadataLength) {
		t.Errorf("error = %v, want ErrMetadataLength", err)
	}
}

func TestReadHeaderCumulativeSizeBound(t *testing.T) {
	// The cap applies to the collected total, not per block: a second
	// block that would push the sum over the limit is rejected.
	first := frame(0x184D2A50, bytes.Repeat([]byte{0xa0}, 100))

	second := make([]byte, 8)
	binary.LittleEndian.PutUint32(second[0:], 0x184D2A51)
	binary.LittleEndian.PutUint32(second[4:], MaxMetadataSize-50)

	raw := append(first, second...)
	_, err := ReadHeader(bytes.NewReader(raw), UnknownIgnore)
	if !errors.Is(err, ErrMetadataLength) {
		t.Errorf("error = %v, want ErrMetadataLength", err)
	}
}

func TestReadHeaderBlobCollects(t *testing.T) {
	var buffer bytes.Buffer
	buffer.Write(frame(0x184D2A50, []byte("abc")))
	buffer.Write(frame(0x184D2A5F, []byte("def")))
	buffer.WriteString("payload")

	reader := bytes.NewReader(buffer.Bytes())
	blob, err := readHeaderBlob(reader)
	if err != nil {
		t.Fatalf("readHeaderBlob failed: %v", err)
	}
	if string(blob) != "abcdef" {
		t.Errorf("blob = %q, want %q", blob, "abcdef")
	}

	rest, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if string(rest) != "payload" {
		t.Errorf("stream after scan = %q, want %q", rest, "payload")
	}
}

func TestEncodeMetadataSizeRule(t *testing.T) {
	big := strings.Repeat("x", MaxMetadataSize+1)
	meta := NewMetadata("huge", "", "", "", "", "").WithExtra(map[string]any{"blob": big})

	_, err := encodeMetadata(meta)
	if !errors.Is(err, ErrMetadataLength) {
		t.Errorf("error = %v, want ErrMetadataLength", err)
	}
}

// Benchmarks for header I/O. Run with:
//
//	go test ./lib/pjz -bench=BenchmarkHeader -benchmem -run='^$'

func BenchmarkHeaderRead(b *testing.B) {
	meta := NewMetadata("bench", "someone", "app", "2024", "3.1.4", "benchmark record")
	meta = meta.WithExtra(map[string]any{
		"build":   int64(42),
		"targets": []any{"linux", "darwin", "windows"},
	})
	encoded, err := encodeMetadata(meta)
	if err != nil {
		b.Fatal(err)
	}
	var buffer bytes.Buffer
	if err := writeHeader(&buffer, encoded); err != nil {
		b.Fatal(err)
	}
	raw := buffer.Bytes()

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ReadHeader(bytes.NewReader(raw), UnknownIgnore); err != nil {
			b.Fatal(err)
		}
	}
}
