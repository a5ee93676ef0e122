// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression identifies the payload codec. Containers never record
// the codec: readers sniff it from the payload's own magic bytes, so
// these values are API constants only, free to reorder.
type Compression uint8

const (
	// CompressionZstd is the default payload codec: streaming zstd,
	// level on the standard zstd scale.
	CompressionZstd Compression = iota

	// CompressionLZ4 is the lz4 frame format. Faster than zstd with
	// lower ratios; levels 1-9 map onto the lz4 level range (0 is the
	// fast path).
	CompressionLZ4

	// CompressionXZ is the xz stream format. Best ratios, slowest.
	// The level option is ignored; xz runs its default preset.
	CompressionXZ
)

// DefaultCompressionLevel is the zstd-scale level used when
// PackOptions.Level is zero.
const DefaultCompressionLevel = 6

// String returns the human-readable name of a codec.
func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionXZ:
		return "xz"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a codec from its string representation.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "xz":
		return CompressionXZ, nil
	default:
		return 0, fmt.Errorf("unknown compression codec: %q", name)
	}
}

// Payload stream signatures, as the bytes appear on the wire.
var (
	zstdFrameMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4D, 0x18}
	xzStreamMagic  = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

// newPayloadWriter wraps w in a streaming compressor for the given
// codec. The caller must Close the returned writer to flush the final
// frame before closing w.
func newPayloadWriter(w io.Writer, compression Compression, level int) (io.WriteCloser, error) {
	switch compression {
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return encoder, nil

	case CompressionLZ4:
		writer := lz4.NewWriter(w)
		if err := writer.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
			return nil, fmt.Errorf("configuring lz4 writer: %w", err)
		}
		return writer, nil

	case CompressionXZ:
		writer, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating xz writer: %w", err)
		}
		return writer, nil

	default:
		return nil, fmt.Errorf("unsupported compression codec: %d", compression)
	}
}

// lz4Levels maps the zstd-scale level onto the lz4 level range.
var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

func lz4Level(level int) lz4.CompressionLevel {
	if level < 0 {
		level = 0
	}
	if level >= len(lz4Levels) {
		level = len(lz4Levels) - 1
	}
	return lz4Levels[level]
}

// newPayloadReader sniffs the payload's codec from its magic bytes
// and returns a reader producing the raw tar stream. rs must be
// positioned at the payload start (where readHeaderBlob leaves it); a
// payload with no bytes at all is an error so that metadata-only
// containers fail extraction rather than extracting nothing.
func newPayloadReader(rs io.ReadSeeker) (io.ReadCloser, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating payload start: %w", err)
	}

	magic := make([]byte, len(xzStreamMagic))
	n, err := io.ReadFull(rs, magic)
	if err != nil && err != io.EOF && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading payload magic: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("reading payload magic: %w", io.ErrUnexpectedEOF)
	}
	magic = magic[:n]

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding to payload start: %w", err)
	}

	switch {
	case bytes.HasPrefix(magic, lz4FrameMagic):
		return io.NopCloser(lz4.NewReader(rs)), nil

	case bytes.HasPrefix(magic, xzStreamMagic):
		reader, err := xz.NewReader(rs)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(reader), nil

	default:
		// zstd, and anything unrecognized. Handing garbage to the
		// zstd reader keeps the error behavior of containers that
		// predate codec selection, which were always zstd.
		decoder, err := zstd.NewReader(rs)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), nil
	}
}
