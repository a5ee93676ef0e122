// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/pjz/lib/codec"
)

// Container format constants.
const (
	// MaxMetadataSize caps the encoded metadata carried by a
	// container's header blocks, enforced on encode and again while
	// scanning (before each fragment is read, using the announced
	// length). Changing it breaks container compatibility.
	MaxMetadataSize = 10 << 20

	// metadataFrameMagic is the header block magic Pack writes: the
	// first value of the zstd skippable-frame window. zstd tooling
	// skips frames with any magic in the window, which is what makes
	// a .pjz file a valid zstd stream.
	metadataFrameMagic = 0x184D2A50

	// skippableMagicMin and skippableMagicMax bound the window a
	// reader accepts. Writers pin the first value; readers take all
	// sixteen.
	skippableMagicMin = 0x184D2A50
	skippableMagicMax = 0x184D2A5F
)

// encodeMetadata serializes the record for the header and applies the
// size rule: an empty or oversized encoding is rejected before any
// output is written.
func encodeMetadata(meta Metadata) ([]byte, error) {
	encoded, err := codec.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	if len(encoded) == 0 || len(encoded) > MaxMetadataSize {
		return nil, fmt.Errorf("%w: encoded metadata is %d bytes", ErrMetadataLength, len(encoded))
	}
	return encoded, nil
}

// writeHeader emits a single header block: magic, fragment length,
// fragment. Pack writes the whole encoding as one block; readers must
// accept any number of blocks.
func writeHeader(w io.Writer, encoded []byte) error {
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], metadataFrameMagic)
	if _, err := w.Write(word[:]); err != nil {
		return fmt.Errorf("writing header magic: %w", err)
	}
	binary.LittleEndian.PutUint32(word[:], uint32(len(encoded)))
	if _, err := w.Write(word[:]); err != nil {
		return fmt.Errorf("writing header length: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("writing header metadata: %w", err)
	}
	return nil
}

// readHeaderBlob scans header blocks from the current position and
// concatenates their fragments into one metadata blob. The scan stops
// at the first 4 bytes outside the magic window (rewinding so the
// reader is positioned at the payload start) or at clean EOF (a
// metadata-only container). An empty file, a first magic outside the
// window, a block truncated mid-frame, or a scan that collects zero
// bytes is ErrInvalidHeader.
func readHeaderBlob(r io.ReadSeeker) ([]byte, error) {
	var blob []byte
	for {
		var word [4]byte
		if _, err := io.ReadFull(r, word[:]); err != nil {
			if err == io.EOF && len(blob) > 0 {
				break
			}
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrInvalidHeader
			}
			return nil, fmt.Errorf("reading header magic: %w", err)
		}
		magic := binary.LittleEndian.Uint32(word[:])
		if magic < skippableMagicMin || magic > skippableMagicMax {
			// Not a header block: this is the payload. Rewind so the
			// caller reads it from the first byte.
			if _, err := r.Seek(-4, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("rewinding to payload start: %w", err)
			}
			break
		}

		if _, err := io.ReadFull(r, word[:]); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrInvalidHeader
			}
			return nil, fmt.Errorf("reading header length: %w", err)
		}
		length := binary.LittleEndian.Uint32(word[:])

		if len(blob)+int(length) > MaxMetadataSize {
			return nil, fmt.Errorf("%w: %d byte header block exceeds the %d byte limit",
				ErrMetadataLength, length, MaxMetadataSize)
		}

		fragment := make([]byte, length)
		if _, err := io.ReadFull(r, fragment); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrInvalidHeader
			}
			return nil, fmt.Errorf("reading header metadata: %w", err)
		}
		blob = append(blob, fragment...)
	}

	if len(blob) == 0 {
		return nil, ErrInvalidHeader
	}
	return blob, nil
}

// ReadHeader reads the metadata record from a container stream. The
// reader must be positioned at the start of the container. On return
// the stream is positioned at the payload start, or at EOF for a
// metadata-only container.
func ReadHeader(r io.ReadSeeker, policy UnknownFieldPolicy) (Metadata, error) {
	blob, err := readHeaderBlob(r)
	if err != nil {
		return Metadata{}, err
	}
	return decodeMetadata(blob, policy)
}
