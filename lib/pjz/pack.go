// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"fmt"
	"os"
	"path/filepath"
)

// PackOptions controls Pack behavior beyond the metadata record. The
// zero value packs with zstd at DefaultCompressionLevel and no extra
// side-file.
type PackOptions struct {
	// ExtraFile is an optional path to a JSON file (comments and
	// trailing commas tolerated) whose parsed content replaces the
	// record's extension value wholesale.
	ExtraFile string

	// Level is the compression level on the zstd scale. Zero means
	// DefaultCompressionLevel. Codecs without a level knob ignore it.
	Level int

	// Compression selects the payload codec.
	Compression Compression
}

// Pack bundles sourceDir and meta into a container at outputFile. The
// source directory is checked before anything is created, so a bad
// source produces no partial outputs. The destination's parent
// directories are created and an existing destination is overwritten.
// Concurrent packs to the same destination are not coordinated — the
// last writer wins — and a failure mid-write may leave a truncated
// file behind.
func Pack(sourceDir, outputFile string, meta Metadata, options PackOptions) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, sourceDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, sourceDir)
	}

	if options.ExtraFile != "" {
		extra, err := loadExtraFile(options.ExtraFile)
		if err != nil {
			return err
		}
		meta = meta.WithExtra(extra)
	}

	encoded, err := encodeMetadata(meta)
	if err != nil {
		return err
	}

	level := options.Level
	if level == 0 {
		level = DefaultCompressionLevel
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fmt.Errorf("creating output parent directory: %w", err)
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFile, err)
	}
	defer file.Close()

	if err := writeHeader(file, encoded); err != nil {
		return err
	}

	compressor, err := newPayloadWriter(file, options.Compression, level)
	if err != nil {
		return err
	}
	if err := writeArchive(compressor, sourceDir); err != nil {
		compressor.Close()
		return fmt.Errorf("archiving %s: %w", sourceDir, err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("finalizing compression: %w", err)
	}

	// Close explicitly so write-back errors surface; the deferred
	// close becomes a no-op.
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputFile, err)
	}
	return nil
}
