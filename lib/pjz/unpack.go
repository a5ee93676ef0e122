// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SidecarName is the filename of the JSON metadata sidecar Unpack
// writes next to the output directory.
const SidecarName = "metadata.json"

// ReadMetadata opens a container file and reads its metadata record.
// The payload is never touched.
func ReadMetadata(inputFile string, policy UnknownFieldPolicy) (Metadata, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", inputFile, err)
	}
	defer file.Close()

	return ReadHeader(file, policy)
}

// Unpack extracts a container into outputDir (created along with its
// parents) and writes the metadata sidecar. The sidecar goes into the
// parent of outputDir — a sibling of the extracted tree, never inside
// it — so the payload's own files can never collide with it.
func Unpack(inputFile, outputDir string, policy UnknownFieldPolicy) (Metadata, error) {
	outputDir = filepath.Clean(outputDir)

	file, err := os.Open(inputFile)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", inputFile, err)
	}
	defer file.Close()

	meta, err := ReadHeader(file, policy)
	if err != nil {
		return Metadata{}, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Metadata{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	payload, err := newPayloadReader(file)
	if err != nil {
		return Metadata{}, err
	}
	defer payload.Close()

	if err := extractArchive(payload, outputDir); err != nil {
		return Metadata{}, fmt.Errorf("extracting archive: %w", err)
	}

	sidecar := filepath.Join(filepath.Dir(outputDir), SidecarName)
	if err := writeMetadataJSON(sidecar, meta); err != nil {
		return Metadata{}, err
	}

	return meta, nil
}

// Info reads a container's metadata and writes its JSON projection to
// outputJSON, creating parent directories as needed. The payload is
// never decompressed.
func Info(inputFile, outputJSON string, policy UnknownFieldPolicy) (Metadata, error) {
	meta, err := ReadMetadata(inputFile, policy)
	if err != nil {
		return Metadata{}, err
	}

	if err := os.MkdirAll(filepath.Dir(outputJSON), 0o755); err != nil {
		return Metadata{}, fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeMetadataJSON(outputJSON, meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// writeMetadataJSON writes the pretty-printed JSON projection of a
// record. Absent identity fields appear as explicit nulls.
func writeMetadataJSON(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
