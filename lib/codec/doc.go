// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// container metadata.
//
// pjz uses two serialization formats with a clear boundary:
//
//   - CBOR for the container header: the metadata record embedded in
//     a .pjz file's header blocks.
//   - JSON for everything user-facing: the metadata.json sidecar, the
//     info command's output file, and the extra side-file supplied at
//     pack time.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so repacking unchanged metadata yields an identical header.
//
// Metadata types carry `json` struct tags only. fxamacker/cbor v2 reads
// `json` tags as fallback when `cbor` tags are absent, so a single tag
// controls field naming for both the header encoding and the sidecar.
//
// The decoder converts integers to int64 and any-typed maps to
// map[string]any, matching what encoding/json (with UseNumber plus the
// number conversion in lib/pjz) produces from the extra side-file. A
// value attached at pack time and a value decoded from the header
// therefore compare equal structurally.
package codec
