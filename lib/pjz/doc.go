// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pjz implements the .pjz project container format: a
// compressed directory tree prefixed with a structured metadata
// header, readable by standard zstd tooling.
//
// A container is a sequence of header blocks followed by a compressed
// tar payload. Each header block is a zstd skippable frame — a 4-byte
// little-endian magic in the reserved window 0x184D2A50..0x184D2A5F, a
// 4-byte little-endian length, and that many bytes of CBOR-encoded
// metadata. Because the magic window is the one zstd reserves for
// skippable frames, a plain `zstd -d` of a .pjz file yields the tar
// payload and ignores the header entirely.
//
// The package is organized in layers, each usable independently:
//
//   - Framing: header block emission and the scan loop that collects
//     blocks until the payload begins. Multiple blocks concatenate
//     into one metadata blob; readers accept any magic in the window
//     and rewind to the payload start when the window ends.
//
//   - Metadata: the record of six optional identity fields (name,
//     author, format, edition, version, description) plus a free-form
//     extension value. Encoded as CBOR with Core Deterministic
//     Encoding via lib/codec; projected to JSON for the sidecar and
//     the info command. Struct types use json struct tags —
//     fxamacker/cbor falls back to json tags, so the same types work
//     with both encoders.
//
//   - Unknown-field policy: three decode modes for fields outside the
//     record — drop them, reject the container listing every offender,
//     or fold them into the extension under "ignored".
//
//   - Compression: streaming payload codecs (zstd by default, lz4 and
//     xz selectable). Readers sniff the codec from the payload's magic
//     bytes, so a container never declares it.
//
//   - Archive: tar glue over archive/tar. Directories, regular files,
//     and symlinks round-trip with modes and file modification times;
//     extraction rejects entries that resolve outside the output
//     directory.
//
//   - Operations: Pack, Unpack, Info, and the header reads they share.
//     Unpack writes a metadata.json sidecar next to (never inside) the
//     output directory.
package pjz
