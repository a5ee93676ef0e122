// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"errors"
	"strings"
)

// Sentinel errors for the conditions callers branch on. All are
// returned wrapped with context; match with errors.Is.
var (
	// ErrInvalidHeader means no recognizable header block was found:
	// the file is empty, starts with bytes outside the magic window,
	// or a block was truncated mid-frame.
	ErrInvalidHeader = errors.New("invalid container header")

	// ErrMetadataLength means the encoded metadata violates the size
	// rule: zero bytes, over the 10 MiB cap, or a header block whose
	// announced length would push the collected total over the cap.
	ErrMetadataLength = errors.New("invalid metadata length")

	// ErrExtraFileNotFound means the extension side-file given to Pack
	// could not be read.
	ErrExtraFileNotFound = errors.New("extra metadata file not found")

	// ErrSourceNotFound means the directory given to Pack does not
	// exist or is not a directory.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrInvalidPolicy means an unknown-field policy token did not
	// parse.
	ErrInvalidPolicy = errors.New("invalid unknown-field policy")
)

// UnknownFieldsError is returned by the strict decode policy when the
// metadata contains fields outside the record. Fields are listed in
// the order they appear in the encoded header.
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return "unknown fields in metadata: " + strings.Join(e.Fields, ", ")
}
