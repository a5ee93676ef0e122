// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/pjz/lib/codec"
)

// UnknownFieldPolicy controls what a decode does with metadata fields
// outside the record.
type UnknownFieldPolicy uint8

const (
	// UnknownIgnore silently drops unrecognized fields. The default.
	UnknownIgnore UnknownFieldPolicy = iota

	// UnknownReject fails the decode, listing each unrecognized
	// top-level field once, in order of first appearance.
	UnknownReject

	// UnknownExport folds unrecognized fields into the extension
	// under "ignored" instead of dropping them.
	UnknownExport
)

// ParseUnknownFieldPolicy parses a policy token. Tokens are
// case-insensitive: on/true/yes/1 ignore, off/false/no/0 reject,
// export/extra export.
func ParseUnknownFieldPolicy(value string) (UnknownFieldPolicy, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return UnknownIgnore, nil
	case "off", "false", "no", "0":
		return UnknownReject, nil
	case "export", "extra":
		return UnknownExport, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: on/true/yes/1, off/false/no/0, export/extra)",
			ErrInvalidPolicy, value)
	}
}

// String returns the canonical token for a policy.
func (p UnknownFieldPolicy) String() string {
	switch p {
	case UnknownIgnore:
		return "on"
	case UnknownReject:
		return "off"
	case UnknownExport:
		return "export"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// isRecordField reports whether name is one of the record's wire keys.
func isRecordField(name string) bool {
	switch name {
	case "name", "auth", "fmt", "ed", "ver", "desc", "extra":
		return true
	}
	return false
}

// decodeMetadata decodes a collected header blob under the given
// policy. Every policy classifies fields through the same
// topLevelEntries scan, so which encodings are accepted, and which
// value a duplicated key resolves to, never depends on the policy
// chosen.
func decodeMetadata(blob []byte, policy UnknownFieldPolicy) (Metadata, error) {
	switch policy {
	case UnknownIgnore, UnknownReject, UnknownExport:
	default:
		return Metadata{}, fmt.Errorf("%w: %d", ErrInvalidPolicy, policy)
	}

	entries, err := topLevelEntries(blob)
	if errors.Is(err, errNotMap) {
		// The top level is not a map, so there are no fields to
		// classify. Decode directly and let the decoder report what it
		// can.
		var meta Metadata
		if err := codec.Unmarshal(blob, &meta); err != nil {
			return Metadata{}, fmt.Errorf("decoding metadata: %w", err)
		}
		return meta, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("scanning metadata fields: %w", err)
	}

	// Split the entries. Assignment overwrites, so a duplicated key
	// resolves to its last value; unknownOrder remembers each unknown
	// key once, at its first appearance.
	known := make(map[string]codec.RawMessage)
	unknown := make(map[string]codec.RawMessage)
	var unknownOrder []string
	for _, entry := range entries {
		if isRecordField(entry.key) {
			known[entry.key] = entry.value
			continue
		}
		if _, seen := unknown[entry.key]; !seen {
			unknownOrder = append(unknownOrder, entry.key)
		}
		unknown[entry.key] = entry.value
	}

	if policy == UnknownReject && len(unknownOrder) > 0 {
		return Metadata{}, &UnknownFieldsError{Fields: unknownOrder}
	}

	knownBlob, err := codec.Marshal(known)
	if err != nil {
		return Metadata{}, fmt.Errorf("re-encoding known fields: %w", err)
	}
	var meta Metadata
	if err := codec.Unmarshal(knownBlob, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decoding metadata: %w", err)
	}

	if policy == UnknownExport && len(unknown) > 0 {
		exported := make(map[string]any, len(unknown))
		for key, raw := range unknown {
			var value any
			if err := codec.Unmarshal(raw, &value); err != nil {
				return Metadata{}, fmt.Errorf("decoding unknown field %q: %w", key, err)
			}
			exported[key] = value
		}
		meta.MergeUnknown(exported)
	}
	return meta, nil
}

// errNotMap distinguishes "the top level is not a map" from scan
// failures inside a map; decodeMetadata falls back to a direct decode
// on it.
var errNotMap = errors.New("top-level value is not a map")

// mapEntry is one key/value pair of the blob's top-level map, with
// the value left encoded.
type mapEntry struct {
	key   string
	value codec.RawMessage
}

// topLevelEntries parses the blob's top-level CBOR map head and pops
// its key/value items in the order they appear. Only the head is
// parsed by hand (major type 5: lengths inline under 24, in the next
// 1/2/4/8 big-endian bytes for info 24..27, indefinite for info 31);
// items are decoded with the shared CBOR decoder. Duplicate keys are
// returned as-is — callers that build maps get last-wins semantics.
// The map must span the whole blob; trailing bytes after it are an
// error.
func topLevelEntries(blob []byte) ([]mapEntry, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty metadata")
	}
	const majorMap = 5
	head := blob[0]
	if head>>5 != majorMap {
		return nil, errNotMap
	}

	rest := blob[1:]
	info := head & 0x1f
	indefinite := false
	var count uint64
	switch {
	case info < 24:
		count = uint64(info)
	case info <= 27:
		width := 1 << (info - 24)
		if len(rest) < width {
			return nil, fmt.Errorf("truncated map length")
		}
		for _, b := range rest[:width] {
			count = count<<8 | uint64(b)
		}
		rest = rest[width:]
		// Every entry takes at least two bytes, so any honest count
		// is bounded by the remaining input.
		if count > uint64(len(rest)) {
			return nil, fmt.Errorf("map announces %d entries in %d bytes", count, len(rest))
		}
	case info == 31:
		indefinite = true
	default:
		return nil, fmt.Errorf("reserved map head 0x%02x", head)
	}

	var entries []mapEntry
	for i := uint64(0); indefinite || i < count; i++ {
		if indefinite {
			if len(rest) == 0 {
				return nil, fmt.Errorf("unterminated indefinite-length map")
			}
			if rest[0] == 0xff {
				rest = rest[1:]
				break
			}
		}

		var key string
		afterKey, err := codec.UnmarshalFirst(rest, &key)
		if err != nil {
			return nil, fmt.Errorf("decoding map key: %w", err)
		}
		var value codec.RawMessage
		afterValue, err := codec.UnmarshalFirst(afterKey, &value)
		if err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		rest = afterValue
		entries = append(entries, mapEntry{key: key, value: value})
	}

	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after map", len(rest))
	}
	return entries, nil
}
