// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"reflect"
)

// Metadata is the record carried in a container's header blocks. The
// six identity fields are optional: a nil pointer means the field is
// absent and serializes as null, which is distinct from an empty
// string. Extra is a free-form extension value that travels with the
// container; it is an object in every record this package produces,
// but foreign writers may put anything there.
//
// The json tags are the wire keys — both for the CBOR header encoding
// (via the fxamacker json-tag fallback) and for the JSON sidecar. No
// field uses omitempty: absent fields appear as explicit nulls so the
// sidecar always shows the full record shape.
type Metadata struct {
	Name        *string `json:"name"`
	Author      *string `json:"auth"`
	Format      *string `json:"fmt"`
	Edition     *string `json:"ed"`
	Version     *string `json:"ver"`
	Description *string `json:"desc"`
	Extra       any     `json:"extra"`
}

// NewMetadata builds a record from the identity fields. Empty strings
// become absent fields. Extra starts as an empty object.
func NewMetadata(name, author, format, edition, version, description string) Metadata {
	return Metadata{
		Name:        optional(name),
		Author:      optional(author),
		Format:      optional(format),
		Edition:     optional(edition),
		Version:     optional(version),
		Description: optional(description),
		Extra:       map[string]any{},
	}
}

// optional maps the empty string to an absent field.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// WithExtra returns a copy of the record with the extension value
// replaced wholesale. No validation is applied: any JSON-representable
// value is accepted, including non-objects.
func (m Metadata) WithExtra(extra any) Metadata {
	m.Extra = extra
	return m
}

// MergeUnknown folds decoded fields that are not part of the record
// into the extension under the key "ignored". If Extra is not an
// object it is replaced with an empty one, and likewise for
// extra.ignored, before the unknown pairs are copied in. Existing keys
// under "ignored" are overwritten on collision.
func (m *Metadata) MergeUnknown(unknown map[string]any) {
	extra, ok := m.Extra.(map[string]any)
	if !ok {
		extra = map[string]any{}
		m.Extra = extra
	}
	ignored, ok := extra["ignored"].(map[string]any)
	if !ok {
		ignored = map[string]any{}
		extra["ignored"] = ignored
	}
	for key, value := range unknown {
		ignored[key] = value
	}
}

// Equal reports deep structural equality of two records. Pointer
// fields compare by pointed-to value; extension trees compare
// element-wise. A nil Extra and an empty object Extra are not equal.
func (m Metadata) Equal(other Metadata) bool {
	return reflect.DeepEqual(m, other)
}
