// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"testing"
)

// sampleRecord mirrors the metadata convention: json struct tags only,
// relying on fxamacker's json-tag fallback for CBOR field names.
type sampleRecord struct {
	Name  string `json:"name"`
	Ver   string `json:"ver,omitempty"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Name:  "sample-project",
		Ver:   "1.4.0",
		Count: 42,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	record := sampleRecord{Name: "det", Ver: "0.1.0", Count: 7}

	first, err := Marshal(record)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}

	second, err := Marshal(record)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestJSONTagNamesUsedAsKeys(t *testing.T) {
	data, err := Marshal(sampleRecord{Name: "x", Count: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}

	if _, ok := generic["name"]; !ok {
		t.Errorf("encoded map %v missing json-tag key %q", generic, "name")
	}
	if _, ok := generic["Name"]; ok {
		t.Errorf("encoded map %v contains Go field name instead of json tag", generic)
	}
}

func TestDecodeAnyProducesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": "v"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded any is %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Fatalf("nested value is %T, want map[string]any", outer["outer"])
	}
}

func TestDecodeIntegersAsSigned(t *testing.T) {
	// Positive integers encode as CBOR unsigned (major type 0). The
	// decode mode must still hand them back as int64 so they compare
	// equal to what encoding/json produced on the way in.
	data, err := Marshal(map[string]any{"n": int64(12)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got, ok := decoded["n"].(int64)
	if !ok {
		t.Fatalf("decoded integer is %T, want int64", decoded["n"])
	}
	if got != 12 {
		t.Errorf("decoded integer = %d, want 12", got)
	}
}

func TestUnmarshalFirstSequence(t *testing.T) {
	item1, err := Marshal("hello")
	if err != nil {
		t.Fatalf("Marshal item 1: %v", err)
	}
	item2, err := Marshal(int64(42))
	if err != nil {
		t.Fatalf("Marshal item 2: %v", err)
	}

	var sequence []byte
	sequence = append(sequence, item1...)
	sequence = append(sequence, item2...)

	var first any
	remaining, err := UnmarshalFirst(sequence, &first)
	if err != nil {
		t.Fatalf("UnmarshalFirst: %v", err)
	}
	if first != "hello" {
		t.Errorf("first item = %v, want hello", first)
	}
	if len(remaining) == 0 {
		t.Fatal("expected remaining bytes after first item")
	}

	var second any
	remaining2, err := UnmarshalFirst(remaining, &second)
	if err != nil {
		t.Fatalf("UnmarshalFirst second: %v", err)
	}
	if !reflect.DeepEqual(second, int64(42)) {
		t.Errorf("second item = %v (%T), want 42", second, second)
	}
	if len(remaining2) != 0 {
		t.Errorf("expected no remaining bytes, got %d", len(remaining2))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var record sampleRecord
	err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &record)
	if err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{
		Name:  "sample-project",
		Ver:   "1.4.0",
		Count: 42,
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Marshal(record)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	record := sampleRecord{
		Name:  "sample-project",
		Ver:   "1.4.0",
		Count: 42,
	}
	data, err := Marshal(record)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var decoded sampleRecord
		Unmarshal(data, &decoded)
	}
}
