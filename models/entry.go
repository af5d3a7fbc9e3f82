package models

import "encoding/json"

// WordID is the join key between vocabulary and example records.
// String ids and numeric ids never compare equal; numerically equal
// numbers ("1" and "1.0" in source) do.
type WordID string

// NullWordID is the key for a null wordid.
const NullWordID WordID = "null"

// StringWordID builds the key for a string-valued wordid.
func StringWordID(s string) WordID {
	return WordID("s:" + s)
}

// NumberWordID builds the key for a numeric wordid already in canonical form.
func NumberWordID(canonical string) WordID {
	return WordID("n:" + canonical)
}

// VocabularyEntry is one vocabulary record.
type VocabularyEntry struct {
	WordID    WordID
	Frequency float64

	// Raw holds the normalized source object with any "examples" key
	// removed. Field order is the source order.
	Raw json.RawMessage

	// Examples is attached during filtering and cleared before emission.
	Examples []ExampleEntry
}

// ExampleEntry is one example-sentence record.
type ExampleEntry struct {
	WordID WordID
	Raw    json.RawMessage
}
