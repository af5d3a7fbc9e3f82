package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dtnitsch/vocab-reducer/models"
)

const indent = "  "

// EncodeVocabulary renders vocabulary entries as an indented JSON array.
func EncodeVocabulary(vocab []models.VocabularyEntry) ([]byte, error) {
	raws := make([]json.RawMessage, len(vocab))
	for i, v := range vocab {
		raws[i] = v.Raw
	}
	return encodeArray(raws)
}

// EncodeExamples renders example entries as an indented JSON array.
func EncodeExamples(examples []models.ExampleEntry) ([]byte, error) {
	raws := make([]json.RawMessage, len(examples))
	for i, e := range examples {
		raws[i] = e.Raw
	}
	return encodeArray(raws)
}

// encodeArray writes one element per line block with two-space indentation.
// Records are re-indented from their normalized bytes, which carry non-ASCII
// text unescaped. There is no trailing newline.
func encodeArray(raws []json.RawMessage) ([]byte, error) {
	if len(raws) == 0 {
		return []byte("[]"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, raw := range raws {
		buf.WriteString(indent)
		if err := json.Indent(&buf, raw, indent, indent); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if i < len(raws)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}
