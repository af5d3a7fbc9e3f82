package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// normalizeRecord rewrites one source object into compact JSON:
//   - string escapes are decoded, so "犬" comes out as 犬 and "a\/b" as a/b
//   - a repeated key keeps its first position and its last value
//   - numbers keep their source spelling
//
// Records that are not valid UTF-8 are rejected.
func normalizeRecord(raw json.RawMessage) (json.RawMessage, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrInputMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	out, err := appendValue(nil, dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputMalformed, err)
	}
	return out, nil
}

func appendValue(buf []byte, dec *json.Decoder) ([]byte, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return appendObject(buf, dec)
		case '[':
			return appendArray(buf, dec)
		}
		return nil, fmt.Errorf("unexpected %q", rune(t))
	case string:
		return appendString(buf, t), nil
	case json.Number:
		return append(buf, t...), nil
	case bool:
		return strconv.AppendBool(buf, t), nil
	case nil:
		return append(buf, "null"...), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func appendObject(buf []byte, dec *json.Decoder) ([]byte, error) {
	var keys []string
	values := make(map[string][]byte)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %v", tok)
		}
		val, err := appendValue(nil, dec)
		if err != nil {
			return nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = val
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, k)
		buf = append(buf, ':')
		buf = append(buf, values[k]...)
	}
	return append(buf, '}'), nil
}

func appendArray(buf []byte, dec *json.Decoder) ([]byte, error) {
	buf = append(buf, '[')
	for i := 0; dec.More(); i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		if buf, err = appendValue(buf, dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return append(buf, ']'), nil
}

// appendString quotes s escaping only what JSON requires: the quote, the
// backslash and control characters. Everything else, U+2028 and U+2029
// included, is written as UTF-8.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if r < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
				continue
			}
			buf = utf8.AppendRune(buf, r)
		}
	}
	return append(buf, '"')
}
