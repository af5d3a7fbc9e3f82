// Package dataset reduces a vocabulary dataset and its example sentences to
// the top-ranked entries that have at least one example.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dtnitsch/vocab-reducer/models"
	"github.com/dtnitsch/vocab-reducer/pkg/storage"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrInputNotFound means a source path does not exist or cannot be read.
	ErrInputNotFound = errors.New("input not found")
	// ErrInputMalformed means a source is not a JSON array of objects carrying a wordid.
	ErrInputMalformed = errors.New("input malformed")
	// ErrOutputWrite means a destination could not be written.
	ErrOutputWrite = errors.New("output write failed")
)

const (
	wordIDKey    = "wordid"
	frequencyKey = "frequency"
	examplesKey  = "examples"
)

// LoadVocabulary parses a JSON array of vocabulary objects.
func LoadVocabulary(r io.Reader) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	err := decodeArray(r, func(i int, raw json.RawMessage) error {
		id, err := parseWordID(raw)
		if err != nil {
			return fmt.Errorf("vocabulary record %d: %w", i, err)
		}
		freq, err := parseFrequency(raw)
		if err != nil {
			return fmt.Errorf("vocabulary record %d: %w", i, err)
		}
		// A source "examples" key would be replaced and then dropped anyway.
		if gjson.GetBytes(raw, examplesKey).Exists() {
			if raw, err = sjson.DeleteBytes(raw, examplesKey); err != nil {
				return fmt.Errorf("vocabulary record %d: %w: %v", i, ErrInputMalformed, err)
			}
		}
		entries = append(entries, models.VocabularyEntry{WordID: id, Frequency: freq, Raw: raw})
		return nil
	})
	return entries, err
}

// LoadExamples parses a JSON array of example objects.
func LoadExamples(r io.Reader) ([]models.ExampleEntry, error) {
	var entries []models.ExampleEntry
	err := decodeArray(r, func(i int, raw json.RawMessage) error {
		id, err := parseWordID(raw)
		if err != nil {
			return fmt.Errorf("example record %d: %w", i, err)
		}
		entries = append(entries, models.ExampleEntry{WordID: id, Raw: raw})
		return nil
	})
	return entries, err
}

// ReadVocabularyFile opens and parses a vocabulary file.
func ReadVocabularyFile(s *storage.Storage, path string) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	err := readFile(s, path, func(r io.Reader) (err error) {
		entries, err = LoadVocabulary(r)
		return err
	})
	return entries, err
}

// ReadExamplesFile opens and parses an examples file.
func ReadExamplesFile(s *storage.Storage, path string) ([]models.ExampleEntry, error) {
	var entries []models.ExampleEntry
	err := readFile(s, path, func(r io.Reader) (err error) {
		entries, err = LoadExamples(r)
		return err
	})
	return entries, err
}

func readFile(s *storage.Storage, path string, load func(io.Reader) error) error {
	rc, err := s.OpenInput(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrInputMalformed, path, err)
	}
	defer rc.Close()

	if err := load(rc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// decodeArray streams the elements of a top-level JSON array, handing each
// object to fn in normalized form with its index. Anything else is
// ErrInputMalformed.
func decodeArray(r io.Reader, fn func(int, json.RawMessage) error) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("%w: document is not a JSON array", ErrInputMalformed)
	}

	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInputMalformed, i, err)
		}
		if len(raw) == 0 || raw[0] != '{' {
			return fmt.Errorf("%w: record %d is not an object", ErrInputMalformed, i)
		}
		record, err := normalizeRecord(raw)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := fn(i, record); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInputMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after the array", ErrInputMalformed)
	}

	return nil
}

// parseWordID keys booleans as the numbers 1 and 0, so true joins with 1.
// Arrays and objects cannot be keys.
func parseWordID(raw json.RawMessage) (models.WordID, error) {
	res := gjson.GetBytes(raw, wordIDKey)
	if !res.Exists() {
		return "", fmt.Errorf("%w: missing %q", ErrInputMalformed, wordIDKey)
	}

	switch res.Type {
	case gjson.String:
		return models.StringWordID(res.Str), nil
	case gjson.Number:
		return models.NumberWordID(canonicalNumber(res)), nil
	case gjson.True:
		return models.NumberWordID("1"), nil
	case gjson.False:
		return models.NumberWordID("0"), nil
	case gjson.Null:
		return models.NullWordID, nil
	}
	return "", fmt.Errorf("%w: %q must be a string, number, boolean or null, got %s", ErrInputMalformed, wordIDKey, res.Raw)
}

// canonicalNumber maps numerically equal spellings (1, 1.0, 1e0) to one key.
func canonicalNumber(res gjson.Result) string {
	raw := strings.TrimSpace(res.Raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if res.Num == math.Trunc(res.Num) && math.Abs(res.Num) < 1<<53 {
		return strconv.FormatInt(int64(res.Num), 10)
	}
	return strconv.FormatFloat(res.Num, 'g', -1, 64)
}

// parseFrequency treats a missing frequency and any empty value (null,
// false, "", [] or {}) as 0, and true as 1. Other non-numeric values are
// malformed.
func parseFrequency(raw json.RawMessage) (float64, error) {
	res := gjson.GetBytes(raw, frequencyKey)
	switch res.Type {
	case gjson.Null, gjson.False:
		return 0, nil
	case gjson.True:
		return 1, nil
	case gjson.Number:
		return res.Num, nil
	case gjson.String:
		if res.Str == "" {
			return 0, nil
		}
	case gjson.JSON:
		if res.Raw == "[]" || res.Raw == "{}" {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: %q must be a number, got %s", ErrInputMalformed, frequencyKey, res.Raw)
}
