package sqlgen

import (
	"bytes"
	"encoding/json"
)

// IsValidJSON reports whether text is a JSON object or, failing that, a JSON array.
// It is a syntactic check only.
func IsValidJSON(text string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return true
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(text), &arr); err == nil && arr != nil {
		return true
	}
	return false
}

// decodeObject decodes a validated body. Arrays are valid bodies without fields and
// yield a nil map. Numbers are kept as json.Number so that they render exactly as sent.
func decodeObject(body string) map[string]any {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil
	}
	return fields
}

// stringField returns the first of keys present in fields with a non-null value.
// ok is false when that value is not a string.
func stringField(fields map[string]any, keys ...string) (value string, present bool, ok bool) {
	for _, key := range keys {
		raw, found := fields[key]
		if !found || raw == nil {
			continue
		}
		s, isString := raw.(string)
		return s, true, isString
	}
	return "", false, true
}
