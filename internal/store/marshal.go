package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalPhones encodes the phone list as a JSON array for the phones column.
// A nil list is stored as "[]"; the column never holds NULL.
func marshalPhones(phones []string) (string, error) {
	if phones == nil {
		phones = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(phones); err != nil {
		return "", fmt.Errorf("marshal phones: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unmarshalPhones decodes the phones column. Empty text or JSON null decode
// to an empty, non-nil list.
func unmarshalPhones(data string) ([]string, error) {
	if data == "" || data == "[]" || data == "null" {
		return []string{}, nil
	}
	var phones []string
	if err := json.Unmarshal([]byte(data), &phones); err != nil {
		return nil, fmt.Errorf("unmarshal phones: %w", err)
	}
	if phones == nil {
		phones = []string{}
	}
	return phones, nil
}
