package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders a view as deterministic JSON.
//
// Keys are emitted in sorted order, strings are NFC normalized and HTML
// characters are not escaped, so the same client always produces the same
// bytes regardless of how its text was composed. Used for CLI output and
// golden files.
func MarshalCanonical(v View) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeKey(&buf, "email")
	if err := writeString(&buf, v.Email); err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}

	buf.WriteByte(',')
	writeKey(&buf, "first_name")
	if err := writeString(&buf, v.FirstName); err != nil {
		return nil, fmt.Errorf("first_name: %w", err)
	}

	if v.ID != nil {
		buf.WriteByte(',')
		writeKey(&buf, "id")
		buf.WriteString(strconv.FormatInt(*v.ID, 10))
	}

	buf.WriteByte(',')
	writeKey(&buf, "last_name")
	if err := writeString(&buf, v.LastName); err != nil {
		return nil, fmt.Errorf("last_name: %w", err)
	}

	buf.WriteByte(',')
	writeKey(&buf, "phones")
	buf.WriteByte('[')
	for i, p := range v.Phones {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, p); err != nil {
			return nil, fmt.Errorf("phones[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalCanonicalList renders views as a JSON array of canonical objects.
func MarshalCanonicalList(views []View) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range views {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := MarshalCanonical(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(strconv.Quote(key))
	buf.WriteByte(':')
}

// writeString writes s NFC normalized, without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// Encoder appends a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
