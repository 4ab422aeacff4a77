package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Extensions holds shop-specific document fields that the domain does not model.
// They are stored and re-emitted verbatim.
type Extensions map[string]json.RawMessage

// decodeDocument splits a JSON object into its fields. Anything other than an
// object (or null) is rejected.
func decodeDocument(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return map[string]json.RawMessage{}, nil
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("document must be a JSON object")
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return fields, nil
}

// encodeDocument writes known fields followed by extensions as one JSON object
// with keys in sorted order.
func encodeDocument(known map[string]json.RawMessage, ext Extensions) ([]byte, error) {
	merged := make(map[string]json.RawMessage, len(known)+len(ext))
	for k, v := range ext {
		merged[k] = v
	}
	for k, v := range known {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(merged[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Extensions) clone() Extensions {
	if e == nil {
		return nil
	}
	out := make(Extensions, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
