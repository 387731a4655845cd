package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"

	"github.com/rshade/holdview/internal/holdings"
)

// ExtractPayload returns the holdings array found at path inside a JSON document.
// A null value yields an empty array. A missing path or a non-array value is an error.
func ExtractPayload(body []byte, path string) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding response: unexpected data after the JSON document")
	}

	value, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	switch v := value.(type) {
	case nil:
		return json.RawMessage("[]"), nil
	case []any:
		raw, marshalErr := json.Marshal(v)
		if marshalErr != nil {
			return nil, fmt.Errorf("re-encoding %s: %w", path, marshalErr)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("value at %s is %s, want an array of holdings", path, jsonKind(v))
	}
}

// DecodeHoldings decodes a holdings array. Elements that are not objects are rejected.
func DecodeHoldings(payload json.RawMessage) ([]holdings.Holding, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decoding holdings: %w", err)
	}

	out := make([]holdings.Holding, 0, len(items))
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("holding %d is not an object", i)
		}
		var h holdings.Holding
		if err := json.Unmarshal(trimmed, &h); err != nil {
			return nil, fmt.Errorf("decoding holding %d: %w", i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "an object"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
