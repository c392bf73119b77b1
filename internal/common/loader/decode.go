package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"dealer-assistant/internal/models"
)

// DecodeJSONRecords decodes a JSON array of objects, keeping each object's
// key order. Strings are taken verbatim, nulls are dropped, and any other
// value keeps its compact JSON text.
func DecodeJSONRecords(r io.Reader) ([]models.Record, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	records := make([]models.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := DecodeJSONObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeJSONObject decodes a single JSON object into an ordered record.
func DecodeJSONObject(raw []byte) (models.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var rec models.Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		text, present, err := jsonDisplayValue(value)
		if err != nil {
			return nil, err
		}
		if present {
			rec = append(rec, models.Field{Key: key, Value: text})
		}
	}
	return rec, nil
}

func jsonDisplayValue(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return "", false, nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", false, err
		}
		return buf.String(), true, nil
	}
}

// DecodeYAMLRecords decodes a YAML sequence of mappings, keeping key order.
func DecodeYAMLRecords(r io.Reader) ([]models.Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decode dataset: expected a sequence of records")
	}

	records := make([]models.Record, 0, len(root.Content))
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("decode record %d: expected a mapping", i)
		}
		var rec models.Record
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, value := item.Content[j], item.Content[j+1]
			if value.Kind == yaml.ScalarNode {
				if value.Tag == "!!null" {
					continue
				}
				rec = append(rec, models.Field{Key: key.Value, Value: value.Value})
				continue
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("decode record %d: %w", i, err)
			}
			rec = append(rec, models.Field{Key: key.Value, Value: strings.TrimSpace(string(out))})
		}
		records = append(records, rec)
	}
	return records, nil
}
