package datatree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument is returned when there is nothing to decode.
	ErrEmptyDocument = errors.New("datatree: document is empty")

	errNotObject = errors.New("datatree: JSON value is not an object")
)

// Decode parses a JSON or YAML payload into tree values. JSON is attempted
// first when the payload looks like a JSON object or array; YAML is used
// otherwise and as a fallback.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		value, jsonErr := DecodeJSON(trimmed)
		if jsonErr == nil {
			return value, nil
		}
		if value, err := DecodeYAML(trimmed); err == nil {
			return value, nil
		}
		return nil, jsonErr
	}

	return DecodeYAML(trimmed)
}

// DecodeJSON parses a single JSON value keeping object key order. Integral
// numbers decode to int64, everything else numeric to float64.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("datatree: parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("datatree: parse json: trailing data after top-level value")
	}
	return value, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		return numberValue(t), nil
	case string:
		return t, nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (*Map, error) {
	m := NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", keyTok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeJSONArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// DecodeYAML parses a YAML document keeping mapping key order. Timestamps are
// kept as their original strings.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("datatree: parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, ErrEmptyDocument
	}
	return FromNode(&doc)
}

// FromNode converts a yaml.v3 node tree into tree values.
func FromNode(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.MappingNode:
		m := NewMap()
		if err := mergeMapping(m, node); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := FromNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("datatree: unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

func mergeMapping(m *Map, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.ShortTag() == "!!merge" {
			if err := mergeAliased(m, valueNode); err != nil {
				return err
			}
			continue
		}
		value, err := FromNode(valueNode)
		if err != nil {
			return err
		}
		m.Set(keyNode.Value, value)
	}
	return nil
}

func mergeAliased(m *Map, node *yaml.Node) error {
	target := node
	if target.Kind == yaml.AliasNode {
		target = target.Alias
	}
	switch target.Kind {
	case yaml.MappingNode:
		return mergeMapping(m, target)
	case yaml.SequenceNode:
		for _, item := range target.Content {
			if err := mergeAliased(m, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("datatree: merge key at line %d must reference a mapping", node.Line)
	}
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("datatree: line %d: %w", node.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("datatree: line %d: %w", node.Line, err)
		}
		return f, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("datatree: line %d: %w", node.Line, err)
		}
		return f, nil
	default:
		return node.Value, nil
	}
}
