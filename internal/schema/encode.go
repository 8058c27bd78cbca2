package schema

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// MarshalJSON encodes an example value as JSON, keeping object key order.
// An empty indent produces compact output.
func MarshalJSON(value any, indent string) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}

	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeJSON, err)
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// MarshalYAML encodes an example value as a YAML document.
func MarshalYAML(value any) ([]byte, error) {
	node, err := yamlNodeForValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
	}

	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
	}

	return out.Bytes(), nil
}

// structuralKey serializes a schema fragment so that equal fragments share a key.
func structuralKey(node any) string {
	data, err := json.MarshalNoEscape(node)
	if err != nil {
		return fmt.Sprintf("%#v", node)
	}
	return string(data)
}

func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil
	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil
	case string:
		return yamlScalarNode("!!str", typed), nil
	case Marker:
		return yamlScalarNode("!!str", string(typed)), nil
	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil
	case int64:
		return yamlScalarNode("!!int", strconv.FormatInt(typed, 10)), nil
	case uint64:
		return yamlScalarNode("!!int", strconv.FormatUint(typed, 10)), nil
	case float64:
		return yamlScalarNode("!!float", strconv.FormatFloat(typed, 'g', -1, 64)), nil
	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, item := range typed.All() {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, valueNode)
		}
		return node, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}
		doc, err := ParseDocument(data)
		if err != nil {
			return nil, err
		}
		return yamlNodeForValue(doc.Root())
	}
}

func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}

// Display renders a value for inline text: strings as-is, nil as empty, and
// everything else as compact JSON.
func Display(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case Marker:
		return string(typed)
	}

	data, err := MarshalJSON(value, "")
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
