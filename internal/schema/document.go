package schema

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// maxRefHops bounds how many chained $ref objects Walk follows for one step.
const maxRefHops = 32

// maxDecodedNodes bounds the number of nodes a document may decode to once
// YAML aliases are expanded.
const maxDecodedNodes = 1 << 20

// Document is a read-only decoded OpenAPI document.
type Document struct {
	root any
}

func NewDocument(root any) *Document {
	return &Document{root: root}
}

// ParseDocument decodes YAML or JSON bytes, keeping mapping key order.
func ParseDocument(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	d := &decoder{budget: maxDecodedNodes, expanding: make(map[*yaml.Node]bool)}
	root, err := d.decode(&node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	return NewDocument(root), nil
}

func (d *Document) Root() any {
	if d == nil {
		return nil
	}
	return d.root
}

// Lookup walks raw pointer tokens from the root without following references.
func (d *Document) Lookup(tokens ...string) (any, bool) {
	if d == nil {
		return nil, false
	}

	current := d.root
	for _, token := range tokens {
		next, ok := child(current, token)
		if !ok {
			return nil, false
		}
		current = next
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// Resolve returns the node a local reference such as "#/components/schemas/Pet"
// points to. References found inside the target are not followed.
func (d *Document) Resolve(ref string) (any, bool) {
	tokens, ok := ReferenceTokens(ref)
	if !ok {
		return nil, false
	}
	return d.Lookup(tokens...)
}

// Walk is like Lookup but follows $ref objects met along the way, including
// one found at the final position.
func (d *Document) Walk(tokens ...string) (any, bool) {
	if d == nil {
		return nil, false
	}

	current, ok := d.follow(d.root)
	if !ok {
		return nil, false
	}

	for _, token := range tokens {
		next, ok := child(current, token)
		if !ok {
			return nil, false
		}
		current, ok = d.follow(next)
		if !ok {
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// LookupPointer resolves a pointer given either as "#/a/b" or "a/b".
func (d *Document) LookupPointer(pointer string) (any, error) {
	value, ok := d.Resolve(pointer)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPointerNotFound, pointer)
	}
	return value, nil
}

// Deref follows the $ref chain starting at node and returns the first node
// that is not a reference.
func (d *Document) Deref(node any) (any, bool) {
	if d == nil {
		return node, true
	}
	return d.follow(node)
}

func (d *Document) follow(node any) (any, bool) {
	for range maxRefHops {
		object, ok := node.(*Object)
		if !ok {
			return node, true
		}
		ref, ok := object.String("$ref")
		if !ok {
			return node, true
		}
		node, ok = d.Resolve(ref)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// ReferenceTokens splits a local reference into unescaped pointer tokens.
// Both "#/a/b" and "a/b" are accepted; references into other documents are not.
func ReferenceTokens(ref string) ([]string, bool) {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "#/")
	if ref == "" || strings.Contains(ref, "#") {
		return nil, false
	}

	parts := strings.Split(ref, "/")
	for i, part := range parts {
		parts[i] = UnescapeToken(part)
	}
	return parts, true
}

// Pointer joins raw tokens into a local reference.
func Pointer(tokens ...string) string {
	var b strings.Builder
	b.WriteString("#")
	for _, token := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(token))
	}
	return b.String()
}

func EscapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func UnescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

func child(node any, token string) (any, bool) {
	switch typed := node.(type) {
	case *Object:
		return typed.Get(token)
	case []any:
		index, err := strconv.Atoi(token)
		if err != nil || index < 0 || index >= len(typed) {
			return nil, false
		}
		return typed[index], true
	default:
		return nil, false
	}
}

// decoder turns a yaml.Node tree into Objects, slices and scalars. Aliases
// are expanded in place, so budget bounds the expanded size and expanding
// rejects anchors that contain an alias to themselves.
type decoder struct {
	budget    int
	expanding map[*yaml.Node]bool
}

func (d *decoder) decode(node *yaml.Node) (any, error) {
	if d.budget--; d.budget < 0 {
		return nil, ErrDocumentTooLarge
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, nil
		}
		if d.expanding[node.Alias] {
			return nil, fmt.Errorf("%w: *%s", ErrRecursiveAlias, node.Value)
		}
		d.expanding[node.Alias] = true
		defer delete(d.expanding, node.Alias)
		return d.decode(node.Alias)
	case yaml.MappingNode:
		object := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := d.decode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			object.Set(node.Content[i].Value, value)
		}
		return object, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return decodeScalar(node)
	default:
		return nil, nil
	}
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return node.Value, nil
		}
		return f, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return node.Value, nil
	}
}
