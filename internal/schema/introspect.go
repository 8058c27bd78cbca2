package schema

import (
	"fmt"
	"strings"
)

// Introspector answers presentation questions about schema nodes: whether a
// node has anything worth expanding, and what short type label to show.
type Introspector struct {
	doc *Document
}

func NewIntrospector(doc *Document) *Introspector {
	return &Introspector{doc: doc}
}

// HasNestedContent reports whether node has properties somewhere below it.
// Unresolvable and recursive references count as having none.
func (in *Introspector) HasNestedContent(node any) bool {
	return in.walker().hasNested(node)
}

// TypeLabel returns a short label such as "string", "array[integer]" or
// "oneOf[2]".
func (in *Introspector) TypeLabel(node any) string {
	return in.walker().label(node)
}

func (in *Introspector) walker() *introspectWalker {
	return &introspectWalker{
		doc:    in.doc,
		active: make(map[string]struct{}),
	}
}

type introspectWalker struct {
	doc    *Document
	active map[string]struct{}
}

// enter resolves references and single-member allOf wrappers around node.
// The returned release func must be called once the caller is done with the
// resolved node. A nil object with an empty ref means the node could not be
// resolved; a nil object with a ref means the ref is already being visited.
func (w *introspectWalker) enter(node any) (*Object, string, func()) {
	var entered []string
	release := func() {
		for _, ref := range entered {
			delete(w.active, ref)
		}
	}

	current := node
	for range maxRefHops {
		object, ok := current.(*Object)
		if !ok {
			return nil, "", release
		}

		if ref, ok := object.String("$ref"); ok {
			if _, busy := w.active[ref]; busy {
				return nil, ref, release
			}
			target, found := w.doc.Resolve(ref)
			if !found {
				return nil, "", release
			}
			w.active[ref] = struct{}{}
			entered = append(entered, ref)
			current = target
			continue
		}

		if parts := object.Slice("allOf"); len(parts) == 1 {
			current = parts[0]
			continue
		}

		return object, "", release
	}
	return nil, "", release
}

func (w *introspectWalker) hasNested(node any) bool {
	object, _, release := w.enter(node)
	defer release()
	if object == nil {
		return false
	}

	if properties, ok := object.Object("properties"); ok && properties.Len() > 0 {
		return true
	}

	if typeName, _ := schemaType(object); typeName == "array" {
		if items, ok := object.Get("items"); ok && w.hasNested(items) {
			return true
		}
	}

	for _, keyword := range []string{"anyOf", "oneOf", "allOf"} {
		for _, branch := range object.Slice(keyword) {
			if w.hasNested(branch) {
				return true
			}
		}
	}

	if extra, ok := object.Object("additionalProperties"); ok {
		return w.hasNested(extra)
	}

	return false
}

func (w *introspectWalker) label(node any) string {
	object, ref, release := w.enter(node)
	defer release()
	if object == nil {
		if ref != "" {
			return refName(ref)
		}
		return "unknown"
	}

	if raw, ok := object.Get("type"); ok {
		if label := typeListLabel(raw); label == "array" {
			items, ok := object.Get("items")
			if !ok {
				return "array"
			}
			return "array[" + w.label(items) + "]"
		} else if label != "" {
			return label
		}
	}

	if object.Has("properties") {
		return "object"
	}

	for _, keyword := range []string{"anyOf", "oneOf", "allOf"} {
		if branches := object.Slice(keyword); len(branches) > 0 {
			return fmt.Sprintf("%s[%d]", keyword, len(branches))
		}
	}

	return "unknown"
}

// typeListLabel renders the type keyword. Lists are joined with " | ".
func typeListLabel(raw any) string {
	switch typed := raw.(type) {
	case string:
		return typed
	case []any:
		names := make([]string, 0, len(typed))
		for _, item := range typed {
			if name, ok := item.(string); ok && name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, " | ")
	default:
		return ""
	}
}

func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return UnescapeToken(ref[i+1:])
	}
	return ref
}
