package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const introspectDocument = `
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
    Tag:
      type: string
    Tags:
      type: array
      items:
        $ref: "#/components/schemas/Tag"
    Wrapped:
      allOf:
        - $ref: "#/components/schemas/Pet"
    Tree:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: "#/components/schemas/Tree"
    Loop:
      $ref: "#/components/schemas/Loop"
`

func TestIntrospectorHasNestedContent(t *testing.T) {
	in := NewIntrospector(mustParse(t, introspectDocument))

	tests := []struct {
		name   string
		schema string
		want   bool
	}{
		{name: "properties", schema: `{type: object, properties: {a: {type: string}}}`, want: true},
		{name: "empty properties", schema: `{type: object, properties: {}}`, want: false},
		{name: "primitive", schema: `{type: string}`, want: false},
		{name: "reference to object", schema: `{$ref: "#/components/schemas/Pet"}`, want: true},
		{name: "single allOf", schema: `{$ref: "#/components/schemas/Wrapped"}`, want: true},
		{name: "array of objects", schema: `{type: array, items: {$ref: "#/components/schemas/Pet"}}`, want: true},
		{name: "array of primitives", schema: `{$ref: "#/components/schemas/Tags"}`, want: false},
		{name: "oneOf with object branch", schema: `{oneOf: [{type: string}, {$ref: "#/components/schemas/Pet"}]}`, want: true},
		{name: "anyOf primitives", schema: `{anyOf: [{type: string}, {type: integer}]}`, want: false},
		{name: "allOf with object member", schema: `{allOf: [{type: string}, {properties: {x: {type: string}}}]}`, want: true},
		{name: "additional properties object", schema: `{type: object, additionalProperties: {properties: {x: {type: string}}}}`, want: true},
		{name: "additional properties true", schema: `{type: object, additionalProperties: true}`, want: false},
		{name: "unresolved reference", schema: `{$ref: "#/components/schemas/Missing"}`, want: false},
		{name: "self reference", schema: `{$ref: "#/components/schemas/Loop"}`, want: false},
		{name: "recursive tree", schema: `{$ref: "#/components/schemas/Tree"}`, want: true},
		{name: "scalar", schema: `text`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, in.HasNestedContent(mustNode(t, tt.schema)))
		})
	}
}

func TestIntrospectorTypeLabel(t *testing.T) {
	in := NewIntrospector(mustParse(t, introspectDocument))

	tests := []struct {
		name   string
		schema string
		want   string
	}{
		{name: "array of integers", schema: `{type: array, items: {type: integer}}`, want: "array[integer]"},
		{name: "array without items", schema: `{type: array}`, want: "array"},
		{name: "array through references", schema: `{$ref: "#/components/schemas/Tags"}`, want: "array[string]"},
		{name: "nested arrays", schema: `{type: array, items: {type: array, items: {type: boolean}}}`, want: "array[array[boolean]]"},
		{name: "raw type", schema: `{type: string, format: uuid}`, want: "string"},
		{name: "type list", schema: `{type: [string, "null"]}`, want: "string | null"},
		{name: "properties only", schema: `{properties: {a: {type: string}}}`, want: "object"},
		{name: "reference", schema: `{$ref: "#/components/schemas/Pet"}`, want: "object"},
		{name: "anyOf", schema: `{anyOf: [{type: string}, {type: integer}]}`, want: "anyOf[2]"},
		{name: "oneOf", schema: `{oneOf: [{type: string}, {type: integer}, {type: boolean}]}`, want: "oneOf[3]"},
		{name: "allOf", schema: `{allOf: [{type: string}, {type: integer}]}`, want: "allOf[2]"},
		{name: "single allOf", schema: `{allOf: [{type: integer}]}`, want: "integer"},
		{name: "nothing", schema: `{description: plain}`, want: "unknown"},
		{name: "unresolved reference", schema: `{$ref: "#/components/schemas/Missing"}`, want: "unknown"},
		{name: "self reference", schema: `{$ref: "#/components/schemas/Loop"}`, want: "Loop"},
		{name: "recursive items", schema: `{type: array, items: {$ref: "#/components/schemas/Tree"}}`, want: "array[object]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, in.TypeLabel(mustNode(t, tt.schema)))
		})
	}
}
