package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocumentKeepsOrder(t *testing.T) {
	doc := mustParse(t, `{"zeta": 1, "alpha": {"b": true, "a": null}, "list": [1.5, "x"]}`)

	root, ok := doc.Root().(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"zeta", "alpha", "list"}, root.Keys())

	zeta, _ := root.Get("zeta")
	require.Equal(t, int64(1), zeta)

	alpha, ok := root.Object("alpha")
	require.True(t, ok)
	require.Equal(t, []string{"b", "a"}, alpha.Keys())

	require.Equal(t, []any{1.5, "x"}, root.Slice("list"))
}

func TestParseDocumentInvalid(t *testing.T) {
	_, err := ParseDocument([]byte("a: [unterminated"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecodeDocument))
}

func TestParseDocumentAliases(t *testing.T) {
	doc := mustParse(t, "base: &text {type: string}\nother: *text\n")

	other, ok := doc.Lookup("other")
	require.True(t, ok)
	require.True(t, ObjectOf("type", "string").Equal(other.(*Object)))
}

func TestParseDocumentAliasExpansionLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 7; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, refs)
	}

	_, err := ParseDocument([]byte(b.String()))
	require.ErrorIs(t, err, ErrDecodeDocument)
	require.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestParseDocumentRecursiveAlias(t *testing.T) {
	_, err := ParseDocument([]byte("a: &a\n  b: *a\n"))
	require.ErrorIs(t, err, ErrDecodeDocument)
}

func TestDocumentResolve(t *testing.T) {
	doc := mustParse(t, `
components:
  schemas:
    Pet:
      type: object
    a/b:
      type: string
    Alias:
      $ref: "#/components/schemas/Pet"
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
`)

	tests := []struct {
		name    string
		ref     string
		wantOK  bool
		wantKey string
	}{
		{name: "hash prefix", ref: "#/components/schemas/Pet", wantOK: true, wantKey: "type"},
		{name: "bare path", ref: "components/schemas/Pet", wantOK: true, wantKey: "type"},
		{name: "escaped slash", ref: "#/components/schemas/a~1b", wantOK: true, wantKey: "type"},
		{name: "escaped path key", ref: "#/paths/~1pets/get", wantOK: true, wantKey: "parameters"},
		{name: "not followed", ref: "#/components/schemas/Alias", wantOK: true, wantKey: "$ref"},
		{name: "missing segment", ref: "#/components/schemas/Nope", wantOK: false},
		{name: "external document", ref: "other.yaml#/components/schemas/Pet", wantOK: false},
		{name: "empty", ref: "", wantOK: false},
		{name: "root only", ref: "#/", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doc.Resolve(tt.ref)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			object, isObject := got.(*Object)
			require.True(t, isObject)
			require.True(t, object.Has(tt.wantKey))
		})
	}
}

func TestDocumentWalkFollowsReferences(t *testing.T) {
	doc := mustParse(t, `
components:
  parameters:
    Limit:
      name: limit
      schema:
        type: integer
  schemas:
    A:
      $ref: "#/components/schemas/B"
    B:
      $ref: "#/components/schemas/A"
paths:
  /pets:
    get:
      parameters:
        - $ref: "#/components/parameters/Limit"
`)

	got, ok := doc.Walk("paths", "/pets", "get", "parameters", "0", "schema")
	require.True(t, ok)
	require.True(t, ObjectOf("type", "integer").Equal(got.(*Object)))

	_, ok = doc.Lookup("paths", "/pets", "get", "parameters", "0", "schema")
	require.False(t, ok)

	_, ok = doc.Walk("components", "schemas", "A")
	require.False(t, ok)
}

func TestDocumentLookupPointer(t *testing.T) {
	doc := mustParse(t, `info: {title: Pets}`)

	got, err := doc.LookupPointer("#/info/title")
	require.NoError(t, err)
	require.Equal(t, "Pets", got)

	_, err = doc.LookupPointer("#/info/version")
	require.ErrorIs(t, err, ErrPointerNotFound)
}

func TestPointerEscaping(t *testing.T) {
	require.Equal(t, "#/paths/~1pets~1{id}/get", Pointer("paths", "/pets/{id}", "get"))
	require.Equal(t, "a~0b", EscapeToken("a~b"))
	require.Equal(t, "a/~1", UnescapeToken("a~1~01"))

	tokens, ok := ReferenceTokens(Pointer("paths", "/pets/{id}", "get"))
	require.True(t, ok)
	require.Equal(t, []string{"paths", "/pets/{id}", "get"}, tokens)
}
