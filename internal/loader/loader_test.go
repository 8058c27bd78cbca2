package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/stretchr/testify/require"
)

func loadPetstore(t *testing.T) (*Result, *model.Spec) {
	t.Helper()

	result, err := LoadFile(context.Background(), filepath.Join("testdata", "petstore.yaml"))
	require.NoError(t, err)

	spec, err := Transform(result)
	require.NoError(t, err)
	return result, spec
}

func TestLoadFile(t *testing.T) {
	result, spec := loadPetstore(t)

	require.Equal(t, "3.0.3", result.Version)
	require.NotNil(t, result.Source)
	require.NotNil(t, result.Raw)
	require.NotEmpty(t, result.Warnings)

	require.Equal(t, "Petstore", spec.Info.Title)
	require.Equal(t, "1.2.0", spec.Info.Version)
	require.Equal(t, "https://petstore.example.com/v1", spec.BaseURL())
	require.Len(t, spec.Security, 1)
	require.True(t, spec.Security[0].IsBearer())
	require.Same(t, result.Raw, spec.Document)
}

func TestTransformKeepsDeclarationOrder(t *testing.T) {
	_, spec := loadPetstore(t)

	var got []string
	for _, op := range spec.Operations {
		got = append(got, string(op.Method)+" "+op.Path)
	}
	require.Equal(t, []string{
		"GET /pets",
		"POST /pets",
		"GET /pets/{petId}",
		"DELETE /pets/{petId}",
	}, got)

	require.Len(t, spec.Paths, 2)
	require.Len(t, spec.Paths[1].Operations, 2)
}

func TestTransformParameters(t *testing.T) {
	_, spec := loadPetstore(t)

	op, ok := spec.Operation(model.MethodGet, "/pets")
	require.True(t, ok)
	require.Len(t, op.Parameters, 2)

	limit := op.Parameters[0]
	require.Equal(t, "limit", limit.Name)
	require.Equal(t, model.LocationQuery, limit.In)
	require.True(t, limit.HasExample)
	require.Equal(t, int64(20), limit.Example)
	require.True(t, schema.ObjectOf("type", "integer", "maximum", int64(100)).Equal(limit.Schema.(*schema.Object)))

	status := op.Parameters[1]
	require.Equal(t, "status", status.Name)
	require.False(t, status.HasExample)
	node, ok := status.Schema.(*schema.Object)
	require.True(t, ok)
	require.Equal(t, []any{"available", "pending", "sold"}, node.Slice("enum"))
}

func TestTransformBodiesAndResponses(t *testing.T) {
	_, spec := loadPetstore(t)

	create, ok := spec.Operation(model.MethodPost, "/pets")
	require.True(t, ok)
	require.Equal(t, "createPet", create.Title())
	require.True(t, create.RequestBody.Required)
	node, ok := create.RequestBody.JSONSchema()
	require.True(t, ok)
	require.True(t, schema.ObjectOf("$ref", "#/components/schemas/NewPet").Equal(node.(*schema.Object)))
	require.Len(t, create.Security, 1)
	require.Equal(t, "bearerAuth", create.Security[0].Name)

	list, ok := spec.Operation(model.MethodGet, "/pets")
	require.True(t, ok)
	require.Len(t, list.Responses, 2)
	require.Equal(t, "200", list.Responses[0].StatusCode)
	require.Equal(t, "default", list.Responses[1].StatusCode)

	errorSchema, ok := list.Responses[1].JSONSchema()
	require.True(t, ok)
	require.Equal(t, []string{"type", "properties"}, errorSchema.(*schema.Object).Keys())

	get, ok := spec.Operation(model.MethodGet, "/pets/{petId}")
	require.True(t, ok)
	notFound, ok := get.Response("404")
	require.True(t, ok)
	_, ok = notFound.JSONSchema()
	require.False(t, ok)
	require.False(t, notFound.Success())
}

func TestLoadRejectsSwagger(t *testing.T) {
	_, err := Load(context.Background(), []byte(`swagger: "2.0"
info:
  title: Old
  version: "1"
paths: {}
`))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFile(ctx, filepath.Join("testdata", "petstore.yaml"))
	require.ErrorIs(t, err, context.Canceled)
}
