package tryit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/feyyazcankose/render-api-docs/internal/loader"
	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/stretchr/testify/require"
)

const usersDocument = `
openapi: 3.0.3
info:
  title: Users
  version: "1"
servers:
  - url: https://api.test
paths:
  /api/users/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
        - name: q
          in: query
          schema:
            type: string
            example: a b
        - name: X-Trace
          in: header
          schema:
            type: string
        - name: status
          in: query
          schema:
            $ref: "#/components/schemas/Status"
      responses:
        "200":
          description: The user.
          content:
            application/json:
              schema:
                type: object
                properties:
                  id:
                    type: integer
                    minimum: 5
                  name:
                    type: string
  /api/users:
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/User"
      responses:
        "201":
          description: Created.
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
  schemas:
    Status:
      type: string
      enum: [active, inactive]
      default: inactive
    User:
      type: object
      properties:
        name:
          type: string
`

func loadUsers(t *testing.T) (*loader.Result, *model.Spec) {
	t.Helper()
	result, err := loader.Load(context.Background(), []byte(usersDocument))
	require.NoError(t, err)
	spec, err := loader.Transform(result)
	require.NoError(t, err)
	return result, spec
}

func operation(t *testing.T, spec *model.Spec, method model.Method, path string) *model.Operation {
	t.Helper()
	op, ok := spec.Operation(method, path)
	require.True(t, ok)
	return op
}

func TestBuildRequestMissingRequired(t *testing.T) {
	_, spec := loadUsers(t)

	_, err := BuildRequest(spec, operation(t, spec, model.MethodGet, "/api/users/{id}"), spec.BaseURL(), Input{})
	require.ErrorIs(t, err, ErrMissingRequired)

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	require.Equal(t, []string{FieldAuthorization, "id"}, inputErr.Fields)

	_, err = BuildRequest(spec, operation(t, spec, model.MethodPost, "/api/users"), spec.BaseURL(), Input{Token: "t", Body: "  "})
	require.True(t, errors.As(err, &inputErr))
	require.Equal(t, []string{FieldBody}, inputErr.Fields)
}

func TestBuildRequest(t *testing.T) {
	_, spec := loadUsers(t)
	op := operation(t, spec, model.MethodGet, "/api/users/{id}")

	req, err := BuildRequest(spec, op, spec.BaseURL(), Input{
		Token:   "abc",
		Params:  map[string]string{"id": "42", "q": "a b", "X-Trace": "t-1", "status": "active"},
		Headers: map[string]string{"Accept": "application/json"},
	})
	require.NoError(t, err)

	require.Equal(t, model.MethodGet, req.Method)
	require.Equal(t, "/api/users/42?q=a+b&status=active", req.Endpoint)
	require.Equal(t, "https://api.test/api/users/42?q=a+b&status=active", req.URL)
	require.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	require.Equal(t, "t-1", req.Header.Get("X-Trace"))
	require.Equal(t, "application/json", req.Header.Get("Accept"))
	require.Empty(t, req.Body)

	req, err = BuildRequest(spec, op, spec.BaseURL(), Input{
		Token:  "Bearer xyz",
		Params: map[string]string{"id": "a/b"},
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer xyz", req.Header.Get("Authorization"))
	require.Equal(t, "/api/users/a%2Fb", req.Endpoint)
}

func TestBuildRequestBody(t *testing.T) {
	_, spec := loadUsers(t)
	op := operation(t, spec, model.MethodPost, "/api/users")

	tests := []struct {
		name         string
		body         string
		repair       bool
		want         string
		wantRepaired bool
		wantErr      error
	}{
		{name: "compacted in order", body: "{ \"b\": 1,\n \"a\": [true, null] }", want: `{"b":1,"a":[true,null]}`},
		{name: "numbers kept verbatim", body: `{"id": 12345678901234567890, "price": 1.0, "ratio": 1e-7}`, want: `{"id":12345678901234567890,"price":1.0,"ratio":1e-7}`},
		{name: "invalid", body: `{name: 'x',}`, wantErr: ErrInvalidBody},
		{name: "repaired", body: `{name: 'x',}`, repair: true, want: `{"name":"x"}`, wantRepaired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(spec, op, spec.BaseURL(), Input{Token: "t", Body: tt.body, Repair: tt.repair})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, string(req.Body))
			require.Equal(t, tt.wantRepaired, req.Repaired)
			require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		})
	}
}

func TestSimulatorRun(t *testing.T) {
	result, spec := loadUsers(t)
	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC) }

	sim := New(spec, schema.NewSynthesizer(spec.Document), WithClock(clock), WithDocument(result.Source))
	out, err := sim.Run(context.Background(), operation(t, spec, model.MethodGet, "/api/users/{id}"), Input{
		Token:  "abc",
		Params: map[string]string{"id": "42"},
	})
	require.NoError(t, err)
	require.Empty(t, out.Violations)

	data, err := out.JSON()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"message": "This is a simulated response",
		"endpoint": "/api/users/42",
		"method": "GET",
		"timestamp": "2024-01-02T03:04:05.006Z",
		"data": {"id": 5, "name": "string"}
	}`, string(data))
	require.Equal(t, []string{"message", "endpoint", "method", "timestamp", "data"}, out.Response.Keys())
}

func TestSimulatorRunWithoutSuccessSchema(t *testing.T) {
	_, spec := loadUsers(t)

	sim := New(spec, schema.NewSynthesizer(spec.Document))
	out, err := sim.Run(context.Background(), operation(t, spec, model.MethodPost, "/api/users"), Input{
		Token: "abc",
		Body:  `{"name": "Ada"}`,
	})
	require.NoError(t, err)

	data, ok := out.Response.Object("data")
	require.True(t, ok)
	require.Equal(t, 0, data.Len())
}

func TestSimulatorReportsViolations(t *testing.T) {
	result, spec := loadUsers(t)

	sim := New(spec, schema.NewSynthesizer(spec.Document), WithDocument(result.Source))
	out, err := sim.Run(context.Background(), operation(t, spec, model.MethodGet, "/api/users/{id}"), Input{
		Token:  "abc",
		Params: map[string]string{"id": "not-a-number"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Violations)
}

func TestSimulatorRunCanceled(t *testing.T) {
	_, spec := loadUsers(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(spec, schema.NewSynthesizer(spec.Document))
	_, err := sim.Run(ctx, operation(t, spec, model.MethodGet, "/api/users/{id}"), Input{
		Token:  "abc",
		Params: map[string]string{"id": "1"},
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFields(t *testing.T) {
	_, spec := loadUsers(t)

	fields := Fields(spec.Document, operation(t, spec, model.MethodGet, "/api/users/{id}"))
	require.Equal(t, []Field{
		{Name: "id", In: model.LocationPath, Type: InputNumber, Required: true},
		{Name: "q", In: model.LocationQuery, Type: InputText, Placeholder: "a b"},
		{Name: "X-Trace", In: model.LocationHeader, Type: InputText},
		{
			Name:        "status",
			In:          model.LocationQuery,
			Type:        InputSelect,
			Placeholder: "inactive",
			Choices: []Choice{
				{Value: "active"},
				{Value: "inactive", Selected: true},
			},
		},
	}, fields)
}
