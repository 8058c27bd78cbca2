package model

import "strings"

// Schema slots below hold raw nodes from Spec.Document. A nil slot means the
// document declares no schema there.

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
	Deprecated  bool
	Security    []SecurityRequirement
}

// Title is the summary, falling back to the operation id and then the path.
func (o *Operation) Title() string {
	switch {
	case o.Summary != "":
		return o.Summary
	case o.ID != "":
		return o.ID
	default:
		return o.Path
	}
}

// Tag is the first tag, used for grouping.
func (o *Operation) Tag() string {
	if len(o.Tags) == 0 {
		return ""
	}
	return o.Tags[0]
}

// Response returns the response declared for code.
func (o *Operation) Response(code string) (*Response, bool) {
	for i := range o.Responses {
		if o.Responses[i].StatusCode == code {
			return &o.Responses[i], true
		}
	}
	return nil, false
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodQuery   Method = "QUERY" // OpenAPI 3.2
)

// ParseMethod upper-cases s and reports whether it names a known method.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
		MethodHead, MethodOptions, MethodTrace, MethodQuery:
		return m, true
	}
	return "", false
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Example     any
	HasExample  bool
	Schema      any
}

type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaTypeContent
}

// JSONSchema returns the application/json schema node, if any.
func (b *RequestBody) JSONSchema() (any, bool) {
	if b == nil {
		return nil, false
	}
	return jsonSchema(b.Content)
}

type MediaTypeContent struct {
	MediaType string
	Schema    any
}

const MediaTypeJSON = "application/json"

type Response struct {
	StatusCode  string
	Description string
	Content     []MediaTypeContent
}

// JSONSchema returns the application/json schema node, if any.
func (r *Response) JSONSchema() (any, bool) {
	if r == nil {
		return nil, false
	}
	return jsonSchema(r.Content)
}

// Success reports whether the status code is in the 2xx class.
func (r *Response) Success() bool {
	return strings.HasPrefix(r.StatusCode, "2")
}

type SecurityRequirement struct {
	Name   string
	Scopes []string
}

func jsonSchema(content []MediaTypeContent) (any, bool) {
	for _, c := range content {
		if c.MediaType == MediaTypeJSON && c.Schema != nil {
			return c.Schema, true
		}
	}
	return nil, false
}
