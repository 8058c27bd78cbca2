package loader

import (
	"strconv"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

type transformer struct {
	raw *schema.Document
}

// Transform builds the page model. Schema slots are filled with raw nodes
// from result.Raw so that the example synthesizer sees declaration order
// and unresolved references exactly as written.
func Transform(result *Result) (*model.Spec, error) {
	doc := result.Document.Model

	t := &transformer{raw: result.Raw}

	spec := &model.Spec{
		Info:     transformInfo(doc.Info),
		Servers:  transformServers(doc.Servers),
		Tags:     transformTags(doc.Tags),
		Document: result.Raw,
	}

	if doc.Paths != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			path, ops := t.transformPath(pathStr, pathItem)
			spec.Paths = append(spec.Paths, path)
			spec.Operations = append(spec.Operations, ops...)
		}
	}

	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		for name, scheme := range doc.Components.SecuritySchemes.FromOldest() {
			spec.Security = append(spec.Security, transformSecurityScheme(name, scheme))
		}
	}

	return spec, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func transformTags(tags []*base.Tag) []model.Tag {
	var result []model.Tag
	for _, t := range tags {
		result = append(result, model.Tag{
			Name:        t.Name,
			Summary:     t.Summary,
			Description: t.Description,
		})
	}
	return result
}

func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) (model.Path, []model.Operation) {
	path := model.Path{Path: pathStr}
	var ops []model.Operation

	methods := []struct {
		method model.Method
		op     *v3.Operation
	}{
		{model.MethodGet, pathItem.Get},
		{model.MethodPost, pathItem.Post},
		{model.MethodPut, pathItem.Put},
		{model.MethodDelete, pathItem.Delete},
		{model.MethodPatch, pathItem.Patch},
		{model.MethodHead, pathItem.Head},
		{model.MethodOptions, pathItem.Options},
		{model.MethodTrace, pathItem.Trace},
		{model.MethodQuery, pathItem.Query}, // OpenAPI 3.2
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		operation := t.transformOperation(m.method, pathStr, m.op)
		ops = append(ops, operation)
		path.Operations = append(path.Operations, operation)
	}

	return path, ops
}

func (t *transformer) transformOperation(method model.Method, path string, op *v3.Operation) model.Operation {
	prefix := []string{"paths", path, strings.ToLower(string(method))}

	operation := model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
	}

	for i, p := range op.Parameters {
		operation.Parameters = append(operation.Parameters, t.transformParameter(p, at(prefix, "parameters", strconv.Itoa(i))))
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody, at(prefix, "requestBody"))
	}

	if op.Responses != nil {
		if op.Responses.Codes != nil {
			for code, resp := range op.Responses.Codes.FromOldest() {
				operation.Responses = append(operation.Responses, t.transformResponse(code, resp, at(prefix, "responses", code)))
			}
		}
		if op.Responses.Default != nil {
			operation.Responses = append(operation.Responses, t.transformResponse("default", op.Responses.Default, at(prefix, "responses", "default")))
		}
	}

	for _, secReq := range op.Security {
		for name, scopes := range secReq.Requirements.FromOldest() {
			operation.Security = append(operation.Security, model.SecurityRequirement{
				Name:   name,
				Scopes: scopes,
			})
		}
	}

	return operation
}

func (t *transformer) transformParameter(p *v3.Parameter, tokens []string) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
	}

	raw, ok := t.raw.Walk(tokens...)
	if !ok {
		return param
	}
	object, ok := raw.(*schema.Object)
	if !ok {
		return param
	}

	param.Example, param.HasExample = object.Get("example")
	if node, ok := object.Get("schema"); ok && node != nil {
		param.Schema = node
	} else if p.Content != nil {
		for mediaType := range p.Content.FromOldest() {
			if mtc := t.mediaType(mediaType, tokens); mtc.Schema != nil {
				param.Schema = mtc.Schema
				break
			}
		}
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody, tokens []string) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType := range rb.Content.FromOldest() {
			body.Content = append(body.Content, t.mediaType(mediaType, tokens))
		}
	}

	return body
}

func (t *transformer) transformResponse(code string, resp *v3.Response, tokens []string) model.Response {
	response := model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}

	if resp.Content != nil {
		for mediaType := range resp.Content.FromOldest() {
			response.Content = append(response.Content, t.mediaType(mediaType, tokens))
		}
	}

	return response
}

// mediaType locates the schema node under <tokens>/content/<mediaType>/schema.
// Only the outer $ref chain is followed; the schema node itself is returned
// as written.
func (t *transformer) mediaType(mediaType string, tokens []string) model.MediaTypeContent {
	mtc := model.MediaTypeContent{MediaType: mediaType}
	content, ok := t.raw.Walk(at(tokens, "content", mediaType)...)
	if !ok {
		return mtc
	}
	if object, ok := content.(*schema.Object); ok {
		mtc.Schema, _ = object.Get("schema")
	}
	return mtc
}

func transformSecurityScheme(name string, scheme *v3.SecurityScheme) model.SecurityScheme {
	return model.SecurityScheme{
		Name:         name,
		Type:         model.SecuritySchemeType(scheme.Type),
		Description:  scheme.Description,
		In:           scheme.In,
		Scheme:       scheme.Scheme,
		BearerFormat: scheme.BearerFormat,
	}
}

func at(tokens []string, more ...string) []string {
	out := make([]string, 0, len(tokens)+len(more))
	out = append(out, tokens...)
	return append(out, more...)
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
