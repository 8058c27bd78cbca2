package page

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/nav"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/feyyazcankose/render-api-docs/internal/tryit"
)

var ErrNoOperations = errors.New("document declares no operations")

const (
	ExampleJSON = "json"
	ExampleYAML = "yaml"
)

const (
	NoDescription = "No description available"
	NoContent     = "No content available"
	DefaultLabel  = "Response"
)

// Builder turns a loaded spec into page views.
type Builder struct {
	spec          *model.Spec
	synth         *schema.Synthesizer
	introspector  *schema.Introspector
	title         string
	theme         string
	baseURL       string
	exampleFormat string
	logger        *slog.Logger
}

type BuilderOption func(*Builder)

func WithTitle(title string) BuilderOption {
	return func(b *Builder) {
		if title != "" {
			b.title = title
		}
	}
}

func WithTheme(theme string) BuilderOption {
	return func(b *Builder) {
		b.theme = theme
	}
}

func WithBaseURL(baseURL string) BuilderOption {
	return func(b *Builder) {
		if baseURL != "" {
			b.baseURL = baseURL
		}
	}
}

// WithExampleFormat selects how examples are printed: ExampleJSON or
// ExampleYAML.
func WithExampleFormat(format string) BuilderOption {
	return func(b *Builder) {
		if format != "" {
			b.exampleFormat = format
		}
	}
}

func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func NewBuilder(spec *model.Spec, synth *schema.Synthesizer, opts ...BuilderOption) *Builder {
	b := &Builder{
		spec:          spec,
		synth:         synth,
		introspector:  schema.NewIntrospector(spec.Document),
		title:         spec.Info.Title,
		baseURL:       spec.BaseURL(),
		exampleFormat: ExampleJSON,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Build() (*Page, error) {
	if len(b.spec.Operations) == 0 {
		return nil, ErrNoOperations
	}

	navigation := nav.Build(b.spec)
	p := &Page{
		Title:       b.title,
		Version:     b.spec.Info.Version,
		Description: sanitize(b.spec.Info.Description),
		BaseURL:     b.baseURL,
		Theme:       b.theme,
		Navigation:  navigation,
	}
	if entry, ok := navigation.Default(); ok {
		p.DefaultAnchor = entry.Anchor
	}

	for _, entry := range navigation.Entries() {
		op, ok := b.spec.Operation(entry.Method, entry.Path)
		if !ok {
			continue
		}
		endpoint, err := b.Endpoint(op)
		if err != nil {
			return nil, err
		}
		p.Endpoints = append(p.Endpoints, endpoint)
	}

	return p, nil
}

// Endpoint builds the detail view of one operation.
func (b *Builder) Endpoint(op *model.Operation) (Endpoint, error) {
	e := Endpoint{
		Entry: nav.Entry{
			Method:      op.Method,
			Path:        op.Path,
			Summary:     op.Title(),
			OperationID: op.ID,
			Anchor:      nav.Anchor(op.Method, op.Path),
		},
		Title:       op.Title(),
		Description: sanitize(op.Description),
		Deprecated:  op.Deprecated,
		Fields:      tryit.Fields(b.spec.Document, op),
	}

	for _, p := range op.Parameters {
		e.Parameters = append(e.Parameters, b.parameter(p))
	}

	for _, scheme := range b.spec.Security {
		if scheme.IsBearer() {
			e.Auth = append(e.Auth, AuthView{
				Name:         scheme.Name,
				BearerFormat: scheme.BearerFormat,
				Description:  scheme.Description,
			})
		}
	}

	var body []byte
	if node, ok := op.RequestBody.JSONSchema(); ok {
		example, text, err := b.example(node, schema.Pointer(operationTokens(op, "requestBody")...))
		if err != nil {
			return Endpoint{}, fmt.Errorf("request body example for %s %s: %w", op.Method, op.Path, err)
		}
		e.Body = &BodyView{
			Required:    op.RequestBody.Required,
			Description: op.RequestBody.Description,
			Type:        b.introspector.TypeLabel(node),
			Example:     text,
			Properties:  b.properties(node),
		}
		if body, err = schema.MarshalJSON(example, ""); err != nil {
			return Endpoint{}, fmt.Errorf("request body example for %s %s: %w", op.Method, op.Path, err)
		}
	}

	for i := range op.Responses {
		resp := &op.Responses[i]
		view := ResponseView{
			StatusCode: resp.StatusCode,
			Label:      resp.Description,
			Success:    resp.Success(),
			Example:    NoContent,
		}
		if view.Label == "" {
			view.Label = DefaultLabel
		}
		if node, ok := resp.JSONSchema(); ok {
			_, text, err := b.example(node, schema.Pointer(operationTokens(op, "responses", resp.StatusCode)...))
			if err != nil {
				return Endpoint{}, fmt.Errorf("response %s example for %s %s: %w", resp.StatusCode, op.Method, op.Path, err)
			}
			view.HasContent = true
			view.Type = b.introspector.TypeLabel(node)
			view.Example = text
			view.Properties = b.properties(node)
		}
		e.Responses = append(e.Responses, view)
	}

	e.Curl = Curl(op.Method, b.baseURL+op.Path, len(b.spec.Security) > 0, body)

	return e, nil
}

func (b *Builder) parameter(p model.Parameter) ParameterView {
	node := b.object(p.Schema)

	view := ParameterView{
		Name:        p.Name,
		Type:        b.introspector.TypeLabel(p.Schema),
		Required:    p.Required,
		Deprecated:  p.Deprecated,
		Description: p.Description,
	}
	if p.In != model.LocationQuery {
		view.In = p.In
	}

	switch {
	case p.HasExample:
		view.Example = schema.Display(p.Example)
	case node.Has("example"):
		example, _ := node.Get("example")
		view.Example = schema.Display(example)
	}

	for _, v := range node.Slice("enum") {
		view.Enum = append(view.Enum, schema.Display(v))
	}

	return view
}

// properties lists the first level of an object schema, or of the items of
// an array schema.
func (b *Builder) properties(node any) []PropertyView {
	object := b.object(node)
	if items, ok := object.Get("items"); ok && !object.Has("properties") {
		object = b.object(items)
	}

	props, ok := object.Object("properties")
	if !ok {
		return nil
	}

	required := make(map[string]bool)
	for _, name := range object.Slice("required") {
		if s, ok := name.(string); ok {
			required[s] = true
		}
	}

	var out []PropertyView
	for name, prop := range props.All() {
		description, _ := b.object(prop).String("description")
		out = append(out, PropertyView{
			Name:        name,
			Type:        b.introspector.TypeLabel(prop),
			Required:    required[name],
			Description: description,
			Expandable:  b.introspector.HasNestedContent(prop),
		})
	}
	return out
}

func (b *Builder) object(node any) *schema.Object {
	target, ok := b.spec.Document.Deref(node)
	if !ok {
		return schema.NewObject()
	}
	object, ok := target.(*schema.Object)
	if !ok || object == nil {
		return schema.NewObject()
	}
	return object
}

// example synthesizes the example for node and prints it in the configured
// format. location names where node sits in the document.
func (b *Builder) example(node any, location string) (any, string, error) {
	value, issues := b.synth.Generate(node)
	for _, issue := range issues {
		b.logger.Debug("example placeholder", "location", location, "kind", issue.Kind, "path", issue.Path, "ref", issue.Ref)
	}

	var (
		data []byte
		err  error
	)
	if b.exampleFormat == ExampleYAML {
		data, err = schema.MarshalYAML(value)
	} else {
		data, err = schema.MarshalJSON(value, "  ")
	}
	if err != nil {
		return nil, "", err
	}
	return value, string(data), nil
}

func operationTokens(op *model.Operation, more ...string) []string {
	return append([]string{"paths", op.Path, strings.ToLower(string(op.Method))}, more...)
}
