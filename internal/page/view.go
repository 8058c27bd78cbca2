package page

import (
	"html/template"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/nav"
	"github.com/feyyazcankose/render-api-docs/internal/tryit"
)

// Page is the data handed to the page templates.
type Page struct {
	Title       string
	Version     string
	Description template.HTML
	BaseURL     string
	Theme       string
	Navigation  *nav.Navigation
	Endpoints   []Endpoint
	// DefaultAnchor is the endpoint shown when the URL carries no hash.
	DefaultAnchor string
}

type Endpoint struct {
	nav.Entry
	Title       string
	Description template.HTML
	Deprecated  bool
	Parameters  []ParameterView
	Auth        []AuthView
	Body        *BodyView
	Responses   []ResponseView
	Curl        string
	Fields      []tryit.Field
}

type ParameterView struct {
	Name string
	// In is empty for query parameters, which are the common case.
	In          model.ParameterLocation
	Type        string
	Required    bool
	Deprecated  bool
	Description string
	Example     string
	Enum        []string
}

type AuthView struct {
	Name         string
	BearerFormat string
	Description  string
}

type BodyView struct {
	Required    bool
	Description string
	Type        string
	Example     string
	Properties  []PropertyView
}

type ResponseView struct {
	StatusCode string
	Label      string
	Success    bool
	HasContent bool
	Type       string
	Example    string
	Properties []PropertyView
}

// PropertyView is one row of a schema's property list. Expandable marks
// properties whose own schema has nested content.
type PropertyView struct {
	Name        string
	Type        string
	Required    bool
	Description string
	Expandable  bool
}
