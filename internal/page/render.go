package page

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/feyyazcankose/render-api-docs/internal/templates"
	embeddedtmpl "github.com/feyyazcankose/render-api-docs/templates"
)

type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

const (
	indexTemplate    = "page/index.html.tmpl"
	documentTemplate = "page/document.html.tmpl"
	endpointTemplate = "page/endpoint.html.tmpl"
)

// Renderer executes the page templates. Templates found in the custom
// directory replace the embedded ones with the same relative name.
type Renderer struct {
	engine templates.Engine
}

func NewRenderer(customDir string) (*Renderer, error) {
	engine, err := templates.NewEngine(embeddedtmpl.FS, customDir, Funcs())
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Render(p *Page, format Format) (string, error) {
	switch format {
	case FormatHTML, "":
		return r.engine.Execute(indexTemplate, p)
	case FormatMarkdown:
		html, err := r.engine.Execute(documentTemplate, p)
		if err != nil {
			return "", err
		}
		markdown, err := htmltomarkdown.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("converting page to markdown: %w", err)
		}
		return markdown, nil
	default:
		return "", fmt.Errorf("unsupported page format: %s", format)
	}
}

// RenderEndpoint renders the detail section of a single endpoint.
func (r *Renderer) RenderEndpoint(e Endpoint) (string, error) {
	return r.engine.Execute(endpointTemplate, e)
}
