package page

import (
	"html/template"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"lower":       strings.ToLower,
		"join":        strings.Join,
		"statusClass": statusClass,
		"location":    location,
	}
}

// statusClass is the CSS class of a response status badge.
func statusClass(success bool) string {
	if success {
		return "status-success"
	}
	return "status-error"
}

func location(in model.ParameterLocation) string {
	if in == "" {
		return ""
	}
	return "(" + string(in) + ")"
}
