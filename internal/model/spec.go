package model

import (
	"slices"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/schema"
)

// DefaultBaseURL is used when the document declares no servers.
const DefaultBaseURL = "https://api.example.com"

type Spec struct {
	Info       Info
	Servers    []Server
	Tags       []Tag
	Paths      []Path
	Operations []Operation
	Security   []SecurityScheme

	// Document is the order-preserving raw tree every schema slot points into.
	Document *schema.Document
}

// BaseURL returns the first server URL without a trailing slash.
func (s *Spec) BaseURL() string {
	for _, server := range s.Servers {
		if server.URL != "" {
			return strings.TrimRight(server.URL, "/")
		}
	}
	return DefaultBaseURL
}

// Operation looks up an operation by method and path template.
func (s *Spec) Operation(method Method, path string) (*Operation, bool) {
	for i := range s.Operations {
		op := &s.Operations[i]
		if op.Method == method && op.Path == path {
			return op, true
		}
	}
	return nil, false
}

// FilterTags keeps operations whose tags pass the include and exclude lists.
// An empty include list keeps every tag. Untagged operations are only
// dropped when an include list is given.
func (s *Spec) FilterTags(include, exclude []string) {
	if len(include) == 0 && len(exclude) == 0 {
		return
	}

	keep := func(op Operation) bool {
		for _, tag := range op.Tags {
			if slices.Contains(exclude, tag) {
				return false
			}
		}
		if len(include) == 0 {
			return true
		}
		for _, tag := range op.Tags {
			if slices.Contains(include, tag) {
				return true
			}
		}
		return false
	}

	s.Operations = slices.DeleteFunc(s.Operations, func(op Operation) bool {
		return !keep(op)
	})

	paths := s.Paths[:0]
	for _, path := range s.Paths {
		path.Operations = slices.DeleteFunc(path.Operations, func(op Operation) bool {
			return !keep(op)
		})
		if len(path.Operations) > 0 {
			paths = append(paths, path)
		}
	}
	s.Paths = paths
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

type Tag struct {
	Name        string
	Summary     string // OpenAPI 3.2
	Description string
}

type Path struct {
	Path       string
	Operations []Operation
}
