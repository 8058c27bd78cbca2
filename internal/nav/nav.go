package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
)

// DefaultGroup collects operations without tags.
const DefaultGroup = "Default"

var ErrUnknownAnchor = errors.New("unknown endpoint anchor")

type Entry struct {
	Method      model.Method
	Path        string
	Summary     string
	OperationID string
	Anchor      string
}

func (e Entry) Color() string       { return MethodColor(e.Method) }
func (e Entry) MethodLabel() string { return MethodLabel(e.Method) }

type Group struct {
	Name    string
	Entries []Entry
}

// Navigation is the sidebar tree: operations grouped by their first tag, in
// document order.
type Navigation struct {
	Groups []Group
}

func Build(spec *model.Spec) *Navigation {
	n := &Navigation{}
	index := make(map[string]int)

	for _, op := range spec.Operations {
		name := op.Tag()
		if name == "" {
			name = DefaultGroup
		}

		i, ok := index[name]
		if !ok {
			i = len(n.Groups)
			index[name] = i
			n.Groups = append(n.Groups, Group{Name: name})
		}

		n.Groups[i].Entries = append(n.Groups[i].Entries, Entry{
			Method:      op.Method,
			Path:        op.Path,
			Summary:     op.Title(),
			OperationID: op.ID,
			Anchor:      Anchor(op.Method, op.Path),
		})
	}

	return n
}

// Entries returns every entry in sidebar order.
func (n *Navigation) Entries() []Entry {
	var out []Entry
	for _, g := range n.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Default is the entry shown when no anchor is selected.
func (n *Navigation) Default() (Entry, bool) {
	for _, g := range n.Groups {
		if len(g.Entries) > 0 {
			return g.Entries[0], true
		}
	}
	return Entry{}, false
}

// Lookup finds the entry an anchor such as "GET--pets--petId-" points to.
// The method part is case-insensitive.
func (n *Navigation) Lookup(anchor string) (Entry, error) {
	method, rest, ok := strings.Cut(strings.TrimPrefix(anchor, "#"), "-")
	if !ok || method == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAnchor, anchor)
	}
	method = strings.ToUpper(method)

	for _, g := range n.Groups {
		for _, e := range g.Entries {
			if string(e.Method) == method && pathHash(e.Path) == rest {
				return e, nil
			}
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAnchor, anchor)
}

// Anchor is METHOD-<path with every non-alphanumeric byte replaced by '-'>.
func Anchor(method model.Method, path string) string {
	return strings.ToUpper(string(method)) + "-" + pathHash(path)
}

func pathHash(path string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, path)
}

var methodColors = map[model.Method]string{
	model.MethodGet:    "green",
	model.MethodPost:   "blue",
	model.MethodPut:    "yellow",
	model.MethodDelete: "red",
	model.MethodPatch:  "purple",
}

func MethodColor(m model.Method) string {
	if c, ok := methodColors[m]; ok {
		return c
	}
	return "gray"
}

// MethodLabel is the badge text; DELETE is shortened to DEL.
func MethodLabel(m model.Method) string {
	if m == model.MethodDelete {
		return "DEL"
	}
	return strings.ToUpper(string(m))
}
