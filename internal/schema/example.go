package schema

import (
	"math"
	"strconv"
	"strings"
)

// Marker is a placeholder value the synthesizer emits instead of real data.
// Markers encode as plain strings.
type Marker string

const (
	// MarkerCircular replaces a schema fragment that was already expanded.
	MarkerCircular Marker = "..."
	// MarkerRefNotFound replaces a $ref that does not resolve.
	MarkerRefNotFound Marker = "ref not found"
)

// maxListedProperties is how many declared properties an object example
// shows besides the required ones.
const maxListedProperties = 3

// maxGeneratedLength caps the item count of array examples and the length of
// string examples driven by minItems and minLength.
const maxGeneratedLength = 1000

var formatExamples = map[string]string{
	"date":      "2023-12-01",
	"date-time": "2023-12-01T12:00:00Z",
	"email":     "example@email.com",
	"uri":       "https://example.com",
	"uuid":      "123e4567-e89b-12d3-a456-426614174000",
}

type IssueKind string

const (
	IssueCircular      IssueKind = "circular"
	IssueUnresolvedRef IssueKind = "unresolved-ref"
)

// Issue records a marker substitution made while building an example.
type Issue struct {
	Kind IssueKind
	Path string
	Ref  string
}

// BranchSelector picks which anyOf/oneOf branch to synthesize.
type BranchSelector func(keyword string, branches []any) int

// FirstBranch always picks the first branch.
func FirstBranch(string, []any) int { return 0 }

// CycleStrategy controls how repeated schema fragments are detected.
type CycleStrategy string

const (
	// CycleStructural flags any fragment structurally equal to one already
	// expanded during the same call, even in an unrelated branch.
	CycleStructural CycleStrategy = "structural"
	// CycleReference flags a $ref only while it is being expanded higher up
	// the current path.
	CycleReference CycleStrategy = "reference"
)

type Option func(*Synthesizer)

func WithBranchSelector(selector BranchSelector) Option {
	return func(s *Synthesizer) {
		if selector != nil {
			s.selectBranch = selector
		}
	}
}

func WithCycleStrategy(strategy CycleStrategy) Option {
	return func(s *Synthesizer) {
		if strategy != "" {
			s.cycles = strategy
		}
	}
}

// Synthesizer builds representative example values from schema nodes.
// It holds no per-call state and may be shared.
type Synthesizer struct {
	doc          *Document
	selectBranch BranchSelector
	cycles       CycleStrategy
}

func NewSynthesizer(doc *Document, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		doc:          doc,
		selectBranch: FirstBranch,
		cycles:       CycleStructural,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Example returns an example value for node. It never fails: unresolved
// references and cycles become Marker values.
func (s *Synthesizer) Example(node any) any {
	value, _ := s.Generate(node)
	return value
}

// Generate is Example plus the list of marker substitutions it made.
func (s *Synthesizer) Generate(node any) (any, []Issue) {
	w := &exampleWalker{
		synth:      s,
		visited:    make(map[string]struct{}),
		activeRefs: make(map[string]int),
	}
	value := w.build(node, "#")
	return value, w.issues
}

type exampleWalker struct {
	synth      *Synthesizer
	visited    map[string]struct{}
	activeRefs map[string]int
	issues     []Issue
}

func (w *exampleWalker) build(node any, path string) any {
	if node == nil {
		return NewObject()
	}

	if w.synth.cycles == CycleStructural {
		key := structuralKey(node)
		if _, seen := w.visited[key]; seen {
			w.issues = append(w.issues, Issue{Kind: IssueCircular, Path: path})
			return MarkerCircular
		}
		w.visited[key] = struct{}{}
	}

	object, ok := node.(*Object)
	if !ok {
		return "any"
	}

	if ref, ok := object.String("$ref"); ok {
		return w.buildReference(ref, path)
	}

	if value, ok := object.Get("example"); ok {
		return value
	}

	for _, keyword := range []string{"anyOf", "oneOf"} {
		if branches := object.Slice(keyword); len(branches) > 0 {
			index := w.synth.selectBranch(keyword, branches)
			if index < 0 || index >= len(branches) {
				index = 0
			}
			return w.build(branches[index], path+"/"+keyword+"/"+strconv.Itoa(index))
		}
	}

	if parts := object.Slice("allOf"); len(parts) > 0 {
		return w.buildAllOf(parts, path)
	}

	if values := object.Slice("enum"); len(values) > 0 {
		return values[0]
	}

	typeName, _ := schemaType(object)
	switch typeName {
	case "object":
		if _, ok := object.Object("properties"); ok {
			return w.buildObject(object, path)
		}
		return unknownType(object)
	case "array":
		if hasItems(object) {
			return w.buildArray(object, path)
		}
		return unknownType(object)
	case "string":
		return stringExample(object)
	case "number":
		return numberExample(object, 123.45)
	case "integer":
		return numberExample(object, int64(123))
	case "boolean":
		if value, ok := object.Get("default"); ok {
			return value
		}
		return true
	case "null":
		return nil
	case "":
		if _, ok := object.Object("properties"); ok {
			return w.build(object.With("type", "object"), path)
		}
		if hasItems(object) {
			return w.build(object.With("type", "array"), path)
		}
		return "any"
	default:
		return unknownType(object)
	}
}

// unknownType is the example for a type the synthesizer cannot expand.
func unknownType(object *Object) any {
	if value, ok := truthyDefault(object); ok {
		return value
	}
	return "unknown type"
}

func (w *exampleWalker) buildReference(ref, path string) any {
	target, ok := w.synth.doc.Resolve(ref)
	if !ok {
		w.issues = append(w.issues, Issue{Kind: IssueUnresolvedRef, Path: path, Ref: ref})
		return MarkerRefNotFound
	}

	if w.synth.cycles == CycleReference {
		if w.activeRefs[ref] > 0 {
			w.issues = append(w.issues, Issue{Kind: IssueCircular, Path: path, Ref: ref})
			return MarkerCircular
		}
		w.activeRefs[ref]++
		defer func() {
			w.activeRefs[ref]--
		}()
	}

	return w.build(target, "#/"+strings.TrimPrefix(ref, "#/"))
}

// buildAllOf merges the object examples of every part into a new object.
// Later parts overwrite keys set by earlier ones.
func (w *exampleWalker) buildAllOf(parts []any, path string) *Object {
	merged := NewObject()
	for i, part := range parts {
		value := w.build(part, path+"/allOf/"+strconv.Itoa(i))
		object, ok := value.(*Object)
		if !ok || object == nil {
			continue
		}
		for key, item := range object.All() {
			merged.Set(key, item)
		}
	}
	return merged
}

// buildObject includes required properties plus the first few declared ones.
func (w *exampleWalker) buildObject(object *Object, path string) *Object {
	out := NewObject()
	properties, _ := object.Object("properties")
	required := requiredSet(object)

	for index, key := range properties.Keys() {
		if _, ok := required[key]; !ok && index >= maxListedProperties {
			continue
		}
		value, _ := properties.Get(key)
		out.Set(key, w.build(value, path+"/properties/"+EscapeToken(key)))
	}

	switch extra := mustGet(object, "additionalProperties").(type) {
	case bool:
		if extra {
			out.Set("additionalProperty", "any value")
		}
	case *Object:
		out.Set("additionalProperty", w.build(extra, path+"/additionalProperties"))
	}

	return out
}

// buildArray repeats a single item example; every element is the same value.
func (w *exampleWalker) buildArray(object *Object, path string) []any {
	item := w.build(mustGet(object, "items"), path+"/items")
	out := make([]any, arrayLength(object))
	for i := range out {
		out[i] = item
	}
	return out
}

// arrayLength is max(minItems ?? 1, min(maxItems ?? 3, 3, 2)), capped at
// maxGeneratedLength.
func arrayLength(object *Object) int {
	minItems := 1
	if n, ok := object.Int("minItems"); ok {
		minItems = n
	}
	maxItems := 3
	if n, ok := object.Int("maxItems"); ok {
		maxItems = n
	}
	return min(max(minItems, min(maxItems, 3, 2), 0), maxGeneratedLength)
}

func stringExample(object *Object) any {
	if format, ok := object.String("format"); ok {
		if value, known := formatExamples[format]; known {
			return value
		}
	}

	if _, ok := object.String("pattern"); ok {
		return "string matching pattern"
	}

	minLength, _ := object.Int("minLength")
	maxLength, _ := object.Int("maxLength")
	if minLength > 0 || maxLength > 0 {
		length := minLength
		if length <= 0 {
			length = min(maxLength, 10)
		}
		return strings.Repeat("x", min(max(length, 0), maxGeneratedLength))
	}

	if value, ok := truthyDefault(object); ok {
		return value
	}
	return "string"
}

func numberExample(object *Object, fallback any) any {
	if value, ok := object.Get("minimum"); ok {
		return value
	}
	if value, ok := object.Get("maximum"); ok {
		return capNumber(value, 100)
	}
	if value, ok := truthyDefault(object); ok {
		return value
	}
	return fallback
}

func capNumber(value any, limit int64) any {
	switch n := value.(type) {
	case int64:
		return min(n, limit)
	case int:
		return min(int64(n), limit)
	case float64:
		return math.Min(n, float64(limit))
	default:
		return value
	}
}

// schemaType returns the node's type. For type lists the first non-null
// entry wins.
func schemaType(object *Object) (string, bool) {
	raw, ok := object.Get("type")
	if !ok {
		return "", false
	}

	switch typed := raw.(type) {
	case string:
		return typed, typed != ""
	case []any:
		hasNull := false
		for _, item := range typed {
			name, _ := item.(string)
			if name == "null" {
				hasNull = true
				continue
			}
			if name != "" {
				return name, true
			}
		}
		if hasNull {
			return "null", true
		}
	}
	return "", false
}

func hasItems(object *Object) bool {
	switch items := mustGet(object, "items").(type) {
	case nil:
		return false
	case bool:
		return items
	default:
		return true
	}
}

func requiredSet(object *Object) map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range object.Slice("required") {
		if name, ok := item.(string); ok {
			out[name] = struct{}{}
		}
	}
	return out
}

// truthyDefault returns the default value unless it is missing, null, false,
// zero or empty.
func truthyDefault(object *Object) (any, bool) {
	value, ok := object.Get("default")
	if !ok {
		return nil, false
	}

	switch typed := value.(type) {
	case nil:
		return nil, false
	case bool:
		return typed, typed
	case string:
		return typed, typed != ""
	case int64:
		return typed, typed != 0
	case int:
		return typed, typed != 0
	case float64:
		return typed, typed != 0 && !math.IsNaN(typed)
	default:
		return typed, true
	}
}

func mustGet(object *Object, key string) any {
	value, _ := object.Get(key)
	return value
}
