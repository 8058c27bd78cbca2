package schema

import (
	"bytes"
	"iter"
	"reflect"

	"github.com/goccy/go-json"
)

// Object is a JSON object that remembers key insertion order.
// Documents decode mappings into Objects so that property declaration order
// survives into generated examples.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an Object from alternating key/value arguments.
func ObjectOf(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		o.Set(key, pairs[i+1])
	}
	return o
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. Overwriting keeps the key's original position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// All iterates entries in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}
		for _, key := range o.keys {
			if !yield(key, o.values[key]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (o *Object) Clone() *Object {
	out := &Object{
		keys:   make([]string, 0, o.Len()),
		values: make(map[string]any, o.Len()),
	}
	for key, value := range o.All() {
		out.Set(key, value)
	}
	return out
}

// With returns a shallow copy of o with key set to value. o is left untouched.
func (o *Object) With(key string, value any) *Object {
	out := o.Clone()
	out.Set(key, value)
	return out
}

// String returns the value of key when it is a non-empty string.
func (o *Object) String(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Object returns the value of key when it is itself an Object.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Object)
	if !ok || child == nil {
		return nil, false
	}
	return child, true
}

// Slice returns the value of key when it is a sequence.
func (o *Object) Slice(key string) []any {
	v, _ := o.Get(key)
	items, _ := v.([]any)
	return items
}

// Int returns the value of key as an integer when it holds a whole number.
func (o *Object) Int(key string) (int, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// Equal reports whether both objects hold the same entries in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, key := range o.Keys() {
		if other.keys[i] != key {
			return false
		}
		if !valuesEqual(o.values[key], other.values[key]) {
			return false
		}
	}
	return true
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.MarshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		v, err := json.MarshalNoEscape(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) MarshalYAML() (any, error) {
	return yamlNodeForValue(o)
}

func valuesEqual(a, b any) bool {
	switch left := a.(type) {
	case *Object:
		right, ok := b.(*Object)
		return ok && left.Equal(right)
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !valuesEqual(left[i], right[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
