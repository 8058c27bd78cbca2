package schema

import "errors"

var (
	// ErrDecodeDocument is returned when document bytes are not valid YAML or JSON.
	ErrDecodeDocument = errors.New("decode document")
	// ErrDocumentTooLarge is returned when alias expansion makes a document
	// exceed the decoded node limit.
	ErrDocumentTooLarge = errors.New("document too large after alias expansion")
	// ErrRecursiveAlias is returned when an anchor contains an alias to itself.
	ErrRecursiveAlias = errors.New("recursive yaml alias")
	// ErrPointerNotFound is returned when a pointer does not lead to a node.
	ErrPointerNotFound = errors.New("pointer not found")
	// ErrEncodeJSON is returned when an example value cannot be encoded as JSON.
	ErrEncodeJSON = errors.New("encode example json")
	// ErrEncodeYAML is returned when an example value cannot be encoded as YAML.
	ErrEncodeYAML = errors.New("encode example yaml")
)
