package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

var ErrUnsupportedVersion = errors.New("unsupported OpenAPI version")

type Result struct {
	Document *libopenapi.DocumentModel[v3.Document]
	// Source is the parsed libopenapi document, kept for request validation.
	Source   libopenapi.Document
	Raw      *schema.Document
	Version  string
	Warnings []string
}

func LoadFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return loadWithConfig(ctx, data, config)
}

// Load parses an in-memory document. File references are not followed.
func Load(ctx context.Context, data []byte) (*Result, error) {
	return loadWithConfig(ctx, data, nil)
}

func loadWithConfig(ctx context.Context, data []byte, config *datamodel.DocumentConfiguration) (*Result, error) {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("%w: %q (only 3.x supported)", ErrUnsupportedVersion, version)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := doc.BuildV3Model()
	if model == nil {
		return nil, fmt.Errorf("building OpenAPI model: %w", err)
	}

	raw, rawErr := schema.ParseDocument(data)
	if rawErr != nil {
		return nil, fmt.Errorf("decoding OpenAPI document: %w", rawErr)
	}

	result := &Result{
		Document: model,
		Source:   doc,
		Raw:      raw,
		Version:  version,
	}

	// Circular schemas are reported but still produce a usable model.
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("model built with errors: %v", err))
	}

	if strings.HasPrefix(version, "3.0") {
		result.Warnings = append(result.Warnings, "OpenAPI 3.0.x detected; type lists and 3.1 keywords are not expected")
	}

	return result, nil
}
