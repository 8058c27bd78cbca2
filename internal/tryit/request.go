package tryit

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
)

// Field names used in InputError for inputs that are not parameters.
const (
	FieldAuthorization = "Authorization"
	FieldBody          = "request body"
)

// Input is what a reader fills into the try-it form.
type Input struct {
	// Params holds parameter values by parameter name.
	Params  map[string]string
	Headers map[string]string
	Token   string
	Body    string
	// Repair lets malformed JSON bodies through when they can be repaired.
	Repair bool
}

// Request is the request the form would send.
type Request struct {
	Method model.Method
	// Endpoint is the path with parameters substituted plus the query string.
	Endpoint string
	URL      string
	Header   http.Header
	Body     []byte
	// Repaired is set when Body was produced by repairing the input.
	Repaired bool
}

// HTTPRequest converts r into an *http.Request. It is never sent.
func (r *Request) HTTPRequest() (*http.Request, error) {
	req, err := http.NewRequest(string(r.Method), r.URL, strings.NewReader(string(r.Body)))
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	req.Header = r.Header.Clone()
	return req, nil
}

// BuildRequest checks required inputs and assembles the request for op.
func BuildRequest(spec *model.Spec, op *model.Operation, baseURL string, in Input) (*Request, error) {
	if err := checkRequired(spec, op, in); err != nil {
		return nil, err
	}

	req := &Request{
		Method: op.Method,
		Header: make(http.Header),
	}

	if token := strings.TrimSpace(in.Token); token != "" {
		req.Header.Set("Authorization", bearer(token))
	}

	path := op.Path
	var query []string
	for _, p := range op.Parameters {
		value := in.Params[p.Name]
		if value == "" {
			continue
		}
		switch p.In {
		case model.LocationPath:
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(value))
		case model.LocationQuery:
			query = append(query, url.QueryEscape(p.Name)+"="+url.QueryEscape(value))
		case model.LocationHeader:
			req.Header.Set(p.Name, value)
		}
	}
	for name, value := range in.Headers {
		req.Header.Set(name, value)
	}

	req.Endpoint = path
	if len(query) > 0 {
		req.Endpoint += "?" + strings.Join(query, "&")
	}
	req.URL = strings.TrimRight(baseURL, "/") + req.Endpoint

	if op.RequestBody != nil && strings.TrimSpace(in.Body) != "" {
		body, repaired, err := normalizeBody(in.Body, in.Repair)
		if err != nil {
			return nil, err
		}
		req.Body = body
		req.Repaired = repaired
		req.Header.Set("Content-Type", model.MediaTypeJSON)
	}

	return req, nil
}

func checkRequired(spec *model.Spec, op *model.Operation, in Input) error {
	var missing []string

	if len(spec.Security) > 0 && strings.TrimSpace(in.Token) == "" {
		missing = append(missing, FieldAuthorization)
	}

	for _, p := range op.Parameters {
		if p.Required && strings.TrimSpace(in.Params[p.Name]) == "" {
			missing = append(missing, p.Name)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Required && strings.TrimSpace(in.Body) == "" {
		missing = append(missing, FieldBody)
	}

	if len(missing) > 0 {
		return &InputError{Fields: missing}
	}
	return nil
}

func bearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// normalizeBody validates the body as JSON and strips insignificant
// whitespace. Values are passed through byte for byte.
func normalizeBody(body string, repair bool) ([]byte, bool, error) {
	repaired := false
	if !json.Valid([]byte(body)) {
		if !repair {
			return nil, false, ErrInvalidBody
		}
		fixed, err := jsonrepair.JSONRepair(body)
		if err != nil || !json.Valid([]byte(fixed)) {
			return nil, false, fmt.Errorf("%w: repair failed", ErrInvalidBody)
		}
		body = fixed
		repaired = true
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(body)); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return compact.Bytes(), repaired, nil
}
