package tryit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
)

const SimulatedMessage = "This is a simulated response"

// Violation is a request validation finding. Findings are reported, they do
// not stop the simulation.
type Violation struct {
	Message  string
	Reason   string
	HowToFix string
}

type Result struct {
	Request    *Request
	Response   *schema.Object
	Violations []Violation
}

// JSON returns the simulated response as indented JSON.
func (r *Result) JSON() ([]byte, error) {
	return schema.MarshalJSON(r.Response, "  ")
}

// Simulator builds try-it requests and answers them with synthesized data.
// It never performs network I/O.
type Simulator struct {
	spec      *model.Spec
	synth     *schema.Synthesizer
	baseURL   string
	document  libopenapi.Document
	validator validator.Validator
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Simulator)

// WithDocument enables request validation against doc.
func WithDocument(doc libopenapi.Document) Option {
	return func(s *Simulator) {
		s.document = doc
	}
}

func WithBaseURL(baseURL string) Option {
	return func(s *Simulator) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(spec *model.Spec, synth *schema.Synthesizer, opts ...Option) *Simulator {
	s := &Simulator{
		spec:    spec,
		synth:   synth,
		baseURL: spec.BaseURL(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.document != nil {
		v, errs := validator.NewValidator(s.document)
		if len(errs) > 0 {
			s.logger.Warn("request validation disabled", "error", errs[0])
		} else {
			s.validator = v
		}
	}
	return s
}

// Run builds the request for op from in, validates it against the document
// when a document was given, and returns the simulated response.
func (s *Simulator) Run(ctx context.Context, op *model.Operation, in Input) (*Result, error) {
	req, err := BuildRequest(s.spec, op, s.baseURL, in)
	if err != nil {
		return nil, err
	}
	if req.Repaired {
		s.logger.Info("request body repaired", "endpoint", req.Endpoint)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Request: req}

	if s.validator != nil {
		violations, err := s.validate(req)
		if err != nil {
			return nil, err
		}
		result.Violations = violations
	}

	var node any
	if resp, ok := op.Response("200"); ok {
		node, _ = resp.JSONSchema()
	}
	data, issues := s.synth.Generate(node)
	for _, issue := range issues {
		s.logger.Debug("example placeholder", "kind", issue.Kind, "path", issue.Path, "ref", issue.Ref)
	}

	result.Response = schema.ObjectOf(
		"message", SimulatedMessage,
		"endpoint", req.Endpoint,
		"method", string(req.Method),
		"timestamp", s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"data", data,
	)

	return result, nil
}

func (s *Simulator) validate(req *Request) ([]Violation, error) {
	httpReq, err := req.HTTPRequest()
	if err != nil {
		return nil, err
	}

	valid, errs := s.validator.ValidateHttpRequestSync(httpReq)
	if valid {
		return nil, nil
	}

	violations := make([]Violation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, Violation{
			Message:  e.Message,
			Reason:   e.Reason,
			HowToFix: e.HowToFix,
		})
		s.logger.Warn("request does not match document", "endpoint", req.Endpoint, "error", e.Message)
	}
	return violations, nil
}

func (v Violation) String() string {
	if v.Reason == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Message, v.Reason)
}
