// Package request describes a single GraphQL operation (query, mutation or
// subscription) together with the variables and headers it is sent with.
//
// A Request is immutable once constructed. Every modification goes through
// Merge which returns a new Request and never touches the receiver.
package request

import (
	"errors"
	"net/http"
	"net/textproto"

	"github.com/abn/aiographql-client/internal/pkg/deepcopy"
)

var ErrEmptyQuery = errors.New("request: query must not be empty")

// Operation is anything that can be turned into a Request. It is accepted by
// every client call that sends an operation, so callers may pass either a
// prepared *Request or a Raw query string.
type Operation interface {
	Request() *Request
}

// Raw is a query document given as plain text. It is wrapped into a Request
// with no variables, no headers and validation enabled.
type Raw string

func (r Raw) Request() *Request {
	return New(string(r))
}

type Request struct {
	query         string
	operationName string
	variables     map[string]any
	validate      bool
	headers       http.Header
}

type Option func(r *Request)

// WithOperationName selects a named operation of a multi-operation document.
func WithOperationName(name string) Option {
	return func(r *Request) {
		r.operationName = name
	}
}

func WithVariables(variables map[string]any) Option {
	return func(r *Request) {
		r.variables = deepcopy.Map(variables)
	}
}

func WithHeaders(headers http.Header) Option {
	return func(r *Request) {
		r.headers = mergeHeaders(headers)
	}
}

// WithValidation toggles schema validation before the request is sent.
// Validation is enabled by default.
func WithValidation(validate bool) Option {
	return func(r *Request) {
		r.validate = validate
	}
}

func New(query string, options ...Option) *Request {
	r := &Request{
		query:     query,
		variables: map[string]any{},
		validate:  true,
		headers:   http.Header{},
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Request implements Operation.
func (r *Request) Request() *Request {
	return r
}

func (r *Request) Query() string {
	return r.query
}

func (r *Request) OperationName() string {
	return r.operationName
}

// Variables returns a deep copy of the request variables.
func (r *Request) Variables() map[string]any {
	return deepcopy.Map(r.variables)
}

// Headers returns a copy of the request headers.
func (r *Request) Headers() http.Header {
	return r.headers.Clone()
}

func (r *Request) ShouldValidate() bool {
	return r.validate
}

// Check reports whether the request can be sent at all.
func (r *Request) Check() error {
	if r.query == "" {
		return ErrEmptyQuery
	}
	return nil
}

// MergeOptions configures Merge. Zero values leave the corresponding part of
// the request unchanged.
type MergeOptions struct {
	// Headers take precedence over the request headers.
	Headers http.Header
	// HeadersFallback is overridden by the request headers.
	HeadersFallback http.Header
	// OperationName replaces the request operation name when not empty.
	OperationName string
	// Variables are merged into a deep copy of the request variables,
	// keys present in both are taken from Variables.
	Variables map[string]any
}

// Merge returns a new Request derived from r:
//
//	headers   = HeadersFallback ∪ r.headers ∪ Headers (later wins)
//	variables = r.variables ∪ Variables (Variables wins)
//	operation = OperationName if set, r.operationName otherwise
func (r *Request) Merge(opts MergeOptions) *Request {
	operationName := r.operationName
	if opts.OperationName != "" {
		operationName = opts.OperationName
	}

	variables := deepcopy.Map(r.variables)
	for key, value := range opts.Variables {
		variables[key] = deepcopy.Value(value)
	}

	return &Request{
		query:         r.query,
		operationName: operationName,
		variables:     variables,
		validate:      r.validate,
		headers:       mergeHeaders(opts.HeadersFallback, r.headers, opts.Headers),
	}
}

// Payload is the wire representation of the operation, shared by the HTTP
// POST body and the subscription start message.
type Payload struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

func (r *Request) Payload() Payload {
	return Payload{
		Query:         r.query,
		OperationName: r.operationName,
		Variables:     deepcopy.Map(r.variables),
	}
}

// mergeHeaders folds the given header sets into a new one, keys are
// canonicalized so that later sets replace earlier values case-insensitively.
func mergeHeaders(headers ...http.Header) http.Header {
	out := http.Header{}
	for _, h := range headers {
		for key, values := range h {
			if len(values) == 0 {
				continue
			}
			out[textproto.CanonicalMIMEHeaderKey(key)] = append([]string(nil), values...)
		}
	}
	return out
}
