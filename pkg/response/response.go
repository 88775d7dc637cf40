// Package response wraps the JSON body a GraphQL server answered with.
//
// The envelope keeps the originating request for traceability and exposes
// the "data" and "errors" members as computed views.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/abn/aiographql-client/internal/pkg/deepcopy"
	"github.com/abn/aiographql-client/pkg/request"
)

type Response struct {
	request *request.Request
	json    map[string]any
	raw     []byte
}

// New decodes body into a Response. An empty body is treated as an empty
// JSON object. A body that is valid JSON but not an object yields an
// envelope with empty views, the raw body stays accessible through Raw.
func New(req *request.Request, body []byte) (*Response, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return FromJSON(req, nil), nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	object, _ := value.(map[string]any)
	if object == nil {
		object = map[string]any{}
	}

	return &Response{
		request: req,
		json:    object,
		raw:     body,
	}, nil
}

// FromRaw wraps a body that could not be decoded. Views are empty.
func FromRaw(req *request.Request, body []byte) *Response {
	return &Response{
		request: req,
		json:    map[string]any{},
		raw:     append([]byte(nil), body...),
	}
}

// FromJSON wraps an already decoded body.
func FromJSON(req *request.Request, body map[string]any) *Response {
	body = deepcopy.Map(body)
	raw, _ := json.Marshal(body)
	return &Response{
		request: req,
		json:    body,
		raw:     raw,
	}
}

// Request returns the request that produced this response.
func (r *Response) Request() *request.Request {
	return r.request
}

// Query returns the query text of the originating request.
func (r *Response) Query() string {
	if r.request == nil {
		return ""
	}
	return r.request.Query()
}

// JSON returns a copy of the decoded body.
func (r *Response) JSON() map[string]any {
	return deepcopy.Map(r.json)
}

func (r *Response) Raw() []byte {
	return r.raw
}

// Data returns body["data"], or an empty map when it is missing or null.
func (r *Response) Data() map[string]any {
	data, ok := r.json["data"].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return deepcopy.Map(data)
}

// Errors returns the parsed body["errors"] list, or an empty list.
func (r *Response) Errors() []Error {
	list, ok := r.json["errors"].([]any)
	if !ok {
		return []Error{}
	}
	errs := make([]Error, 0, len(list))
	for _, item := range list {
		errs = append(errs, errorFromValue(item))
	}
	return errs
}

func (r *Response) HasErrors() bool {
	list, _ := r.json["errors"].([]any)
	return len(list) > 0
}

// Get looks up a value in the raw body using gjson path syntax,
// e.g. "data.pokemon.name" or "errors.0.message".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

func (r *Response) String() string {
	return string(r.raw)
}
