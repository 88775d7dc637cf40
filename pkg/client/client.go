// Package client is the entry point of the library. A Client talks to a
// single GraphQL endpoint: queries and mutations go over HTTP, subscriptions
// over a WebSocket.
//
// Example:
//
//	c, err := client.New("https://api.example.com/graphql",
//		client.WithHeaders(http.Header{"Authorization": {"Bearer token"}}),
//	)
//	resp, err := c.Query(ctx, request.Raw("{ ping }"))
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/abn/aiographql-client/pkg/graphqlerrors"
	"github.com/abn/aiographql-client/pkg/httpclient"
	"github.com/abn/aiographql-client/pkg/introspection"
	"github.com/abn/aiographql-client/pkg/request"
	"github.com/abn/aiographql-client/pkg/response"
	"github.com/abn/aiographql-client/pkg/schemacache"
	"github.com/abn/aiographql-client/pkg/subscription"
	"github.com/abn/aiographql-client/pkg/validation"
	"github.com/abn/aiographql-client/pkg/wsconn"
)

//go:generate mockgen -destination=validator_mock_test.go -package=client . Validator

// Validator checks a query against a schema. Syntax errors are returned as
// *gqlerror.Error, schema violations as *graphqlerrors.ValidationError.
type Validator interface {
	Validate(ctx context.Context, schema *ast.Schema, query string) error
}

type Client struct {
	endpoint     string
	headers      http.Header
	method       httpclient.Method
	session      httpclient.Session
	dialer       wsconn.Dialer
	subprotocols []string
	validator    Validator
	log          abstractlogger.Logger

	dispatcher *httpclient.Dispatcher
	schemas    *schemacache.Cache
}

func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, graphqlerrors.NewConfigurationError("endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, graphqlerrors.NewConfigurationError("invalid endpoint %q: %s", endpoint, err)
	}

	op := &options{
		method:       httpclient.MethodPost,
		dialer:       wsconn.NhooyrDialer{},
		log:          abstractlogger.NoopLogger,
		subprotocols: []string{subscription.ProtocolGraphQLWS},
	}
	for _, opt := range opts {
		opt(op)
		if op.err != nil {
			return nil, op.err
		}
	}
	if op.validator == nil {
		op.validator = validation.New(validation.WithLogger(op.log))
	}

	headers := httpclient.DefaultHeaders()
	for key, values := range op.headers {
		headers[textproto.CanonicalMIMEHeaderKey(key)] = append([]string(nil), values...)
	}

	c := &Client{
		endpoint:     endpoint,
		headers:      headers,
		method:       op.method,
		session:      op.session,
		dialer:       op.dialer,
		subprotocols: op.subprotocols,
		validator:    op.validator,
		log:          op.log,
		dispatcher:   httpclient.NewDispatcher(endpoint, op.log),
	}
	c.schemas = schemacache.New(c, op.log)
	if op.schema != nil {
		c.schemas.Set(op.schema)
	}

	return c, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Headers returns a copy of the headers sent with every request, built-in
// defaults included.
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// Introspect runs the introspection query and builds a schema from the
// result. The schema cache is left untouched.
func (c *Client) Introspect(ctx context.Context, headers http.Header) (*ast.Schema, error) {
	req := request.New(introspection.Query,
		request.WithOperationName(introspection.OperationName),
		request.WithValidation(false),
	)

	resp, err := c.Query(ctx, req, Headers(headers))
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp.Data())
	if err != nil {
		return nil, &graphqlerrors.IntrospectionError{Message: "malformed introspection result", Err: err}
	}

	schema, err := introspection.BuildSchema(data)
	if err != nil {
		var introspectionErr *graphqlerrors.IntrospectionError
		if errors.As(err, &introspectionErr) && resp.HasErrors() {
			introspectionErr.Errors = resp.Errors()
		}
		return nil, err
	}
	return schema, nil
}

// Schema returns the cached schema, introspecting the endpoint when nothing
// is cached yet or refresh is set.
func (c *Client) Schema(ctx context.Context, refresh bool, headers http.Header) (*ast.Schema, error) {
	return c.schemas.Get(ctx, refresh, headers)
}

// InvalidateSchema drops the cached schema.
func (c *Client) InvalidateSchema() {
	c.schemas.Invalidate()
}

// Validate checks op against the schema. Requests with validation disabled
// are accepted without fetching a schema unless ForceValidation is given.
func (c *Client) Validate(ctx context.Context, op request.Operation, opts ...CallOption) error {
	config, err := newCallConfig(opts)
	if err != nil {
		return err
	}
	req := c.prepare(op, config)
	if err := req.Check(); err != nil {
		return err
	}
	return c.validate(ctx, req, config)
}

// Query validates op and sends it with the method of the client unless
// overridden per call.
func (c *Client) Query(ctx context.Context, op request.Operation, opts ...CallOption) (*response.Response, error) {
	config, err := newCallConfig(opts)
	if err != nil {
		return nil, err
	}

	req := c.prepare(op, config)
	if err := req.Check(); err != nil {
		return nil, err
	}
	if err := c.validate(ctx, req, config); err != nil {
		return nil, err
	}

	method := c.method
	if config.method != "" {
		method = config.method
	}
	session := c.session
	if config.session != nil {
		session = config.session
	}

	return c.dispatcher.Send(ctx, req, httpclient.SendOptions{
		Method:  method,
		Session: session,
	})
}

func (c *Client) Post(ctx context.Context, op request.Operation, opts ...CallOption) (*response.Response, error) {
	return c.Query(ctx, op, append(opts, Method(string(httpclient.MethodPost)))...)
}

func (c *Client) Get(ctx context.Context, op request.Operation, opts ...CallOption) (*response.Response, error) {
	return c.Query(ctx, op, append(opts, Method(string(httpclient.MethodGet)))...)
}

// Subscribe validates op and starts a subscription on the endpoint. The
// subscription runs until ctx is cancelled, it is unsubscribed or a stop
// event arrives. With Wait the call blocks until then.
func (c *Client) Subscribe(ctx context.Context, op request.Operation, opts ...CallOption) (*subscription.Subscription, error) {
	config, err := newCallConfig(opts)
	if err != nil {
		return nil, err
	}

	req := c.prepare(op, config)
	if err := req.Check(); err != nil {
		return nil, err
	}
	if err := c.validate(ctx, req, config); err != nil {
		return nil, err
	}

	dialer := c.dialer
	if config.dialer != nil {
		dialer = config.dialer
	}
	subprotocols := c.subprotocols
	if config.subprotocols != nil {
		subprotocols = config.subprotocols
	}

	subOpts := []subscription.Option{
		subscription.WithDialer(dialer),
		subscription.WithSubprotocols(subprotocols...),
		subscription.WithLogger(c.log),
	}
	for eventType, handlers := range config.handlers {
		subOpts = append(subOpts, subscription.WithHandlers(eventType, handlers...))
	}
	if config.setStop {
		subOpts = append(subOpts, subscription.WithStopEvents(config.stopEvents...))
	}

	sub := subscription.New(req, subOpts...)
	if err := sub.Subscribe(ctx, c.endpoint, false); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	c.log.Debug("Client.Subscribe",
		abstractlogger.String("id", sub.ID()),
		abstractlogger.String("endpoint", c.endpoint),
	)

	if config.wait {
		return sub, sub.Wait(ctx)
	}
	return sub, nil
}

func newCallConfig(opts []CallOption) (*callConfig, error) {
	config := &callConfig{}
	for _, opt := range opts {
		opt(config)
		if config.err != nil {
			return nil, config.err
		}
	}
	return config, nil
}

// prepare layers the client headers below the request and call headers.
func (c *Client) prepare(op request.Operation, config *callConfig) *request.Request {
	return op.Request().Merge(request.MergeOptions{
		Headers:         config.headers,
		HeadersFallback: c.headers,
		OperationName:   config.operationName,
		Variables:       config.variables,
	})
}

func (c *Client) validate(ctx context.Context, req *request.Request, config *callConfig) error {
	if !req.ShouldValidate() && !config.forceValidation {
		return nil
	}

	schema := config.schema
	if schema == nil {
		var err error
		if schema, err = c.Schema(ctx, false, req.Headers()); err != nil {
			return err
		}
	}

	return c.validator.Validate(ctx, schema, req.Query())
}
