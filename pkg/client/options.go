package client

import (
	"context"
	"net/http"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/abn/aiographql-client/pkg/httpclient"
	"github.com/abn/aiographql-client/pkg/subscription"
	"github.com/abn/aiographql-client/pkg/wsconn"
)

type options struct {
	headers      http.Header
	method       httpclient.Method
	schema       *ast.Schema
	session      httpclient.Session
	dialer       wsconn.Dialer
	log          abstractlogger.Logger
	validator    Validator
	subprotocols []string
	err          error
}

type Option func(options *options)

// WithHeaders sets headers sent with every request. Request and call
// headers take precedence.
func WithHeaders(headers http.Header) Option {
	return func(options *options) {
		options.headers = headers.Clone()
	}
}

// WithMethod sets the default HTTP method, "POST" or "GET".
func WithMethod(method string) Option {
	return func(options *options) {
		options.method, options.err = httpclient.ParseMethod(method)
	}
}

// WithSchema provides a schema up front, no introspection happens until a
// refresh is requested.
func WithSchema(schema *ast.Schema) Option {
	return func(options *options) {
		options.schema = schema
	}
}

// WithSession shares a session between all calls of the client. The caller
// owns the session.
func WithSession(session httpclient.Session) Option {
	return func(options *options) {
		options.session = session
	}
}

func WithDialer(dialer wsconn.Dialer) Option {
	return func(options *options) {
		options.dialer = dialer
	}
}

func WithLogger(log abstractlogger.Logger) Option {
	return func(options *options) {
		options.log = log
	}
}

func WithValidator(validator Validator) Option {
	return func(options *options) {
		options.validator = validator
	}
}

func WithSubprotocols(subprotocols ...string) Option {
	return func(options *options) {
		options.subprotocols = append([]string(nil), subprotocols...)
	}
}

// callConfig holds the per call overrides.
type callConfig struct {
	headers         http.Header
	method          httpclient.Method
	operationName   string
	variables       map[string]any
	session         httpclient.Session
	schema          *ast.Schema
	forceValidation bool

	dialer       wsconn.Dialer
	subprotocols []string
	stopEvents   []subscription.EventType
	setStop      bool
	handlers     map[subscription.EventType][]subscription.Handler
	wait         bool

	err error
}

type CallOption func(config *callConfig)

// Headers take precedence over client and request headers.
func Headers(headers http.Header) CallOption {
	return func(config *callConfig) {
		config.headers = headers.Clone()
	}
}

func Method(method string) CallOption {
	return func(config *callConfig) {
		config.method, config.err = httpclient.ParseMethod(method)
	}
}

func OperationName(name string) CallOption {
	return func(config *callConfig) {
		config.operationName = name
	}
}

// Variables are merged into the request variables.
func Variables(variables map[string]any) CallOption {
	return func(config *callConfig) {
		config.variables = variables
	}
}

func Session(session httpclient.Session) CallOption {
	return func(config *callConfig) {
		config.session = session
	}
}

// Schema validates against schema instead of the cached one.
func Schema(schema *ast.Schema) CallOption {
	return func(config *callConfig) {
		config.schema = schema
	}
}

// ForceValidation validates requests that opted out of validation.
func ForceValidation() CallOption {
	return func(config *callConfig) {
		config.forceValidation = true
	}
}

func Dialer(dialer wsconn.Dialer) CallOption {
	return func(config *callConfig) {
		config.dialer = dialer
	}
}

func Subprotocols(subprotocols ...string) CallOption {
	return func(config *callConfig) {
		config.subprotocols = append([]string(nil), subprotocols...)
	}
}

// StopEvents replaces the event types that end a subscription.
func StopEvents(eventTypes ...subscription.EventType) CallOption {
	return func(config *callConfig) {
		config.stopEvents = append([]subscription.EventType(nil), eventTypes...)
		config.setStop = true
	}
}

// Handlers registers subscription handlers for an event type.
func Handlers(eventType subscription.EventType, handlers ...subscription.Handler) CallOption {
	return func(config *callConfig) {
		if config.handlers == nil {
			config.handlers = map[subscription.EventType][]subscription.Handler{}
		}
		config.handlers[eventType] = append(config.handlers[eventType], handlers...)
	}
}

// Callbacks registers a prepared set of subscription handlers.
func Callbacks(callbacks map[subscription.EventType][]subscription.Handler) CallOption {
	return func(config *callConfig) {
		for eventType, handlers := range callbacks {
			Handlers(eventType, handlers...)(config)
		}
	}
}

func OnData(fn func(ctx context.Context, event *subscription.Event) error) CallOption {
	return Handlers(subscription.Data, subscription.HandlerFunc(fn))
}

func OnError(fn func(ctx context.Context, event *subscription.Event) error) CallOption {
	return Handlers(subscription.Error, subscription.HandlerFunc(fn))
}

// Wait makes Subscribe block until the subscription has ended.
func Wait() CallOption {
	return func(config *callConfig) {
		config.wait = true
	}
}
