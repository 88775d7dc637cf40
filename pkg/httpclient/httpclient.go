// Package httpclient sends a single GraphQL operation over HTTP and wraps
// whatever the server answers into a response.Response.
package httpclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/jensneuse/abstractlogger"

	"github.com/abn/aiographql-client/pkg/graphqlerrors"
	"github.com/abn/aiographql-client/pkg/request"
	"github.com/abn/aiographql-client/pkg/response"
)

const (
	ContentEncodingHeader = "Content-Encoding"
	AcceptEncodingHeader  = "Accept-Encoding"
	ContentTypeHeader     = "Content-Type"

	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
	EncodingBrotli  = "br"

	ContentTypeJSON = "application/json"
)

type Method string

const (
	MethodPost Method = http.MethodPost
	MethodGet  Method = http.MethodGet
)

// ParseMethod accepts "post" and "get" in any case.
func ParseMethod(method string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(method))) {
	case MethodPost:
		return MethodPost, nil
	case MethodGet:
		return MethodGet, nil
	}
	return "", graphqlerrors.NewConfigurationError("unsupported http method %q, use %s or %s", method, MethodPost, MethodGet)
}

//go:generate mockgen -destination=session_mock_test.go -package=httpclient . Session

// Session executes HTTP requests. *http.Client implements it, so a client
// with a pooled transport can be shared between calls.
type Session interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHeaders are sent with every request unless overridden.
func DefaultHeaders() http.Header {
	return http.Header{
		ContentTypeHeader:    []string{ContentTypeJSON},
		AcceptEncodingHeader: []string{EncodingGzip},
	}
}

type Dispatcher struct {
	endpoint string
	log      abstractlogger.Logger
}

func NewDispatcher(endpoint string, log abstractlogger.Logger) *Dispatcher {
	if log == nil {
		log = abstractlogger.NoopLogger
	}
	return &Dispatcher{
		endpoint: endpoint,
		log:      log,
	}
}

func (d *Dispatcher) Endpoint() string {
	return d.endpoint
}

type SendOptions struct {
	// Method defaults to POST.
	Method Method
	// Session is used for the request when set. Otherwise a session is
	// created for this request alone and closed when it is done.
	Session Session
}

// Send executes req against the endpoint. The headers of req are sent on top
// of DefaultHeaders. A status code outside of 2xx yields a
// *graphqlerrors.RequestError carrying the response.
func (d *Dispatcher) Send(ctx context.Context, req *request.Request, opts SendOptions) (*response.Response, error) {
	method := opts.Method
	if method == "" {
		method = MethodPost
	}

	httpReq, err := d.newRequest(ctx, req, method)
	if err != nil {
		return nil, err
	}
	httpReq.Header = req.Merge(request.MergeOptions{HeadersFallback: DefaultHeaders()}).Headers()

	session := opts.Session
	if session == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DisableKeepAlives = true
		oneShot := &http.Client{Transport: transport}
		defer oneShot.CloseIdleConnections()
		session = oneShot
	}

	resp, err := session.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	d.log.Debug("Dispatcher.Send",
		abstractlogger.String("method", string(method)),
		abstractlogger.String("url", httpReq.URL.String()),
		abstractlogger.Int("status", resp.StatusCode),
	)

	result, decodeErr := response.New(req, body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr != nil {
			result = response.FromRaw(req, body)
		}
		return nil, &graphqlerrors.RequestError{StatusCode: resp.StatusCode, Response: result}
	}

	if decodeErr != nil {
		return nil, decodeErr
	}

	return result, nil
}

func (d *Dispatcher) newRequest(ctx context.Context, req *request.Request, method Method) (*http.Request, error) {
	switch method {
	case MethodPost:
		body, err := json.Marshal(req.Payload())
		if err != nil {
			return nil, fmt.Errorf("encode request payload: %w", err)
		}
		return http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	case MethodGet:
		params, err := req.QueryParams()
		if err != nil {
			return nil, err
		}
		u, err := url.Parse(d.endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		query := u.Query()
		for key, values := range params {
			query[key] = values
		}
		u.RawQuery = query.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	return nil, graphqlerrors.NewConfigurationError("unsupported http method %q", method)
}

func readBody(resp *http.Response) ([]byte, error) {
	reader, err := respBodyReader(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func respBodyReader(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get(ContentEncodingHeader) {
	case EncodingGzip:
		return gzip.NewReader(resp.Body)
	case EncodingDeflate:
		return flate.NewReader(resp.Body), nil
	case EncodingBrotli:
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return resp.Body, nil
	}
}
