// Package validation parses GraphQL operations and validates them against a
// schema.
//
// Validation walks the whole document, so it runs on a bounded set of
// goroutines while the caller waits on its context. Results are cached per
// schema and query text.
package validation

import (
	"context"
	"errors"
	"runtime"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jensneuse/abstractlogger"
	"golang.org/x/sync/semaphore"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/abn/aiographql-client/pkg/graphqlerrors"
	"github.com/abn/aiographql-client/pkg/pool"
)

var ErrNoSchema = errors.New("validation: no schema")

const (
	DefaultDocumentCacheSize = 256
	querySourceName          = "query"
)

type Validator struct {
	workers *semaphore.Weighted
	cache   *lru.Cache
	log     abstractlogger.Logger
}

type options struct {
	concurrency       int64
	documentCacheSize int
	log               abstractlogger.Logger
}

type Option func(options *options)

// WithConcurrency bounds the number of validations running at once.
func WithConcurrency(n int64) Option {
	return func(options *options) {
		options.concurrency = n
	}
}

// WithDocumentCacheSize sets the number of validation results kept. Zero
// disables caching.
func WithDocumentCacheSize(size int) Option {
	return func(options *options) {
		options.documentCacheSize = size
	}
}

func WithLogger(log abstractlogger.Logger) Option {
	return func(options *options) {
		options.log = log
	}
}

func New(opts ...Option) *Validator {
	op := &options{
		concurrency:       int64(runtime.GOMAXPROCS(0)),
		documentCacheSize: DefaultDocumentCacheSize,
		log:               abstractlogger.NoopLogger,
	}
	for _, opt := range opts {
		opt(op)
	}
	if op.concurrency < 1 {
		op.concurrency = 1
	}

	v := &Validator{
		workers: semaphore.NewWeighted(op.concurrency),
		log:     op.log,
	}

	if op.documentCacheSize > 0 {
		// only fails for sizes <= 0
		v.cache, _ = lru.New(op.documentCacheSize)
	}

	return v
}

// Parse parses query into a document. Syntax errors are returned as
// *gqlerror.Error.
func Parse(query string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: querySourceName, Input: query})
	if err != nil {
		return nil, gqlerror.WrapIfUnwrapped(err)
	}
	return doc, nil
}

type cacheKey struct {
	schema *ast.Schema
	query  uint64
}

type result struct {
	syntaxErr error
	errs      gqlerror.List
}

func (r result) err() error {
	if r.syntaxErr != nil {
		return r.syntaxErr
	}
	if len(r.errs) > 0 {
		return &graphqlerrors.ValidationError{Errors: r.errs}
	}
	return nil
}

// Validate parses query and validates it against schema. It returns the
// *gqlerror.Error of the parser for syntax errors and a
// *graphqlerrors.ValidationError when the document does not match the
// schema.
func (v *Validator) Validate(ctx context.Context, schema *ast.Schema, query string) error {
	if schema == nil {
		return ErrNoSchema
	}

	key := cacheKey{schema: schema, query: pool.Hash64.Sum64([]byte(query))}
	if v.cache != nil {
		if cached, ok := v.cache.Get(key); ok {
			return cached.(result).err()
		}
	}

	if err := v.workers.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan result, 1)
	go func() {
		defer v.workers.Release(1)
		done <- validate(schema, query)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if v.cache != nil {
			v.cache.Add(key, res)
		}
		if err := res.err(); err != nil {
			v.log.Debug("Validator.Validate",
				abstractlogger.String("query", query),
				abstractlogger.Error(err),
			)
			return err
		}
		return nil
	}
}

func validate(schema *ast.Schema, query string) result {
	doc, err := Parse(query)
	if err != nil {
		return result{syntaxErr: err}
	}
	return result{errs: validator.ValidateWithRules(schema, doc, nil)}
}
