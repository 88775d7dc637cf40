// Package schemacache keeps the schema of a GraphQL endpoint once it has
// been introspected.
//
// The cache starts empty and is populated on first use. A refresh replaces
// the schema as a whole. Concurrent callers that find the cache empty share
// a single introspection.
package schemacache

import (
	"context"
	"net/http"
	"sync"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -destination=source_mock_test.go -package=schemacache . Source

// Source introspects the schema of an endpoint.
type Source interface {
	Introspect(ctx context.Context, headers http.Header) (*ast.Schema, error)
}

type Cache struct {
	source Source
	log    abstractlogger.Logger

	mu     sync.RWMutex
	schema *ast.Schema

	group singleflight.Group
}

func New(source Source, log abstractlogger.Logger) *Cache {
	if log == nil {
		log = abstractlogger.NoopLogger
	}
	return &Cache{
		source: source,
		log:    log,
	}
}

const (
	getKey     = "get"
	refreshKey = "refresh"
)

// Get returns the cached schema, introspecting it first when the cache is
// empty or refresh is set. Headers are only used when an introspection
// happens.
func (c *Cache) Get(ctx context.Context, refresh bool, headers http.Header) (*ast.Schema, error) {
	if !refresh {
		if schema := c.Cached(); schema != nil {
			return schema, nil
		}
	}

	key := getKey
	if refresh {
		key = refreshKey
	}

	// the shared introspection must not fail because the first caller gave up
	ch := c.group.DoChan(key, func() (any, error) {
		if !refresh {
			// a flight that finished since the check above already filled the cache
			if schema := c.Cached(); schema != nil {
				return schema, nil
			}
		}
		return c.introspect(context.WithoutCancel(ctx), headers)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ast.Schema), nil
	}
}

func (c *Cache) introspect(ctx context.Context, headers http.Header) (*ast.Schema, error) {
	schema, err := c.source.Introspect(ctx, headers)
	if err != nil {
		c.log.Error("Cache.introspect",
			abstractlogger.Error(err),
		)
		return nil, err
	}

	c.Set(schema)
	c.log.Debug("Cache.introspect",
		abstractlogger.Int("types", len(schema.Types)),
	)

	return schema, nil
}

// Cached returns the cached schema without introspecting, nil if empty.
func (c *Cache) Cached() *ast.Schema {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schema
}

func (c *Cache) Set(schema *ast.Schema) {
	c.mu.Lock()
	c.schema = schema
	c.mu.Unlock()
}

// Invalidate empties the cache, the next Get introspects again.
func (c *Cache) Invalidate() {
	c.Set(nil)
}
