package introspection

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/abn/aiographql-client/pkg/graphqlerrors"
)

func sourceOf(sdl []byte) *ast.Source {
	return &ast.Source{Name: SourceName, Input: string(sdl)}
}

func TestBuildSchema(t *testing.T) {
	t.Run("starwars", func(t *testing.T) {
		data, err := os.ReadFile("./testdata/starwars_introspection.json")
		require.NoError(t, err)

		schema, err := BuildSchema(data)
		require.NoError(t, err)

		require.NotNil(t, schema.Query)
		assert.Equal(t, "Query", schema.Query.Name)
		require.NotNil(t, schema.Mutation)
		assert.Equal(t, "Mutation", schema.Mutation.Name)
		require.NotNil(t, schema.Subscription)
		assert.Equal(t, "Subscription", schema.Subscription.Name)

		droid := schema.Types["Droid"]
		require.NotNil(t, droid)
		assert.Equal(t, ast.Object, droid.Kind)
		assert.Equal(t, []string{"Character"}, droid.Interfaces)
		assert.NotNil(t, droid.Fields.ForName("primaryFunction"))

		assert.Equal(t, ast.Union, schema.Types["SearchResult"].Kind)
		assert.Equal(t, ast.InputObject, schema.Types["ReviewInput"].Kind)
		assert.NotNil(t, schema.Types["String"], "prelude types are available")
		assert.NotNil(t, schema.Directives["cacheControl"])
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := BuildSchema([]byte(`not json`))

		var introspectionErr *graphqlerrors.IntrospectionError
		require.ErrorAs(t, err, &introspectionErr)
		assert.Equal(t, "malformed introspection result", introspectionErr.Message)
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := BuildSchema([]byte(`{}`))

		var introspectionErr *graphqlerrors.IntrospectionError
		require.ErrorAs(t, err, &introspectionErr)
		assert.Equal(t, "introspection result has no query type", introspectionErr.Message)
	})

	t.Run("query type not defined", func(t *testing.T) {
		_, err := BuildSchema([]byte(`{"__schema": {"queryType": {"name": "Query"}, "types": []}}`))

		var introspectionErr *graphqlerrors.IntrospectionError
		require.ErrorAs(t, err, &introspectionErr)
		assert.Equal(t, "invalid schema", introspectionErr.Message)
	})
}
