package request

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := New("{ ping }")

		assert.Equal(t, "{ ping }", r.Query())
		assert.Equal(t, "", r.OperationName())
		assert.Equal(t, map[string]any{}, r.Variables())
		assert.Equal(t, http.Header{}, r.Headers())
		assert.True(t, r.ShouldValidate())
		assert.NoError(t, r.Check())
	})

	t.Run("raw query", func(t *testing.T) {
		r := Raw("{ ping }").Request()

		assert.Equal(t, "{ ping }", r.Query())
		assert.True(t, r.ShouldValidate())
		assert.Empty(t, r.Variables())
	})

	t.Run("empty query", func(t *testing.T) {
		assert.ErrorIs(t, New("").Check(), ErrEmptyQuery)
	})

	t.Run("options", func(t *testing.T) {
		r := New("query A { a } query B { b }",
			WithOperationName("B"),
			WithVariables(map[string]any{"id": "1"}),
			WithHeaders(http.Header{"x-request-id": {"abc"}}),
			WithValidation(false),
		)

		assert.Equal(t, "B", r.OperationName())
		assert.Equal(t, map[string]any{"id": "1"}, r.Variables())
		assert.Equal(t, "abc", r.Headers().Get("X-Request-Id"))
		assert.False(t, r.ShouldValidate())
	})

	t.Run("variables given to the constructor are copied", func(t *testing.T) {
		variables := map[string]any{"filter": map[string]any{"name": "a"}}
		r := New("{ a }", WithVariables(variables))

		variables["filter"].(map[string]any)["name"] = "b"

		assert.Equal(t, "a", r.Variables()["filter"].(map[string]any)["name"])
	})

	t.Run("accessors do not leak internal state", func(t *testing.T) {
		r := New("{ a }", WithVariables(map[string]any{"k": "v"}), WithHeaders(http.Header{"X": {"1"}}))

		r.Variables()["k"] = "changed"
		r.Headers().Set("X", "2")

		assert.Equal(t, "v", r.Variables()["k"])
		assert.Equal(t, "1", r.Headers().Get("X"))
	})
}

func TestRequest_Merge(t *testing.T) {
	base := New("query A { a } query B { b }",
		WithOperationName("A"),
		WithVariables(map[string]any{"first": 1, "nested": map[string]any{"k": "v"}}),
		WithHeaders(http.Header{"Authorization": {"Bearer request"}, "X-Request": {"1"}}),
	)

	t.Run("header precedence", func(t *testing.T) {
		merged := base.Merge(MergeOptions{
			HeadersFallback: http.Header{"Content-Type": {"application/json"}, "Authorization": {"Bearer client"}},
			Headers:         http.Header{"x-request": {"2"}},
		})

		expected := http.Header{
			"Content-Type":  {"application/json"},
			"Authorization": {"Bearer request"},
			"X-Request":     {"2"},
		}
		assert.Equal(t, expected, merged.Headers())
	})

	t.Run("operation override", func(t *testing.T) {
		assert.Equal(t, "A", base.Merge(MergeOptions{}).OperationName())
		assert.Equal(t, "B", base.Merge(MergeOptions{OperationName: "B"}).OperationName())
	})

	t.Run("variables override", func(t *testing.T) {
		merged := base.Merge(MergeOptions{Variables: map[string]any{"first": 2, "second": true}})

		expected := map[string]any{"first": 2, "second": true, "nested": map[string]any{"k": "v"}}
		if diff := cmp.Diff(expected, merged.Variables()); diff != "" {
			t.Errorf("unexpected variables (-want +got):\n%s", diff)
		}
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		before := base.Merge(MergeOptions{})

		_ = base.Merge(MergeOptions{
			HeadersFallback: http.Header{"A": {"1"}},
			Headers:         http.Header{"X-Request": {"9"}},
			OperationName:   "B",
			Variables:       map[string]any{"first": 99},
		})

		assert.Equal(t, "A", base.OperationName())
		assert.Equal(t, before.Variables(), base.Variables())
		assert.Equal(t, before.Headers(), base.Headers())
		assert.Equal(t, before.Query(), base.Query())
	})

	t.Run("variables are deep copied", func(t *testing.T) {
		override := map[string]any{"filter": map[string]any{"name": "pikachu"}}
		merged := base.Merge(MergeOptions{Variables: override})

		override["filter"].(map[string]any)["name"] = "raichu"
		override["extra"] = true

		assert.Equal(t, "pikachu", merged.Variables()["filter"].(map[string]any)["name"])
		assert.NotContains(t, merged.Variables(), "extra")

		nested := merged.Variables()["nested"].(map[string]any)
		nested["k"] = "changed"
		assert.Equal(t, "v", base.Variables()["nested"].(map[string]any)["k"])
	})

	t.Run("successive header overrides equal a single combined override", func(t *testing.T) {
		h1 := http.Header{"A": {"1"}, "B": {"1"}}
		h2 := http.Header{"C": {"2"}, "B": {"2"}}

		chained := base.Merge(MergeOptions{Headers: h1}).Merge(MergeOptions{Headers: h2})
		combined := base.Merge(MergeOptions{Headers: http.Header{"A": {"1"}, "B": {"2"}, "C": {"2"}}})

		if diff := cmp.Diff(combined.Headers(), chained.Headers()); diff != "" {
			t.Errorf("headers differ (-combined +chained):\n%s", diff)
		}
	})

	t.Run("keeps validation flag", func(t *testing.T) {
		r := New("{ a }", WithValidation(false))
		assert.False(t, r.Merge(MergeOptions{}).ShouldValidate())
	})
}

func TestRequest_Payload(t *testing.T) {
	t.Run("omits empty fields", func(t *testing.T) {
		payload := New("{ a }").Payload()
		assert.Equal(t, Payload{Query: "{ a }", Variables: map[string]any{}}, payload)
	})

	t.Run("full", func(t *testing.T) {
		payload := New("query A($id: ID!) { a(id: $id) }",
			WithOperationName("A"),
			WithVariables(map[string]any{"id": "1"}),
		).Payload()

		assert.Equal(t, "A", payload.OperationName)
		assert.Equal(t, map[string]any{"id": "1"}, payload.Variables)
	})
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "true", input: true, expected: "1"},
		{name: "false", input: false, expected: "0"},
		{name: "empty object", input: map[string]any{}, expected: "{}"},
		{name: "object", input: map[string]any{"a": 1}, expected: `{"a":1}`},
		{name: "list", input: []any{"a", true}, expected: `["a",true]`},
		{name: "string", input: "{ a }", expected: "{ a }"},
		{name: "int", input: 42, expected: "42"},
		{name: "float", input: 1.5, expected: "1.5"},
		{name: "nil", input: nil, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Coerce(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}

	t.Run("unsupported value", func(t *testing.T) {
		_, err := Coerce(make(chan int))
		assert.Error(t, err)
	})
}

func TestRequest_QueryParams(t *testing.T) {
	t.Run("object variable is JSON encoded", func(t *testing.T) {
		r := New("query Q($filter: Filter) { items(filter: $filter) }",
			WithOperationName("Q"),
			WithVariables(map[string]any{"filter": map[string]any{"name": "a"}}),
		)

		params, err := r.QueryParams()
		require.NoError(t, err)

		assert.Equal(t, r.Query(), params.Get("query"))
		assert.Equal(t, "Q", params.Get("operationName"))
		assert.Equal(t, `{"filter":{"name":"a"}}`, params.Get("variables"))
	})

	t.Run("omits empty fields", func(t *testing.T) {
		params, err := New("{ a }").QueryParams()
		require.NoError(t, err)

		assert.Equal(t, []string{"query"}, keys(params))
	})
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
