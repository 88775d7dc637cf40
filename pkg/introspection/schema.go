package introspection

import (
	"encoding/json"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/abn/aiographql-client/pkg/graphqlerrors"
)

// SourceName is the name given to schemas built from introspection results.
const SourceName = "introspection"

// BuildSchema turns the "data" member of an introspection response into a
// schema. Any failure is reported as *graphqlerrors.IntrospectionError.
func BuildSchema(data []byte) (*ast.Schema, error) {
	var result Data
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &graphqlerrors.IntrospectionError{Message: "malformed introspection result", Err: err}
	}

	return BuildSchemaFromData(&result)
}

func BuildSchemaFromData(data *Data) (*ast.Schema, error) {
	if query, _, _ := data.Schema.TypeNames(); query == "" {
		return nil, &graphqlerrors.IntrospectionError{Message: "introspection result has no query type"}
	}

	converter := JsonConverter{}
	sdl, err := converter.SchemaDocument(&data.Schema)
	if err != nil {
		return nil, &graphqlerrors.IntrospectionError{Message: "unusable introspection result", Err: err}
	}

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: SourceName, Input: string(sdl)})
	if err != nil {
		return nil, &graphqlerrors.IntrospectionError{Message: "invalid schema", Err: err}
	}

	return schema, nil
}
