// Package introspection holds the introspection query sent to GraphQL
// servers and turns its result into a schema usable for validation.
package introspection

type Data struct {
	Schema Schema `json:"__schema"`
}

type Schema struct {
	QueryType        *TypeName   `json:"queryType"`
	MutationType     *TypeName   `json:"mutationType"`
	SubscriptionType *TypeName   `json:"subscriptionType"`
	Types            []FullType  `json:"types"`
	Directives       []Directive `json:"directives"`
}

type TypeName struct {
	Name string `json:"name"`
}

func (s *Schema) TypeNames() (query, mutation, subscription string) {
	if s.QueryType != nil {
		query = s.QueryType.Name
	}
	if s.MutationType != nil {
		mutation = s.MutationType.Name
	}
	if s.SubscriptionType != nil {
		subscription = s.SubscriptionType.Name
	}
	return
}

type TypeKind string

const (
	SCALAR      TypeKind = "SCALAR"
	OBJECT      TypeKind = "OBJECT"
	INTERFACE   TypeKind = "INTERFACE"
	UNION       TypeKind = "UNION"
	ENUM        TypeKind = "ENUM"
	INPUTOBJECT TypeKind = "INPUT_OBJECT"
	LIST        TypeKind = "LIST"
	NONNULL     TypeKind = "NON_NULL"
)

type FullType struct {
	Kind        TypeKind `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	// OBJECT and INTERFACE only
	Fields []Field `json:"fields"`
	// INPUT_OBJECT only
	InputFields []InputValue `json:"inputFields"`
	// OBJECT and INTERFACE only
	Interfaces []TypeRef `json:"interfaces"`
	// ENUM only
	EnumValues []EnumValue `json:"enumValues"`
	// INTERFACE and UNION only
	PossibleTypes []TypeRef `json:"possibleTypes"`
}

type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason *string      `json:"deprecationReason"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

type Directive struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Locations    []string     `json:"locations"`
	Args         []InputValue `json:"args"`
	IsRepeatable bool         `json:"isRepeatable"`
}
