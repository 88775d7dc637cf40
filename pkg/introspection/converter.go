package introspection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// JsonConverter prints an introspection result as a schema definition
// document. Types and directives that the GraphQL prelude already defines
// (built-in scalars, introspection types, @skip, @include, ...) are left out
// so the output can be loaded next to the prelude.
type JsonConverter struct {
	schema *Schema
	out    *bytes.Buffer
}

func (j *JsonConverter) GraphQLDocument(introspectionJSON io.Reader) ([]byte, error) {
	var data Data
	if err := json.NewDecoder(introspectionJSON).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse introspection json: %w", err)
	}

	return j.SchemaDocument(&data.Schema)
}

func (j *JsonConverter) SchemaDocument(schema *Schema) ([]byte, error) {
	j.schema = schema
	j.out = &bytes.Buffer{}

	if err := j.importSchema(); err != nil {
		return nil, fmt.Errorf("failed to convert graphql schema: %w", err)
	}

	return j.out.Bytes(), nil
}

func (j *JsonConverter) importSchema() error {
	query, mutation, subscription := j.schema.TypeNames()
	if query == "" {
		return fmt.Errorf("schema has no query type")
	}

	j.out.WriteString("schema {\n")
	j.writeRootOperation("query", query)
	j.writeRootOperation("mutation", mutation)
	j.writeRootOperation("subscription", subscription)
	j.out.WriteString("}\n")

	builtIn := loadPrelude()

	for _, fullType := range j.schema.Types {
		if strings.HasPrefix(fullType.Name, "__") || builtIn.hasType(fullType.Name) {
			continue
		}
		if err := j.importFullType(fullType); err != nil {
			return err
		}
	}

	for _, directive := range j.schema.Directives {
		if builtIn.hasDirective(directive.Name) {
			continue
		}
		if err := j.importDirective(directive); err != nil {
			return err
		}
	}

	return nil
}

func (j *JsonConverter) writeRootOperation(operation, typeName string) {
	if typeName == "" {
		return
	}
	fmt.Fprintf(j.out, "  %s: %s\n", operation, typeName)
}

func (j *JsonConverter) importFullType(fullType FullType) error {
	if fullType.Name == "" {
		return fmt.Errorf("type of kind %s has no name", fullType.Kind)
	}

	j.out.WriteString("\n")
	j.writeDescription(fullType.Description, "")

	switch fullType.Kind {
	case SCALAR:
		j.importScalar(fullType)
	case OBJECT:
		return j.importObject(fullType, "type")
	case INTERFACE:
		return j.importObject(fullType, "interface")
	case ENUM:
		j.importEnum(fullType)
	case UNION:
		return j.importUnion(fullType)
	case INPUTOBJECT:
		return j.importInputObject(fullType)
	default:
		return fmt.Errorf("type %s has unsupported kind %q", fullType.Name, fullType.Kind)
	}

	return nil
}

func (j *JsonConverter) importScalar(fullType FullType) {
	fmt.Fprintf(j.out, "scalar %s\n", fullType.Name)
}

func (j *JsonConverter) importObject(fullType FullType, keyword string) error {
	fmt.Fprintf(j.out, "%s %s", keyword, fullType.Name)

	if len(fullType.Interfaces) > 0 {
		names := make([]string, 0, len(fullType.Interfaces))
		for _, ref := range fullType.Interfaces {
			name, err := j.importType(ref)
			if err != nil {
				return err
			}
			names = append(names, name)
		}
		fmt.Fprintf(j.out, " implements %s", strings.Join(names, " & "))
	}

	if len(fullType.Fields) == 0 {
		j.out.WriteString("\n")
		return nil
	}

	j.out.WriteString(" {\n")
	for _, field := range fullType.Fields {
		if err := j.importField(field); err != nil {
			return fmt.Errorf("%s.%s: %w", fullType.Name, field.Name, err)
		}
	}
	j.out.WriteString("}\n")

	return nil
}

func (j *JsonConverter) importField(field Field) error {
	typeName, err := j.importType(field.Type)
	if err != nil {
		return err
	}

	args, err := j.importArguments(field.Args)
	if err != nil {
		return err
	}

	j.writeDescription(field.Description, "  ")
	fmt.Fprintf(j.out, "  %s%s: %s", field.Name, args, typeName)
	j.writeDeprecation(field.IsDeprecated, field.DeprecationReason)
	j.out.WriteString("\n")

	return nil
}

func (j *JsonConverter) importArguments(args []InputValue) (string, error) {
	if len(args) == 0 {
		return "", nil
	}

	values := make([]string, 0, len(args))
	for _, arg := range args {
		value, err := j.importInputValue(arg)
		if err != nil {
			return "", err
		}
		values = append(values, value)
	}

	return "(" + strings.Join(values, ", ") + ")", nil
}

func (j *JsonConverter) importInputValue(value InputValue) (string, error) {
	typeName, err := j.importType(value.Type)
	if err != nil {
		return "", fmt.Errorf("%s: %w", value.Name, err)
	}

	out := value.Name + ": " + typeName
	if value.DefaultValue != nil {
		// default values are already printed as GraphQL literals
		out += " = " + *value.DefaultValue
	}

	return out, nil
}

func (j *JsonConverter) importType(typeRef TypeRef) (string, error) {
	switch typeRef.Kind {
	case LIST:
		if typeRef.OfType == nil {
			return "", fmt.Errorf("list type without item type")
		}
		inner, err := j.importType(*typeRef.OfType)
		if err != nil {
			return "", err
		}
		return "[" + inner + "]", nil
	case NONNULL:
		if typeRef.OfType == nil {
			return "", fmt.Errorf("non null type without inner type")
		}
		inner, err := j.importType(*typeRef.OfType)
		if err != nil {
			return "", err
		}
		return inner + "!", nil
	}

	if typeRef.Name == nil || *typeRef.Name == "" {
		return "", fmt.Errorf("named type of kind %q without name", typeRef.Kind)
	}

	return *typeRef.Name, nil
}

func (j *JsonConverter) importEnum(fullType FullType) {
	fmt.Fprintf(j.out, "enum %s {\n", fullType.Name)
	for _, value := range fullType.EnumValues {
		j.writeDescription(value.Description, "  ")
		fmt.Fprintf(j.out, "  %s", value.Name)
		j.writeDeprecation(value.IsDeprecated, value.DeprecationReason)
		j.out.WriteString("\n")
	}
	j.out.WriteString("}\n")
}

func (j *JsonConverter) importUnion(fullType FullType) error {
	names := make([]string, 0, len(fullType.PossibleTypes))
	for _, ref := range fullType.PossibleTypes {
		name, err := j.importType(ref)
		if err != nil {
			return fmt.Errorf("%s: %w", fullType.Name, err)
		}
		names = append(names, name)
	}

	fmt.Fprintf(j.out, "union %s = %s\n", fullType.Name, strings.Join(names, " | "))
	return nil
}

func (j *JsonConverter) importInputObject(fullType FullType) error {
	fmt.Fprintf(j.out, "input %s {\n", fullType.Name)
	for _, field := range fullType.InputFields {
		value, err := j.importInputValue(field)
		if err != nil {
			return fmt.Errorf("%s: %w", fullType.Name, err)
		}
		j.writeDescription(field.Description, "  ")
		fmt.Fprintf(j.out, "  %s\n", value)
	}
	j.out.WriteString("}\n")

	return nil
}

func (j *JsonConverter) importDirective(directive Directive) error {
	args, err := j.importArguments(directive.Args)
	if err != nil {
		return fmt.Errorf("@%s: %w", directive.Name, err)
	}

	j.out.WriteString("\n")
	j.writeDescription(directive.Description, "")
	fmt.Fprintf(j.out, "directive @%s%s", directive.Name, args)
	if directive.IsRepeatable {
		j.out.WriteString(" repeatable")
	}
	fmt.Fprintf(j.out, " on %s\n", strings.Join(directive.Locations, " | "))

	return nil
}

func (j *JsonConverter) writeDeprecation(isDeprecated bool, reason *string) {
	if !isDeprecated {
		return
	}
	if reason == nil {
		j.out.WriteString(" @deprecated")
		return
	}
	fmt.Fprintf(j.out, " @deprecated(reason: %s)", strconv.Quote(*reason))
}

func (j *JsonConverter) writeDescription(description, indent string) {
	if description == "" {
		return
	}
	escaped := strings.ReplaceAll(description, `"""`, `\"""`)
	fmt.Fprintf(j.out, "%s\"\"\"%s\"\"\"\n", indent, escaped)
}

type prelude struct {
	types      map[string]struct{}
	directives map[string]struct{}
}

func (p prelude) hasType(name string) bool {
	_, ok := p.types[name]
	return ok
}

func (p prelude) hasDirective(name string) bool {
	_, ok := p.directives[name]
	return ok
}

var loadPrelude = sync.OnceValue(func() prelude {
	p := prelude{
		types:      map[string]struct{}{},
		directives: map[string]struct{}{},
	}

	doc, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		// the prelude ships with the parser and always parses
		panic(err)
	}

	for _, definition := range doc.Definitions {
		p.types[definition.Name] = struct{}{}
	}
	for _, directive := range doc.Directives {
		p.directives[directive.Name] = struct{}{}
	}

	return p
})
