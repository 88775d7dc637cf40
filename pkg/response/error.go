package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abn/aiographql-client/internal/pkg/deepcopy"
)

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a single entry of the "errors" list of a GraphQL response.
// Fields sent by the server that are not part of the GraphQL specification
// are kept in Extra instead of being dropped.
type Error struct {
	Message    string
	Extensions map[string]any
	Locations  []Location
	Path       []any
	Extra      map[string]any
}

func (e Error) Error() string {
	if len(e.Locations) == 0 {
		return e.Message
	}
	locations := make([]string, 0, len(e.Locations))
	for _, l := range e.Locations {
		locations = append(locations, fmt.Sprintf("%d:%d", l.Line, l.Column))
	}
	return fmt.Sprintf("%s (at %s)", e.Message, strings.Join(locations, ", "))
}

// Field returns a server supplied field by name, looking at the known fields
// first and at Extra afterwards.
func (e Error) Field(name string) (any, bool) {
	switch name {
	case "message":
		return e.Message, true
	case "extensions":
		return e.Extensions, true
	case "locations":
		return e.Locations, e.Locations != nil
	case "path":
		return e.Path, e.Path != nil
	}
	value, ok := e.Extra[name]
	return value, ok
}

func (e *Error) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*e = errorFromValue(value)
	return nil
}

func (e Error) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+4)
	for key, value := range e.Extra {
		out[key] = value
	}
	out["message"] = e.Message
	if len(e.Extensions) > 0 {
		out["extensions"] = e.Extensions
	}
	if e.Locations != nil {
		out["locations"] = e.Locations
	}
	if e.Path != nil {
		out["path"] = e.Path
	}
	return json.Marshal(out)
}

// errorFromValue never fails: entries that are not objects are turned into
// an Error carrying their textual form as message.
func errorFromValue(value any) Error {
	e := Error{Extensions: map[string]any{}}

	object, ok := value.(map[string]any)
	if !ok {
		if value != nil {
			e.Message = fmt.Sprint(value)
		}
		return e
	}

	for key, field := range object {
		switch key {
		case "message":
			if message, ok := field.(string); ok {
				e.Message = message
				continue
			}
		case "extensions":
			if extensions, ok := field.(map[string]any); ok {
				e.Extensions = deepcopy.Map(extensions)
				continue
			}
		case "locations":
			if locations, ok := locationsFromValue(field); ok {
				e.Locations = locations
				continue
			}
		case "path":
			if path, ok := field.([]any); ok {
				e.Path = deepcopy.Value(path).([]any)
				continue
			}
		}

		// unknown fields and known fields of an unexpected shape
		if e.Extra == nil {
			e.Extra = map[string]any{}
		}
		e.Extra[key] = deepcopy.Value(field)
	}

	return e
}

func locationsFromValue(value any) ([]Location, bool) {
	list, ok := value.([]any)
	if !ok {
		return nil, false
	}
	locations := make([]Location, 0, len(list))
	for _, item := range list {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		line, _ := object["line"].(float64)
		column, _ := object["column"].(float64)
		locations = append(locations, Location{Line: int(line), Column: int(column)})
	}
	return locations, true
}
