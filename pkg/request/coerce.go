package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Coerce converts a payload value into a flat query parameter value.
// Booleans become 1 or 0, strings are kept as they are and every other value
// (maps, slices, numbers) is JSON encoded.
func Coerce(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("coerce %T: %w", value, err)
	}
	return string(data), nil
}

// QueryParams returns the payload as URL query parameters for GET requests.
func (r *Request) QueryParams() (url.Values, error) {
	params := url.Values{}
	params.Set("query", r.query)

	if r.operationName != "" {
		params.Set("operationName", r.operationName)
	}

	if len(r.variables) > 0 {
		variables, err := Coerce(r.variables)
		if err != nil {
			return nil, err
		}
		params.Set("variables", variables)
	}

	return params, nil
}
