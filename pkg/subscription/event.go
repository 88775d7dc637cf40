package subscription

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/tidwall/sjson"

	"github.com/abn/aiographql-client/pkg/request"
	"github.com/abn/aiographql-client/pkg/response"
)

var (
	ErrMalformedMessage = errors.New("subscription: malformed message")
	ErrUnknownEventType = errors.New("subscription: unknown event type")
)

// Event is a message received from the server.
type Event struct {
	// ID is empty for connection level messages.
	ID   string
	Type EventType
	// Payload is the raw JSON payload, nil when absent or null.
	Payload json.RawMessage

	response *response.Response
}

// Response returns the payload of Data and Error events as a response,
// nil for every other event type. A missing payload yields an empty
// response.
func (e *Event) Response() *response.Response {
	return e.response
}

// ParseEvent decodes a text message. Messages that are not JSON objects or
// carry no type yield ErrMalformedMessage, types outside of the protocol
// ErrUnknownEventType.
func ParseEvent(data []byte, req *request.Request) (*Event, error) {
	typ, err := jsonparser.GetString(data, "type")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}

	event := &Event{Type: EventType(typ)}
	if !event.Type.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, typ)
	}

	if id, dataType, _, err := jsonparser.Get(data, "id"); err == nil {
		switch dataType {
		case jsonparser.String:
			if event.ID, err = jsonparser.ParseString(id); err != nil {
				return nil, fmt.Errorf("%w: id: %s", ErrMalformedMessage, err)
			}
		case jsonparser.Number:
			event.ID = string(id)
		}
	}

	payload, dataType, _, err := jsonparser.Get(data, "payload")
	if err != nil || dataType == jsonparser.Null {
		if event.Type == Data || event.Type == Error {
			event.response = response.FromJSON(req, map[string]any{})
		}
		return event, nil
	}

	if dataType == jsonparser.String {
		text, err := jsonparser.ParseString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: payload: %s", ErrMalformedMessage, err)
		}
		payload, _ = json.Marshal(text)
	}
	event.Payload = append(json.RawMessage(nil), payload...)

	switch event.Type {
	case Data:
		event.response, err = response.New(req, event.Payload)
	case Error:
		event.response, err = errorResponse(req, event.Payload, dataType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %s", ErrMalformedMessage, err)
	}

	return event, nil
}

// errorResponse normalizes the payload of an error message into a response
// with an "errors" list. Servers send a list of errors, a single error
// object or a plain message.
func errorResponse(req *request.Request, payload []byte, dataType jsonparser.ValueType) (*response.Response, error) {
	var (
		body []byte
		err  error
	)

	switch dataType {
	case jsonparser.Array:
		body, err = sjson.SetRawBytes([]byte(`{}`), "errors", payload)
	case jsonparser.Object:
		if _, _, _, lookupErr := jsonparser.Get(payload, "errors"); lookupErr == nil {
			body = payload
			break
		}
		list := make([]byte, 0, len(payload)+2)
		list = append(append(append(list, '['), payload...), ']')
		body, err = sjson.SetRawBytes([]byte(`{}`), "errors", list)
	default:
		var message string
		if json.Unmarshal(payload, &message) != nil {
			message = string(payload)
		}
		var list []byte
		if list, err = json.Marshal([]map[string]string{{"message": message}}); err == nil {
			body, err = sjson.SetRawBytes([]byte(`{}`), "errors", list)
		}
	}
	if err != nil {
		return nil, err
	}

	return response.New(req, body)
}
