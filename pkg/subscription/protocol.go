// Package subscription runs GraphQL subscriptions over a WebSocket using
// the subscriptions-transport-ws protocol (graphql-ws sub-protocol).
//
// See: https://github.com/apollographql/subscriptions-transport-ws/blob/master/PROTOCOL.md
package subscription

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abn/aiographql-client/pkg/request"
)

// ProtocolGraphQLWS is the WebSocket sub-protocol name of
// subscriptions-transport-ws.
const ProtocolGraphQLWS = "graphql-ws"

type EventType string

const (
	ConnectionInit      EventType = "connection_init"
	ConnectionAck       EventType = "connection_ack"
	ConnectionError     EventType = "connection_error"
	ConnectionTerminate EventType = "connection_terminate"
	Start               EventType = "start"
	Data                EventType = "data"
	Error               EventType = "error"
	Complete            EventType = "complete"
	Stop                EventType = "stop"
	KeepAlive           EventType = "ka"
)

// Known reports whether t is part of the protocol.
func (t EventType) Known() bool {
	switch t {
	case ConnectionInit, ConnectionAck, ConnectionError, ConnectionTerminate,
		Start, Data, Error, Complete, Stop, KeepAlive:
		return true
	}
	return false
}

// DefaultStopEvents end a subscription when received.
func DefaultStopEvents() []EventType {
	return []EventType{Error, ConnectionError, Complete}
}

type outgoingMessage struct {
	ID      string    `json:"id,omitempty"`
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

type initPayload struct {
	Headers map[string]string `json:"headers"`
}

func connectionInitMessage(headers http.Header) ([]byte, error) {
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		flat[key] = strings.Join(values, ", ")
	}
	return json.Marshal(outgoingMessage{
		Type:    ConnectionInit,
		Payload: initPayload{Headers: flat},
	})
}

func startMessage(id string, req *request.Request) ([]byte, error) {
	return json.Marshal(outgoingMessage{
		ID:      id,
		Type:    Start,
		Payload: req.Payload(),
	})
}

func stopMessage(id string) ([]byte, error) {
	return json.Marshal(outgoingMessage{
		ID:   id,
		Type: Stop,
	})
}
