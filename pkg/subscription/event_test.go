package subscription

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abn/aiographql-client/pkg/request"
)

func TestParseEvent(t *testing.T) {
	req := request.New("subscription { counter }")

	t.Run("data", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"id":"1","type":"data","payload":{"data":{"counter":3}}}`), req)
		require.NoError(t, err)
		assert.Equal(t, "1", event.ID)
		assert.Equal(t, Data, event.Type)
		assert.JSONEq(t, `{"data":{"counter":3}}`, string(event.Payload))
		assert.Equal(t, map[string]any{"counter": float64(3)}, event.Response().Data())
		assert.Same(t, req, event.Response().Request())
	})

	t.Run("numeric id", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"id":7,"type":"complete"}`), req)
		require.NoError(t, err)
		assert.Equal(t, "7", event.ID)
		assert.Nil(t, event.Payload)
		assert.Nil(t, event.Response())
	})

	t.Run("escaped id", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"id":"a\"b","type":"complete"}`), req)
		require.NoError(t, err)
		assert.Equal(t, `a"b`, event.ID)
	})

	t.Run("keep alive", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"type":"ka","payload":null}`), req)
		require.NoError(t, err)
		assert.Empty(t, event.ID)
		assert.Equal(t, KeepAlive, event.Type)
		assert.Nil(t, event.Payload)
	})

	t.Run("error payloads", func(t *testing.T) {
		payloads := map[string]string{
			"list":    `[{"message":"boom"}]`,
			"object":  `{"message":"boom"}`,
			"errors":  `{"errors":[{"message":"boom"}]}`,
			"message": `"boom"`,
		}
		for name, payload := range payloads {
			t.Run(name, func(t *testing.T) {
				event, err := ParseEvent([]byte(`{"id":"1","type":"error","payload":`+payload+`}`), req)
				require.NoError(t, err)
				assert.JSONEq(t, payload, string(event.Payload))
				require.True(t, event.Response().HasErrors())
				assert.Equal(t, "boom", event.Response().Errors()[0].Message)
			})
		}
	})

	t.Run("missing payload", func(t *testing.T) {
		for _, message := range []string{`{"id":"1","type":"data"}`, `{"id":"1","type":"error","payload":null}`} {
			event, err := ParseEvent([]byte(message), req)
			require.NoError(t, err)
			assert.Nil(t, event.Payload)
			require.NotNil(t, event.Response(), message)
			assert.Empty(t, event.Response().JSON())
			assert.Empty(t, event.Response().Data())
			assert.False(t, event.Response().HasErrors())
			assert.Same(t, req, event.Response().Request())
		}
	})

	t.Run("connection error keeps raw payload", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"type":"connection_error","payload":"unauthorized"}`), req)
		require.NoError(t, err)
		assert.Equal(t, `"unauthorized"`, string(event.Payload))
		assert.Nil(t, event.Response())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, message := range []string{`not json`, `{}`, `{"type":1}`, `[]`} {
			_, err := ParseEvent([]byte(message), req)
			assert.ErrorIs(t, err, ErrMalformedMessage, message)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"type":"next"}`), req)
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})
}

func TestEventType_Known(t *testing.T) {
	for _, eventType := range []EventType{ConnectionInit, ConnectionAck, ConnectionError, ConnectionTerminate, Start, Data, Error, Complete, Stop, KeepAlive} {
		assert.True(t, eventType.Known(), eventType)
	}
	assert.False(t, EventType("next").Known())
}

func TestMessages(t *testing.T) {
	init, err := connectionInitMessage(http.Header{"X-Multi": {"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"connection_init","payload":{"headers":{"X-Multi":"a, b"}}}`, string(init))

	init, err = connectionInitMessage(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"connection_init","payload":{"headers":{}}}`, string(init))

	start, err := startMessage("1", request.New("subscription { counter }", request.WithOperationName("Counter")))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(start, &decoded))
	assert.Equal(t, map[string]any{
		"id":   "1",
		"type": "start",
		"payload": map[string]any{
			"query":         "subscription { counter }",
			"operationName": "Counter",
		},
	}, decoded)

	stop, err := stopMessage("1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","type":"stop"}`, string(stop))
}
