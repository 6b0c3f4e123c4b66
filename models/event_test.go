package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEvent(t *testing.T, ev Event) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestEventMarshalVariants(t *testing.T) {
	t.Run("done carries only its type", func(t *testing.T) {
		data, err := json.Marshal(Event{Type: EventDone})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"done"}`, string(data))
	})

	t.Run("status", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventStatus, Step: StepGeneratingSQL, Message: "Generating SQL query..."})
		assert.Equal(t, "status", m["type"])
		assert.Equal(t, "generating_sql", m["step"])
		assert.Equal(t, "Generating SQL query...", m["message"])
		assert.Len(t, m, 3)
	})

	t.Run("query_chunk", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventQueryChunk, Content: "SELECT "})
		assert.Equal(t, "SELECT ", m["content"])
		assert.Len(t, m, 2)
	})

	t.Run("query_complete", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventQueryComplete, SQL: "SELECT 1"})
		assert.Equal(t, "SELECT 1", m["sql"])
		assert.Len(t, m, 2)
	})

	t.Run("query_result with rows", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventQueryResult, Data: []Row{{"sum": 1000}}})
		assert.Equal(t, float64(1), m["data_count"])
		rows, ok := m["data"].([]interface{})
		require.True(t, ok)
		require.Len(t, rows, 1)
	})

	t.Run("query_result with nil rows serializes an empty array", func(t *testing.T) {
		data, err := json.Marshal(Event{Type: EventQueryResult})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"query_result","data":[],"data_count":0}`, string(data))
	})

	t.Run("errors", func(t *testing.T) {
		for _, typ := range []EventType{EventQueryError, EventChartError, EventError} {
			m := marshalEvent(t, Event{Type: typ, Error: "boom"})
			assert.Equal(t, "boom", m["error"])
			assert.Len(t, m, 2)
		}
	})

	t.Run("chart_image", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventChartImage, Image: "aGk="})
		assert.Equal(t, "aGk=", m["image"])
		assert.Len(t, m, 2)
	})

	t.Run("fields from other variants are not leaked", func(t *testing.T) {
		m := marshalEvent(t, Event{Type: EventAnswerChunk, Content: "hi", SQL: "SELECT 1", Error: "x"})
		assert.NotContains(t, m, "sql")
		assert.NotContains(t, m, "error")
	})
}
