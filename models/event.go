package models

import "encoding/json"

// EventType discriminates the streamed pipeline events.
type EventType string

const (
	EventStatus        EventType = "status"
	EventQueryChunk    EventType = "query_chunk"
	EventQueryComplete EventType = "query_complete"
	EventQueryResult   EventType = "query_result"
	EventQueryError    EventType = "query_error"
	EventChartImage    EventType = "chart_image"
	EventChartError    EventType = "chart_error"
	EventAnswerChunk   EventType = "answer_chunk"
	EventDone          EventType = "done"
	EventError         EventType = "error"
)

// Pipeline step names carried by status events.
const (
	StepGeneratingSQL    = "generating_sql"
	StepExecutingSQL     = "executing_sql"
	StepGeneratingChart  = "generating_chart"
	StepGeneratingAnswer = "generating_answer"
)

// Event is one streamed unit of the chat response. Which fields are
// meaningful depends on Type; MarshalJSON emits only those, so every
// frame carries exactly the keys its variant defines.
type Event struct {
	Type    EventType
	Step    string
	Message string
	Content string
	SQL     string
	Data    []Row
	Image   string
	Error   string
}

func (e Event) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"type": e.Type}
	switch e.Type {
	case EventStatus:
		m["step"] = e.Step
		m["message"] = e.Message
	case EventQueryChunk, EventAnswerChunk:
		m["content"] = e.Content
	case EventQueryComplete:
		m["sql"] = e.SQL
	case EventQueryResult:
		rows := e.Data
		if rows == nil {
			rows = []Row{}
		}
		m["data"] = rows
		m["data_count"] = len(rows)
	case EventQueryError, EventChartError, EventError:
		m["error"] = e.Error
	case EventChartImage:
		m["image"] = e.Image
	case EventDone:
		// type only
	}
	return json.Marshal(m)
}
