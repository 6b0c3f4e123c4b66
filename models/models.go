package models

// ChatRequest is the body of POST /chat. Question routes to the sales
// data pipeline or, with DocumentMode set, to the PO/PI document
// comparison pipeline.
type ChatRequest struct {
	Question     string `json:"question" binding:"required"`
	Stream       bool   `json:"stream"`
	DocumentMode bool   `json:"document_mode"`
}

// Row is a single result record keyed by column name.
type Row map[string]interface{}

// ChatResponse is the aggregated non-streaming response for the data
// query pipeline. ChartImage stays null when no chart was requested or
// chart generation failed.
type ChatResponse struct {
	Question     string  `json:"question"`
	GeneratedSQL string  `json:"generated_sql"`
	Data         []Row   `json:"data"`
	Answer       string  `json:"answer"`
	ChartImage   *string `json:"chart_image"`
	Status       string  `json:"status"`
}

// DocumentResponse is the aggregated non-streaming response for the
// document comparison pipeline.
type DocumentResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Status   string `json:"status"`
	Mode     string `json:"mode"`
}

// ErrorResponse is returned (still with HTTP 200) when a non-streaming
// pipeline fails before producing an answer. No partial fields.
type ErrorResponse struct {
	Question string `json:"question"`
	Error    string `json:"error"`
	Status   string `json:"status"`
}

// ReferenceDoc is a schema/reference document fed into the SQL
// generation prompt.
type ReferenceDoc struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// StreamChunk is one fragment of incrementally produced text. The
// channel carrying chunks is closed when the stream finishes; a chunk
// with Err set terminates the stream with a failure.
type StreamChunk struct {
	Content string
	Err     error
}
