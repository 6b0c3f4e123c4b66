// Package pipeline contains the request orchestrator: the staged
// control flow that turns one chat question into a generated SQL
// query, query results, an optional chart, and a prose answer, with
// per-stage failure isolation. Stages run strictly in order inside a
// single goroutine per request; each stage waits on the previous one.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
	"github.com/hussainashraf/sales-analytics-ai-application/validation"
)

// QueryGenerator turns a natural-language question into a candidate
// SQL query, produced as a finite stream of text chunks.
type QueryGenerator interface {
	GenerateQueryStream(ctx context.Context, question string) (<-chan models.StreamChunk, error)
}

// AnswerGenerator explains (question, query, rows) in business prose.
// It must accept an empty row set and still produce an explanation.
type AnswerGenerator interface {
	GenerateAnswerStream(ctx context.Context, question, query string, rows []models.Row) (<-chan models.StreamChunk, error)
}

// ChartGenerator produces a chart image for the query results.
type ChartGenerator interface {
	GenerateChartImage(ctx context.Context, question, query string, rows []models.Row) ([]byte, error)
}

// DocumentAnalyzer compares two documents with respect to a question.
type DocumentAnalyzer interface {
	AnalyzeDocumentsStream(ctx context.Context, question, purchaseOrder, proformaInvoice string) (<-chan models.StreamChunk, error)
}

// QueryExecutor runs a validated SQL query against the data store.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string) ([]models.Row, error)
}

// DocumentLoader provides the two reference documents for document
// mode.
type DocumentLoader interface {
	LoadDocuments() (purchaseOrder, proformaInvoice string, err error)
}

type Options struct {
	QueryGenerator   QueryGenerator
	AnswerGenerator  AnswerGenerator
	ChartGenerator   ChartGenerator
	DocumentAnalyzer DocumentAnalyzer
	Executor         QueryExecutor
	DocumentLoader   DocumentLoader

	// StageTimeout bounds every wait on a collaborator (next chunk,
	// execution result). ChartTimeout bounds chart generation, which
	// is allowed to take longer. Zero values get defaults.
	StageTimeout time.Duration
	ChartTimeout time.Duration
}

type Pipeline struct {
	queryGen     QueryGenerator
	answerGen    AnswerGenerator
	chartGen     ChartGenerator
	docAnalyzer  DocumentAnalyzer
	executor     QueryExecutor
	docLoader    DocumentLoader
	stageTimeout time.Duration
	chartTimeout time.Duration
}

func New(opts Options) *Pipeline {
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = 120 * time.Second
	}
	if opts.ChartTimeout <= 0 {
		opts.ChartTimeout = 300 * time.Second
	}
	return &Pipeline{
		queryGen:     opts.QueryGenerator,
		answerGen:    opts.AnswerGenerator,
		chartGen:     opts.ChartGenerator,
		docAnalyzer:  opts.DocumentAnalyzer,
		executor:     opts.Executor,
		docLoader:    opts.DocumentLoader,
		stageTimeout: opts.StageTimeout,
		chartTimeout: opts.ChartTimeout,
	}
}

// Run executes the pipeline for one request and streams events on the
// returned channel. The channel is closed after the terminal event
// (done or error). Cancelling ctx stops the pipeline; no further
// stages are invoked after the caller disconnects.
func (p *Pipeline) Run(ctx context.Context, req models.ChatRequest) <-chan models.Event {
	out := make(chan models.Event)
	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PIPELINE] Panic in pipeline: %v", r)
				p.emit(ctx, out, models.Event{Type: models.EventError, Error: fmt.Sprintf("internal error: %v", r)})
			}
		}()
		if req.DocumentMode {
			p.runDocuments(ctx, req.Question, out)
			return
		}
		p.runQuery(ctx, req.Question, out)
	}()
	return out
}

// runQuery drives the data query pipeline: generate SQL, validate and
// execute, optionally chart, then always explain. An execution failure
// (including a safety rejection) is reported as query_error and the
// answer stage still runs with an empty row set, so the caller always
// gets terminal prose.
func (p *Pipeline) runQuery(ctx context.Context, question string, out chan<- models.Event) {
	if !p.emit(ctx, out, models.Event{Type: models.EventStatus, Step: models.StepGeneratingSQL, Message: "Generating SQL query..."}) {
		return
	}

	query, err := p.streamQueryGeneration(ctx, question, out)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.emit(ctx, out, models.Event{Type: models.EventError, Error: fmt.Sprintf("SQL generation failed: %v", err)})
		return
	}
	if !p.emit(ctx, out, models.Event{Type: models.EventQueryComplete, SQL: query}) {
		return
	}

	if !p.emit(ctx, out, models.Event{Type: models.EventStatus, Step: models.StepExecutingSQL, Message: "Executing SQL query..."}) {
		return
	}
	rows, execErr := p.executeQuery(ctx, query)
	if execErr != nil {
		log.Printf("[PIPELINE] SQL execution failed: %v", execErr)
		rows = []models.Row{}
		if !p.emit(ctx, out, models.Event{Type: models.EventQueryError, Error: execErr.Error()}) {
			return
		}
	} else {
		if !p.emit(ctx, out, models.Event{Type: models.EventQueryResult, Data: rows}) {
			return
		}
		// Chart stage only runs on successful execution, and always
		// fully resolves before the answer stage starts.
		if NeedsChart(question) {
			if !p.emit(ctx, out, models.Event{Type: models.EventStatus, Step: models.StepGeneratingChart, Message: "Generating chart..."}) {
				return
			}
			image, chartErr := p.generateChart(ctx, question, query, rows)
			if chartErr != nil {
				log.Printf("[PIPELINE] Chart generation failed: %v", chartErr)
				if !p.emit(ctx, out, models.Event{Type: models.EventChartError, Error: chartErr.Error()}) {
					return
				}
			} else if !p.emit(ctx, out, models.Event{Type: models.EventChartImage, Image: base64.StdEncoding.EncodeToString(image)}) {
				return
			}
		}
	}

	if !p.emit(ctx, out, models.Event{Type: models.EventStatus, Step: models.StepGeneratingAnswer, Message: "Generating answer..."}) {
		return
	}
	if !p.streamAnswer(ctx, question, query, rows, execErr, out) {
		return
	}

	p.emit(ctx, out, models.Event{Type: models.EventDone})
}

// streamQueryGeneration forwards generator chunks as query_chunk
// events (fence markers stripped per chunk) and returns the finalized
// query.
func (p *Pipeline) streamQueryGeneration(ctx context.Context, question string, out chan<- models.Event) (string, error) {
	stream, err := p.queryGen.GenerateQueryStream(ctx, question)
	if err != nil {
		return "", err
	}
	var raw strings.Builder
	err = p.drainStream(ctx, stream, func(chunk string) bool {
		raw.WriteString(chunk)
		clean := StripFences(chunk)
		if clean == "" {
			return true
		}
		return p.emit(ctx, out, models.Event{Type: models.EventQueryChunk, Content: clean})
	})
	if err != nil {
		return "", err
	}
	return FinalizeQuery(raw.String()), nil
}

// streamAnswer forwards answer chunks and guarantees at least one
// answer_chunk is emitted: if the generator fails or produces nothing,
// a fallback message (including the upstream error text) is sent
// instead. Returns false only when the caller went away.
func (p *Pipeline) streamAnswer(ctx context.Context, question, query string, rows []models.Row, execErr error, out chan<- models.Event) bool {
	var genErr error
	produced := false

	stream, err := p.answerGen.GenerateAnswerStream(ctx, question, query, rows)
	if err != nil {
		genErr = err
	} else {
		genErr = p.drainStream(ctx, stream, func(chunk string) bool {
			if chunk == "" {
				return true
			}
			produced = true
			return p.emit(ctx, out, models.Event{Type: models.EventAnswerChunk, Content: chunk})
		})
	}
	if ctx.Err() != nil {
		return false
	}
	if genErr == nil && produced {
		return true
	}
	log.Printf("[PIPELINE] Answer generation failed (genErr=%v, execErr=%v)", genErr, execErr)
	return p.emit(ctx, out, models.Event{Type: models.EventAnswerChunk, Content: fallbackAnswer(execErr, genErr)})
}

// fallbackAnswer builds the terminal prose used when the answer
// generator itself fails or returns nothing.
func fallbackAnswer(execErr, genErr error) string {
	switch {
	case genErr != nil && execErr != nil:
		return fmt.Sprintf("I could not generate an explanation (%v). SQL execution failed: %v", genErr, execErr)
	case genErr != nil:
		return fmt.Sprintf("Answer generation failed: %v", genErr)
	case execErr != nil:
		return fmt.Sprintf("SQL execution failed: %v", execErr)
	default:
		return "The answer generator returned no content."
	}
}

// runDocuments drives the document comparison pipeline. A load or
// generation failure here is fatal to the request: a single error
// event, no done.
func (p *Pipeline) runDocuments(ctx context.Context, question string, out chan<- models.Event) {
	po, pi, err := p.docLoader.LoadDocuments()
	if err != nil {
		p.emit(ctx, out, models.Event{Type: models.EventError, Error: err.Error()})
		return
	}

	if !p.emit(ctx, out, models.Event{Type: models.EventStatus, Step: models.StepGeneratingAnswer, Message: "Analyzing documents..."}) {
		return
	}
	stream, err := p.docAnalyzer.AnalyzeDocumentsStream(ctx, question, po, pi)
	if err != nil {
		p.emit(ctx, out, models.Event{Type: models.EventError, Error: err.Error()})
		return
	}
	err = p.drainStream(ctx, stream, func(chunk string) bool {
		if chunk == "" {
			return true
		}
		return p.emit(ctx, out, models.Event{Type: models.EventAnswerChunk, Content: chunk})
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.emit(ctx, out, models.Event{Type: models.EventError, Error: err.Error()})
		return
	}
	p.emit(ctx, out, models.Event{Type: models.EventDone})
}

// executeQuery applies the safety gate, then runs the query with a
// bounded wait. A nil result from the backend is normalized to an
// empty row set; callers never see nil rows alongside a nil error.
func (p *Pipeline) executeQuery(ctx context.Context, query string) ([]models.Row, error) {
	if err := validation.ValidateQuery(query); err != nil {
		return nil, err
	}
	if p.executor == nil {
		return nil, fmt.Errorf("SQL execution backend is not configured")
	}
	execCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	rows, err := p.executor.ExecuteQuery(execCtx, query)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Row{}
	}
	return rows, nil
}

func (p *Pipeline) generateChart(ctx context.Context, question, query string, rows []models.Row) ([]byte, error) {
	chartCtx, cancel := context.WithTimeout(ctx, p.chartTimeout)
	defer cancel()
	return p.chartGen.GenerateChartImage(chartCtx, question, query, rows)
}

// drainStream consumes a chunk stream until it closes, a chunk carries
// an error, the per-stage wait expires, or ctx is cancelled. onChunk
// returns false to stop consumption (emission failed, caller gone).
func (p *Pipeline) drainStream(ctx context.Context, stream <-chan models.StreamChunk, onChunk func(string) bool) error {
	timer := time.NewTimer(p.stageTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("stage timed out after %s waiting for output", p.stageTimeout)
		case chunk, ok := <-stream:
			if !ok {
				return nil
			}
			if chunk.Err != nil {
				return chunk.Err
			}
			if !onChunk(chunk.Content) {
				return ctx.Err()
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.stageTimeout)
		}
	}
}

// emit delivers one event, giving up if the consumer is gone.
func (p *Pipeline) emit(ctx context.Context, out chan<- models.Event, ev models.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
