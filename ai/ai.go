// Package ai implements the four generator collaborators (SQL query,
// answer, chart, document comparison) on top of an OpenAI-compatible
// chat completion API.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/hussainashraf/sales-analytics-ai-application/cache"
	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

// ReferenceSource provides schema/reference documents for the SQL
// generation prompt.
type ReferenceSource interface {
	GetReferenceDocs() ([]models.ReferenceDoc, error)
}

type Service struct {
	client     *openai.Client
	model      string
	imageModel string
	cache      *cache.Cache
	refs       ReferenceSource
}

// New creates the AI service. baseURL may point at any
// OpenAI-compatible endpoint; empty means the default API.
func New(apiKey, baseURL, model, imageModel string, c *cache.Cache, refs ReferenceSource) (*Service, error) {
	if apiKey == "" {
		return nil, errors.New("AI API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Service{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		imageModel: imageModel,
		cache:      c,
		refs:       refs,
	}, nil
}

// GenerateQueryStream produces a candidate SQL query as a chunk
// stream. Repeated questions are served from cache as a single chunk;
// the raw (unfinalized) text is cached so a replay goes through the
// same cleanup path as a live stream.
func (s *Service) GenerateQueryStream(ctx context.Context, question string) (<-chan models.StreamChunk, error) {
	cacheKey := fmt.Sprintf("sql:%s", question)
	if cached, found := s.cache.GetString(cacheKey); found {
		log.Printf("[AI] SQL cache hit for question: %s", question)
		return singleChunkStream(cached), nil
	}

	var refDocs []models.ReferenceDoc
	if s.refs != nil {
		docs, err := s.refs.GetReferenceDocs()
		if err != nil {
			log.Printf("[AI] Failed to load reference docs: %v", err)
		} else {
			refDocs = docs
		}
	}

	prompt := BuildSQLPrompt(question, refDocs)
	return s.streamCompletion(ctx, prompt, func(full string) {
		s.cache.SetDefault(cacheKey, full)
	})
}

// GenerateAnswerStream explains the query result in business prose.
// An empty row set is valid input; the prompt tells the model to
// explain why no data came back.
func (s *Service) GenerateAnswerStream(ctx context.Context, question, query string, rows []models.Row) (<-chan models.StreamChunk, error) {
	return s.streamCompletion(ctx, BuildAnswerPrompt(question, query, rows), nil)
}

// AnalyzeDocumentsStream compares the purchase order against the
// proforma invoice with respect to the question.
func (s *Service) AnalyzeDocumentsStream(ctx context.Context, question, purchaseOrder, proformaInvoice string) (<-chan models.StreamChunk, error) {
	return s.streamCompletion(ctx, BuildDocumentComparisonPrompt(question, purchaseOrder, proformaInvoice), nil)
}

// GenerateChartImage renders a chart for the query results via the
// image generation endpoint and returns the raw image bytes.
func (s *Service) GenerateChartImage(ctx context.Context, question, query string, rows []models.Row) ([]byte, error) {
	log.Printf("[AI] Generating chart for question: %s", question)
	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         BuildChartPrompt(question, query, rows),
		Model:          s.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("no image generated in response")
	}
	image, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chart image: %w", err)
	}
	log.Printf("[AI] Chart generated successfully, size: %d bytes", len(image))
	return image, nil
}

// streamCompletion runs one streaming chat completion and forwards the
// deltas. onComplete, if set, receives the full accumulated text after
// a clean end of stream.
func (s *Service) streamCompletion(ctx context.Context, prompt string, onComplete func(string)) (<-chan models.StreamChunk, error) {
	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion stream: %w", err)
	}

	out := make(chan models.StreamChunk, 100)
	go func() {
		defer close(out)
		defer stream.Close()

		var full string
		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				if onComplete != nil {
					onComplete(full)
				}
				return
			}
			if err != nil {
				out <- models.StreamChunk{Err: fmt.Errorf("stream error: %w", err)}
				return
			}
			if len(response.Choices) == 0 {
				continue
			}
			delta := response.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			full += delta
			select {
			case out <- models.StreamChunk{Content: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func singleChunkStream(content string) <-chan models.StreamChunk {
	out := make(chan models.StreamChunk, 1)
	out <- models.StreamChunk{Content: content}
	close(out)
	return out
}
