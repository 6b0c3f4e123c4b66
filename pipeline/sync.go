package pipeline

import (
	"context"
	"encoding/base64"
	"log"
	"strings"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

// RunQuerySync runs the data query pipeline without intermediate
// events. Unlike the streaming variant, the non-streaming contract is
// all-or-nothing: a failure before or during answer generation returns
// an error and no partial fields. Only a chart failure is tolerated
// (chart_image stays null).
func (p *Pipeline) RunQuerySync(ctx context.Context, question string) (*models.ChatResponse, error) {
	query, err := p.collectQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	log.Printf("[PIPELINE] Generated SQL: %s", query)

	rows, err := p.executeQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	answer, err := p.collectAnswer(ctx, question, query, rows)
	if err != nil {
		return nil, err
	}

	var chartImage *string
	if NeedsChart(question) {
		image, chartErr := p.generateChart(ctx, question, query, rows)
		if chartErr != nil {
			log.Printf("[PIPELINE] Chart generation failed: %v", chartErr)
		} else {
			encoded := base64.StdEncoding.EncodeToString(image)
			chartImage = &encoded
		}
	}

	return &models.ChatResponse{
		Question:     question,
		GeneratedSQL: query,
		Data:         rows,
		Answer:       answer,
		ChartImage:   chartImage,
		Status:       "success",
	}, nil
}

// RunDocumentsSync runs the document comparison pipeline without
// streaming.
func (p *Pipeline) RunDocumentsSync(ctx context.Context, question string) (*models.DocumentResponse, error) {
	po, pi, err := p.docLoader.LoadDocuments()
	if err != nil {
		return nil, err
	}
	stream, err := p.docAnalyzer.AnalyzeDocumentsStream(ctx, question, po, pi)
	if err != nil {
		return nil, err
	}
	answer, err := p.collect(ctx, stream)
	if err != nil {
		return nil, err
	}
	return &models.DocumentResponse{
		Question: question,
		Answer:   strings.TrimSpace(answer),
		Status:   "success",
		Mode:     "document_analysis",
	}, nil
}

func (p *Pipeline) collectQuery(ctx context.Context, question string) (string, error) {
	stream, err := p.queryGen.GenerateQueryStream(ctx, question)
	if err != nil {
		return "", err
	}
	raw, err := p.collect(ctx, stream)
	if err != nil {
		return "", err
	}
	return FinalizeQuery(raw), nil
}

func (p *Pipeline) collectAnswer(ctx context.Context, question, query string, rows []models.Row) (string, error) {
	stream, err := p.answerGen.GenerateAnswerStream(ctx, question, query, rows)
	if err != nil {
		return "", err
	}
	answer, err := p.collect(ctx, stream)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// collect concatenates a chunk stream into one string.
func (p *Pipeline) collect(ctx context.Context, stream <-chan models.StreamChunk) (string, error) {
	var sb strings.Builder
	err := p.drainStream(ctx, stream, func(chunk string) bool {
		sb.WriteString(chunk)
		return true
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
