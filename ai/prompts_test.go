package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

func TestBuildSQLPrompt(t *testing.T) {
	refDocs := []models.ReferenceDoc{
		{Name: "schema.md", Content: "value is NUMERIC"},
	}
	prompt := BuildSQLPrompt("What were total sales in 2024?", refDocs)

	assert.Contains(t, prompt, "sales_transactions")
	assert.Contains(t, prompt, "--- Reference: schema.md ---")
	assert.Contains(t, prompt, "value is NUMERIC")
	assert.Contains(t, prompt, "What were total sales in 2024?")
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY valid SQL."))
}

func TestBuildAnswerPromptSmallResult(t *testing.T) {
	rows := []models.Row{{"sum": 1000}}
	prompt := BuildAnswerPrompt("total sales?", "SELECT SUM(value) FROM sales_transactions", rows)

	assert.Contains(t, prompt, "total sales?")
	assert.Contains(t, prompt, "SELECT SUM(value) FROM sales_transactions")
	assert.Contains(t, prompt, "1 results")
	assert.Contains(t, prompt, `"sum":1000`)
}

func TestBuildAnswerPromptTruncatesPreview(t *testing.T) {
	rows := make([]models.Row, 25)
	for i := range rows {
		rows[i] = models.Row{"n": i}
	}
	prompt := BuildAnswerPrompt("list everything", "SELECT n FROM t", rows)

	assert.Contains(t, prompt, "Showing 10 of 25 results")
	assert.Contains(t, prompt, `{"n":9}`)
	assert.NotContains(t, prompt, `{"n":10}`)
}

func TestBuildAnswerPromptEmptyResult(t *testing.T) {
	prompt := BuildAnswerPrompt("anything?", "SELECT 1", nil)
	assert.Contains(t, prompt, "0 results")
	assert.Contains(t, prompt, "[]")
}

func TestBuildChartPromptTruncatesPreview(t *testing.T) {
	rows := make([]models.Row, 30)
	for i := range rows {
		rows[i] = models.Row{"n": i}
	}
	prompt := BuildChartPrompt("chart it", "SELECT n FROM t", rows)

	assert.Contains(t, prompt, "first 20 rows")
	assert.Contains(t, prompt, `{"n":19}`)
	assert.NotContains(t, prompt, fmt.Sprintf(`{"n":%d}`, 20))
}

func TestBuildDocumentComparisonPrompt(t *testing.T) {
	prompt := BuildDocumentComparisonPrompt("do they match?", "PO BODY", "PI BODY")

	assert.Contains(t, prompt, "PURCHASE ORDER:\nPO BODY")
	assert.Contains(t, prompt, "PROFORMA INVOICE:\nPI BODY")
	assert.Contains(t, prompt, "do they match?")
	assert.Contains(t, prompt, "Item-by-item comparison")
}
