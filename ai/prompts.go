package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

const sqlSystemPrompt = `You are an AI data analyst that generates STRICT, EXECUTABLE PostgreSQL SQL.

Database: PostgreSQL (Supabase)
Table name: sales_transactions

====================
SCHEMA (THIS IS FINAL)
====================

Available columns ONLY (do not invent anything):

master_distributor, distributor,
line_of_business, supplier, agency,
category, segment, brand, sub_brand,
country, city, area,
retailer_group, retailer_sub_group,
channel, sub_channel,
salesman,
order_number, customer,
customer_account_name, customer_account_number,
item, item_description,
promo_item, foc_nonfoc,
unit_selling_price,
invoice_number, invoice_date,
year (INTEGER),
month (INTEGER),
invoiced_quantity (INTEGER),
value (NUMERIC)

====================
CRITICAL RULES (MANDATORY)
====================

1. Use ONLY the columns listed above.
2. The ONLY time columns are:
   - year (INTEGER)
   - month (INTEGER)
3. NEVER invent or use columns such as:
   year_period, month_year, period, date_key, yearmonth, ym
4. If grouping by time:
   - Yearly -> GROUP BY year
   - Monthly -> GROUP BY year, month
5. If filtering by time:
   - Example: WHERE year = 2024 AND month = 12
6. Use SUM(value) for total sales or revenue.
7. Active stores = COUNT(DISTINCT customer_account_number).
8. Generate ONLY read-only SQL:
   - Allowed: SELECT, WITH
   - Forbidden: DELETE, UPDATE, INSERT, DROP, ALTER, TRUNCATE, CREATE
9. DO NOT include semicolons (;) at the end of the SQL.
10. Do NOT use aliases or columns that are not explicitly defined above.
11. The SQL MUST be executable directly in Supabase PostgreSQL.
12. If the user asks for something that cannot be answered using this schema,
    return the BEST POSSIBLE query using available columns - do NOT invent columns.

====================
OUTPUT FORMAT
====================

- Return ONLY the SQL query`

const documentAnalysisPrompt = `You are a document comparison expert specializing in analyzing Purchase Orders (PO) and Proforma Invoices (PI).

Your task is to:
1. Compare quantities, prices, and values between PO and PI
2. Identify discrepancies and mismatches
3. Calculate total differences
4. Provide alerts and suggestions for any issues found

Always provide structured, clear analysis with specific details about what differs and by how much.`

// BuildSQLPrompt constructs the SQL generation prompt from the fixed
// schema rules, the stored reference documents, and the question.
func BuildSQLPrompt(question string, refDocs []models.ReferenceDoc) string {
	var b strings.Builder
	b.WriteString(sqlSystemPrompt)
	b.WriteString("\n\n")

	for _, doc := range refDocs {
		b.WriteString(fmt.Sprintf("--- Reference: %s ---\n", doc.Name))
		b.WriteString(doc.Content)
		b.WriteString("\n\n")
	}

	b.WriteString("User Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nReturn ONLY valid SQL.")
	return b.String()
}

// BuildAnswerPrompt constructs the explanation prompt. Only the first
// 10 rows go into the prompt to stay clear of token limits; the model
// is told how many rows exist in total.
func BuildAnswerPrompt(question, query string, rows []models.Row) string {
	preview := rows
	if len(rows) > 10 {
		preview = rows[:10]
	}
	summary := fmt.Sprintf("%d results", len(rows))
	if len(rows) > 10 {
		summary = fmt.Sprintf("Showing %d of %d results", len(preview), len(rows))
	}

	var b strings.Builder
	b.WriteString("User Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nSQL Query:\n")
	b.WriteString(query)
	b.WriteString(fmt.Sprintf("\n\nSQL Result (%s):\n", summary))
	b.WriteString(renderRows(preview))
	b.WriteString("\n\nExplain the result in simple business language. If there are many results, summarize the key findings. If there are no results, explain that no data came back for this query.")
	return b.String()
}

// BuildChartPrompt constructs the chart image generation prompt from
// the question, the query, and up to 20 result rows.
func BuildChartPrompt(question, query string, rows []models.Row) string {
	preview := rows
	if len(rows) > 20 {
		preview = rows[:20]
	}

	var b strings.Builder
	b.WriteString("Create a professional, business-ready chart/visualization for the following data analysis:\n\n")
	b.WriteString("User Question: ")
	b.WriteString(question)
	b.WriteString("\n\nSQL Query Used: ")
	b.WriteString(query)
	b.WriteString("\n\nData Results (first 20 rows):\n")
	b.WriteString(renderRows(preview))
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Create a clear, professional chart that best represents this data\n")
	b.WriteString("- Use appropriate chart type (bar, line, pie, etc.) based on the data\n")
	b.WriteString("- Include proper labels, title, and legend\n")
	b.WriteString("- Use a clean, modern design with good color scheme\n")
	b.WriteString("- Make it suitable for a business presentation\n")
	b.WriteString("- Include data values on the chart where appropriate")
	return b.String()
}

// BuildDocumentComparisonPrompt constructs the PO/PI comparison
// prompt.
func BuildDocumentComparisonPrompt(question, purchaseOrder, proformaInvoice string) string {
	var b strings.Builder
	b.WriteString(documentAnalysisPrompt)
	b.WriteString("\n\nHere are the two documents to analyze:\n\nPURCHASE ORDER:\n")
	b.WriteString(purchaseOrder)
	b.WriteString("\n\nPROFORMA INVOICE:\n")
	b.WriteString(proformaInvoice)
	b.WriteString("\n\nUser Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nPlease analyze these documents and provide:\n")
	b.WriteString("1. Item-by-item comparison (SKU, description, quantities, prices)\n")
	b.WriteString("2. Highlight any mismatches in quantity or price\n")
	b.WriteString("3. Calculate value differences\n")
	b.WriteString("4. Summary of total order value vs invoice value\n")
	b.WriteString("5. Alerts for significant discrepancies\n")
	b.WriteString("6. Suggestions for resolving issues\n\n")
	b.WriteString("Format your response in a clear, structured way with tables where appropriate.")
	return b.String()
}

func renderRows(rows []models.Row) string {
	if len(rows) == 0 {
		return "[]"
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Sprintf("%v", rows)
	}
	return string(data)
}
