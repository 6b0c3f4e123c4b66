package pipeline

import "strings"

// StripFences removes markdown code fence markers from a fragment of
// generated SQL. It is applied to each streamed chunk independently
// (chunk boundaries are not guaranteed to align with fence markers, so
// a marker split across two chunks survives both passes; that matches
// the accepted behavior of finalization below) and again to the
// accumulated text, which makes the two passes idempotent.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	return strings.ReplaceAll(s, "```", "")
}

// FinalizeQuery turns the accumulated generator output into the query
// string handed to validation and execution: fences removed,
// whitespace trimmed, and a single trailing semicolon dropped.
// Finalizing an already-clean query returns it unchanged.
func FinalizeQuery(raw string) string {
	query := strings.TrimSpace(StripFences(strings.TrimSpace(raw)))
	query = strings.TrimSuffix(query, ";")
	return strings.TrimSpace(query)
}
