// Package validation holds the query safety gate that sits between the
// AI SQL generation step and execution. The system only ever runs
// read-only retrieval, so anything that mutates data, schema, or
// privileges is rejected before it can reach the database.
package validation

import (
	"fmt"
	"regexp"
)

// Mutating operations rejected outright. Matched on whole-word
// boundaries so that column names like last_update_date or words like
// "updates" do not trigger a false positive.
var dangerousKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "TRUNCATE", "GRANT", "REVOKE",
}

var dangerousPatterns = compileKeywordPatterns(dangerousKeywords)

// CREATE is handled separately: only schema-creation of these objects
// is forbidden. A bare CREATE word check would also hit legitimate
// keywords sharing the prefix (the generator is told it may use
// CURRENT_DATE / CURRENT_TIMESTAMP freely).
var createObjectPattern = regexp.MustCompile(`(?i)\bCREATE\s+(TABLE|DATABASE|FUNCTION|INDEX|VIEW)\b`)

func compileKeywordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return patterns
}

// ValidateQuery accepts or rejects a generated SQL query. It is a pure
// check with no side effects; a nil return means the query may be sent
// to the execution backend.
func ValidateQuery(query string) error {
	for i, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return fmt.Errorf("SQL operation '%s' is not allowed for security reasons", dangerousKeywords[i])
		}
	}
	if createObjectPattern.MatchString(query) {
		return fmt.Errorf("CREATE operations are not allowed for security reasons")
	}
	return nil
}
