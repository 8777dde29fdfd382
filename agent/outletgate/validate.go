package outletgate

import (
	"regexp"
	"strings"
)

var destructiveVerbs = []string{"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE", "GRANT"}

var countColumnPattern = regexp.MustCompile(`(?i)^\s*SELECT\s+COUNT\s*\(`)

// cleanSQL strips markdown code fences a language model sometimes wraps its
// answer in, and trims the trailing statement terminator.
func cleanSQL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```sql")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return s
}

// validateSQL enforces the read-only, single-table, non-destructive
// contract: the statement must start with SELECT, touch only the outlets
// table, contain at most one terminating semicolon, and carry none of the
// destructive verbs.
func validateSQL(sql string) bool {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return false
	}
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return false
	}

	body := strings.TrimSuffix(trimmed, ";")
	if strings.Count(body, ";") > 0 {
		return false
	}

	upperBody := strings.ToUpper(body)
	for _, verb := range destructiveVerbs {
		if strings.Contains(upperBody, verb) {
			return false
		}
	}

	if !strings.Contains(upperBody, "FROM OUTLETS") {
		return false
	}
	for _, table := range []string{"JOIN", "UNION", "INTO"} {
		if strings.Contains(upperBody, table) {
			return false
		}
	}
	return true
}

// isCountStatement reports whether sql is shaped as a scalar COUNT query.
func isCountStatement(sql string) bool {
	return countColumnPattern.MatchString(sql)
}

// escapeLiteral doubles single quotes so a search term can be embedded
// inside a SQL string literal without closing it early. This backs the
// fallback cascade's own locally-built queries, never the language model's
// output.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
