package outletgate

import (
	"fmt"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

const maxFormattedRows = 5

// formatCount renders a count-intent answer. It reads the WHERE clause of
// the executed statement to decide how specific the city phrasing can be,
// matching the original count phrasing's city-name cases before falling
// back to a generic "matching your criteria" phrase.
func formatCount(count int, sql string) string {
	lower := strings.ToLower(sql)
	if !strings.Contains(lower, "where") {
		return fmt.Sprintf("There are %d outlets in total.", count)
	}
	switch {
	case strings.Contains(lower, "selangor"):
		return fmt.Sprintf("There are %d outlets in Selangor.", count)
	case strings.Contains(lower, "kuala lumpur") || strings.Contains(lower, "'kl'") || strings.Contains(lower, "%kl%"):
		return fmt.Sprintf("There are %d outlets in Kuala Lumpur.", count)
	case containsAny(lower, "shah alam", "petaling jaya", "subang", "klang"):
		return fmt.Sprintf("There are %d outlets matching your location.", count)
	default:
		return fmt.Sprintf("There are %d outlets matching your criteria.", count)
	}
}

// formatRows renders a row list. isMapsRequest adds a map line under each
// outlet when the question or SQL surfaced maps_url explicitly. Rows beyond
// maxFormattedRows are summarized rather than dropped silently.
func formatRows(rows []domain.Outlet, totalBeforeCap, rowCap int, mapsRequested bool) string {
	if len(rows) == 0 {
		return "No outlets found matching your criteria."
	}

	shown := rows
	truncated := len(rows) > maxFormattedRows
	if truncated {
		shown = rows[:maxFormattedRows]
	}

	var b strings.Builder
	for _, o := range shown {
		fmt.Fprintf(&b, "• %s - %s (%s, %s)", orNA(o.Name), orNA(o.Address), orNA(o.City), orNA(o.State))
		if mapsRequested {
			mapsURL := o.MapsURL
			if mapsURL == "" {
				mapsURL = "Not available"
			}
			fmt.Fprintf(&b, "\n  \U0001F4CD Map: %s", mapsURL)
		}
		b.WriteString("\n")
	}
	text := strings.TrimRight(b.String(), "\n")

	if totalBeforeCap > rowCap {
		return fmt.Sprintf(
			"Found %d outlets total. Here are the first %d:\n\n%s\n\nFor more specific results, please provide additional details like city, area, or mall name.",
			totalBeforeCap, len(shown), text,
		)
	}
	if truncated {
		return fmt.Sprintf("%s\n\n(%d more outlet(s) matched; refine your question to narrow the list.)", text, len(rows)-maxFormattedRows)
	}
	return text
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// isMapsRequest reports whether either the question or the generated SQL
// signals the caller wants the Google Maps link surfaced explicitly.
func isMapsRequest(question, sql string) bool {
	lowerSQL := strings.ToLower(sql)
	lowerQ := strings.ToLower(question)
	return strings.Contains(lowerSQL, "maps_url") ||
		strings.Contains(lowerQ, "map") ||
		strings.Contains(lowerQ, "google") ||
		strings.Contains(lowerQ, "location link")
}
