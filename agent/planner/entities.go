package planner

import (
	"regexp"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/productindex"
)

var (
	numberPattern      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	operatorPattern    = regexp.MustCompile(`(?:^|\s)(\*\*|[+\-*/%])(?:\s|$)`)
	mathExprPattern    = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:\*\*|[+\-*/%])\s*\d+(?:\.\d+)?`)
	postalCodePattern  = regexp.MustCompile(`\b\d{5}\b`)
	wordBoundaryFields = regexp.MustCompile(`[a-z0-9]+`)
)

// extractEntities runs the closed-set scans the scoring step reads from. It
// performs no I/O and is a pure function of its single string argument.
func extractEntities(question string) domain.EntityFlags {
	lower := strings.ToLower(question)

	flags := domain.EntityFlags{
		HasNumbers:        numberPattern.MatchString(lower),
		HasOperators:      operatorPattern.MatchString(padOperatorScan(lower)),
		HasMathExpression: mathExprPattern.MatchString(lower),
		CountIntent:       containsAny(lower, countIntentWords...),
		SortKey:           productindex.DetectSortKey(lower),
	}

	flags.ProductKeywordsHit = countDistinctHits(lower, productKeywords)
	flags.OutletKeywordsHit = countDistinctHits(lower, outletKeywords)
	flags.LocationMentioned = containsAny(lower, knownLocations...) || postalCodePattern.MatchString(lower)

	hasPronoun := containsStandaloneAny(lower, referencePronouns...)
	flags.ReferencesPriorTurn = hasPronoun && flags.ProductKeywordsHit == 0 && flags.OutletKeywordsHit == 0

	return flags
}

// padOperatorScan pads the string with surrounding spaces so a leading or
// trailing operator token still matches the standalone-token pattern.
func padOperatorScan(s string) string {
	return " " + s + " "
}

func hasCalculationTriggerWord(lower string) bool {
	return containsAny(lower, calculationTriggerWords...)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// containsStandaloneAny reports whether any needle appears as a whole word,
// not as a substring of a longer word (so "there" in "therefore" doesn't
// count, but "it" in "is it open" does).
func containsStandaloneAny(s string, needles ...string) bool {
	words := wordBoundaryFields.FindAllString(s, -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

// countDistinctHits counts how many distinct keywords from the set appear
// anywhere in s, per the "≥2 product keywords" scoring rule.
func countDistinctHits(s string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			hits++
		}
	}
	return hits
}
