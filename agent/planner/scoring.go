package planner

import "github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"

// scoreCalculate implements the calculate_score table from the decision
// scoring contract.
func scoreCalculate(flags domain.EntityFlags, lower string) float64 {
	switch {
	case flags.HasMathExpression:
		return 0.9
	case hasCalculationTriggerWord(lower) && flags.HasNumbers:
		return 0.7
	case flags.HasOperators && flags.HasNumbers:
		return 0.6
	default:
		return 0.0
	}
}

// scoreProducts implements the products_score table.
func scoreProducts(flags domain.EntityFlags, referencesPriorProducts bool) float64 {
	switch {
	case flags.ProductKeywordsHit >= 2, flags.ProductKeywordsHit >= 1 && flags.SortKey != "":
		return 0.8
	case flags.ProductKeywordsHit == 1:
		return 0.6
	case flags.ReferencesPriorTurn && referencesPriorProducts:
		return 0.3
	default:
		return 0.0
	}
}

// scoreOutlets implements the outlets_score table.
func scoreOutlets(flags domain.EntityFlags, referencesPriorOutlets bool) float64 {
	switch {
	case flags.OutletKeywordsHit >= 1 && (flags.LocationMentioned || flags.CountIntent):
		return 0.85
	case flags.OutletKeywordsHit >= 1:
		return 0.65
	case flags.ReferencesPriorTurn && referencesPriorOutlets:
		return 0.3
	default:
		return 0.0
	}
}

// scoreHybrid implements hybrid_score = min(products, outlets) * 0.9 when
// both exceed 0.5, else 0.
func scoreHybrid(productsScore, outletsScore float64) float64 {
	if productsScore > 0.5 && outletsScore > 0.5 {
		min := productsScore
		if outletsScore < min {
			min = outletsScore
		}
		return min * 0.9
	}
	return 0.0
}
