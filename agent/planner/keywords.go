package planner

// Closed keyword sets the entity extractor scans for. Each list is
// deliberately small and hand-picked rather than learned, matching the
// planner's purity requirement: no model call, no external vocabulary.
var (
	productKeywords = []string{
		"tumbler", "bottle", "mug", "cup", "cold cup", "drinkware", "straw", "lid", "capacity", "ml", "oz", "price", "color",
	}

	outletKeywords = []string{
		"outlet", "store", "branch", "location", "near", "address", "open", "hours", "map", "city", "state", "postal",
	}

	calculationTriggerWords = []string{
		"plus", "minus", "times", "multiplied by", "divided by", "calculate", "compute", "what is", "equals",
	}

	countIntentWords = []string{"how many", "count", "number of"}

	referencePronouns = []string{"it", "that", "those", "them", "there"}

	// knownLocations backs location_mentioned. A real deployment loads this
	// from config (per §4.5); kept as a fixed list here since the core has
	// no location-reference-data component of its own.
	knownLocations = []string{
		"kuala lumpur", "selangor", "shah alam", "petaling jaya", "subang jaya", "subang",
		"klang", "puchong", "cheras", "ampang", "cyberjaya", "putrajaya", "penang", "johor",
	}
)
