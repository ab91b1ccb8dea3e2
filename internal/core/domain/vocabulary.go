package domain

// Vocabulary is the closed entity table the computation engine extracts
// against. It is configuration data, not code: swap or extend the lists
// without touching the aggregation algorithm. All entries are stored
// lower-cased.
type Vocabulary struct {
	// Categories are the recognised domain entities (crop names).
	Categories []string

	// Regions are the recognised state/province names.
	Regions []string
}

// DefaultVocabulary returns the built-in entity table for the Indian
// agricultural production corpus.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Categories: []string{
			"rice", "wheat", "maize", "sugarcane", "cotton", "jute",
			"barley", "bajra", "jowar", "ragi", "gram", "tur", "arhar",
			"groundnut", "mustard", "soybean", "sunflower", "sesamum",
			"potato", "onion", "tomato", "banana", "mango", "tea",
			"coffee", "rubber", "tobacco", "pulses", "millets",
		},
		Regions: []string{
			"andhra pradesh", "arunachal pradesh", "assam", "bihar",
			"chhattisgarh", "goa", "gujarat", "haryana",
			"himachal pradesh", "jharkhand", "karnataka", "kerala",
			"madhya pradesh", "maharashtra", "manipur", "meghalaya",
			"mizoram", "nagaland", "odisha", "punjab", "rajasthan",
			"sikkim", "tamil nadu", "telangana", "tripura",
			"uttar pradesh", "uttarakhand", "west bengal", "delhi",
			"jammu and kashmir", "ladakh", "puducherry",
		},
	}
}

// AggregationCues is the fixed keyword vocabulary the query classifier
// matches against. A query containing any cue (case-insensitive) is
// routed to the computation engine.
var AggregationCues = []string{
	"sum", "total", "average", "mean", "calculate", "between",
	"combined", "aggregate", "statistics",
}
