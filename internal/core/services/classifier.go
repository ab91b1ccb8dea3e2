package services

import (
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// Classifier decides whether a query is a numeric/aggregation request or
// an open-ended question.
//
// The check is a precision-over-recall heuristic: a query containing any
// aggregation cue routes to the computation engine, which degrades to a
// clarifying response on false positives rather than failing.
type Classifier struct {
	cues []string
}

// NewClassifier creates a classifier with the given cue vocabulary.
// With no cues, domain.AggregationCues is used.
func NewClassifier(cues ...string) *Classifier {
	if len(cues) == 0 {
		cues = domain.AggregationCues
	}
	lowered := make([]string, len(cues))
	for i, cue := range cues {
		lowered[i] = strings.ToLower(cue)
	}
	return &Classifier{cues: lowered}
}

// Classify routes a query by case-insensitive cue matching.
func (c *Classifier) Classify(query string) domain.QueryKind {
	lowered := strings.ToLower(query)
	for _, cue := range c.cues {
		if strings.Contains(lowered, cue) {
			return domain.QueryComputational
		}
	}
	return domain.QueryConversational
}
