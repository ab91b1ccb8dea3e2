package driving

import (
	"context"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// QueryService answers natural-language questions over indexed datasets.
type QueryService interface {
	// Answer routes the request through the query classifier and either
	// the computation engine or retrieval plus the language model.
	//
	// The contract is total: Answer never returns an error. Every
	// failure inside the pipeline degrades to a user-facing explanatory
	// answer with an empty or partial source list.
	Answer(ctx context.Context, req domain.QueryRequest) domain.Answer
}
