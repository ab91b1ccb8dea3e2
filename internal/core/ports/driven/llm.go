package driven

import "context"

// LLMService provides language model text generation for answer
// synthesis.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4 class models)
//
// Failures are either transient network errors or model-unavailable
// errors; the query pipeline converts both into a graceful fallback
// answer and never lets them crash a request.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Model overrides the service's default model for this call.
	Model string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
