// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	localembed "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/llm/openai"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// CreateEmbeddingService creates the embedding service selected by
// configuration. The local provider needs no external endpoint and is
// the fallback for offline use.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")

	switch provider {
	case ProviderOllama, "":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("ollama.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.GetString("openai.api_key"),
			BaseURL:    cfg.GetString("openai.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	case ProviderLocal:
		return localembed.NewEmbeddingService(cfg.GetInt("embedding.dimensions")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// CreateLLMService creates the LLM service selected by configuration.
func CreateLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString("llm.provider")

	switch provider {
	case ProviderOllama, "":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.GetString("ollama.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil

	case ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.GetString("openai.api_key"),
			BaseURL: cfg.GetString("openai.base_url"),
			Model:   cfg.GetString("llm.model"),
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// pinger is the connectivity check shared by the AI adapters.
type pinger interface {
	Ping(ctx context.Context) error
}

// Ping validates connectivity with a bounded timeout.
func Ping(svc pinger) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
