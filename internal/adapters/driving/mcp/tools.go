package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed datasets"`
	Model    string `json:"model,omitempty" jsonschema:"language model override for answer generation"`
	Language string `json:"language,omitempty" jsonschema:"language the answer should be written in (default english)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	IsComputation bool     `json:"is_computation"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed agricultural datasets and documents",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer := s.ports.Query.Answer(ctx, domain.QueryRequest{
		Message:  input.Question,
		Model:    input.Model,
		Language: input.Language,
	})

	return nil, AskOutput{
		Answer:        answer.Text,
		Sources:       answer.Sources,
		IsComputation: answer.IsComputation,
	}, nil
}
