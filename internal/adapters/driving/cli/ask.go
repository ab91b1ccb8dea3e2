package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

var (
	askModel        string
	askLanguage     string
	askConversation string
	askSave         bool
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the indexed datasets",
	Long: `Answers a natural-language question using the indexed datasets.
Aggregation questions (totals, averages) are computed directly from the
structured data; open questions go through retrieval and the configured
language model.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "language model to answer with")
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "", "language to answer in")
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation ID to append the exchange to")
	askCmd.Flags().BoolVar(&askSave, "save", false, "start a new conversation from this question")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()

	conversationID := askConversation
	if askSave && conversationID == "" {
		conv, err := startConversation(ctx, question)
		if err != nil {
			return err
		}
		conversationID = conv.ID
		cmd.Printf("Conversation: %s\n", conversationID)
	}

	answer := queryService.Answer(ctx, domain.QueryRequest{
		Message:        question,
		ConversationID: conversationID,
		Model:          askModel,
		Language:       askLanguage,
	})

	if conversationID != "" {
		recordExchange(ctx, conversationID, question, answer)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	outputAnswerText(cmd, answer)
	return nil
}

func startConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	if conversationService == nil {
		return nil, errors.New("conversation service not configured")
	}

	conv, err := conversationService.Start(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	return conv, nil
}

// recordExchange appends the question and answer to the conversation.
// Recording is best effort; the answer is already on screen.
func recordExchange(ctx context.Context, conversationID, question string, answer domain.Answer) {
	if conversationService == nil {
		return
	}

	if _, err := conversationService.Append(ctx, conversationID, domain.RoleUser, question, domain.MessageMeta{}); err != nil {
		logger.Warn("Recording question: %v", err)
		return
	}

	meta := domain.MessageMeta{
		Sources:       answer.Sources,
		IsComputation: answer.IsComputation,
		Model:         askModel,
	}
	if _, err := conversationService.Append(ctx, conversationID, domain.RoleAssistant, answer.Text, meta); err != nil {
		logger.Warn("Recording answer: %v", err)
	}
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	payload := struct {
		Answer        string   `json:"answer"`
		Sources       []string `json:"sources"`
		IsComputation bool     `json:"is_computation"`
	}{answer.Text, answer.Sources, answer.IsComputation}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: ")
		for i, source := range answer.Sources {
			if i > 0 {
				cmd.Printf(", ")
			}
			cmd.Printf("%s", source)
		}
		cmd.Println()
	}
}
