package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage saved conversations",
	Long:  `Commands for listing saved conversations and replaying their history.`,
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE:  runChatList,
}

var chatShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Show a conversation's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatShow,
}

func init() {
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatShowCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	conversations, err := conversationService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(conversations) == 0 {
		cmd.Println("No conversations saved.")
		return nil
	}

	cmd.Println("Conversations:")
	cmd.Println()
	for i := range conversations {
		conv := &conversations[i]
		cmd.Printf("  %s  %s (%s)\n", conv.ID, conv.Title, conv.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

func runChatShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	id := args[0]
	messages, err := conversationService.History(context.Background(), id)
	if err != nil {
		return fmt.Errorf("load conversation %s: %w", id, err)
	}

	if len(messages) == 0 {
		cmd.Println("Conversation is empty.")
		return nil
	}

	for i := range messages {
		msg := &messages[i]
		cmd.Printf("[%s] %s\n", roleLabel(msg.Role), msg.Content)
		if msg.Role == domain.RoleAssistant && len(msg.Meta.Sources) > 0 {
			cmd.Printf("        Sources: %s\n", strings.Join(msg.Meta.Sources, ", "))
		}
		cmd.Println()
	}

	return nil
}

func roleLabel(role domain.MessageRole) string {
	switch role {
	case domain.RoleUser:
		return "you"
	case domain.RoleAssistant:
		return "agrolens"
	default:
		return string(role)
	}
}
