package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_Short(t *testing.T) {
	assert.Equal(t, "Ask a question over the indexed datasets", askCmd.Short)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"model", "language", "conversation", "save", "json"} {
		assert.NotNil(t, askCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestAskCmd_ErrorsWithoutService(t *testing.T) {
	oldService := queryService
	queryService = nil
	defer func() {
		queryService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "what is rice"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is the rice production in punjab"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Rice production in Punjab was 100 tonnes.")
	assert.Contains(t, buf.String(), "Sources: crop_production")
}

func TestAskCmd_PassesModelAndLanguage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--model", "llama3.2", "--language", "Hindi", "what grows in kerala"})
	defer func() {
		rootCmd.SetArgs(nil)
		askModel = ""
		askLanguage = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	mock := queryService.(*mockQueryService)
	require.Len(t, mock.requests, 1)
	assert.Equal(t, "what grows in kerala", mock.requests[0].Message)
	assert.Equal(t, "llama3.2", mock.requests[0].Model)
	assert.Equal(t, "Hindi", mock.requests[0].Language)
}

func TestAskCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "what is the rice production in punjab"})
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	var payload struct {
		Answer        string   `json:"answer"`
		Sources       []string `json:"sources"`
		IsComputation bool     `json:"is_computation"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "Rice production in Punjab was 100 tonnes.", payload.Answer)
	assert.Equal(t, []string{"crop_production"}, payload.Sources)
}

func TestAskCmd_SaveStartsConversationAndRecordsExchange(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--save", "total rice production"})
	defer func() {
		rootCmd.SetArgs(nil)
		askSave = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Conversation: conv-1")

	mock := conversationService.(*mockConversationService)
	require.Len(t, mock.conversations, 1)
	assert.Equal(t, "total rice production", mock.conversations[0].Title)

	messages := mock.messages["conv-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, "total rice production", messages[0].Content)
	assert.Equal(t, "Rice production in Punjab was 100 tonnes.", messages[1].Content)
	assert.Equal(t, []string{"crop_production"}, messages[1].Meta.Sources)
}

func TestAskCmd_ThreadsIntoExistingConversation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--conversation", "conv-42", "what grows in kerala"})
	defer func() {
		rootCmd.SetArgs(nil)
		askConversation = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	mock := queryService.(*mockQueryService)
	require.Len(t, mock.requests, 1)
	assert.Equal(t, "conv-42", mock.requests[0].ConversationID)

	convMock := conversationService.(*mockConversationService)
	assert.Len(t, convMock.messages["conv-42"], 2)
}
