package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and change configuration values.

Keys use dot notation, e.g. embedding.provider or chunker.size. Values
are persisted to ~/.agrolens/config.toml and can be overridden per
invocation with AGROLENS_* environment variables.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// shownKeys is the fixed display order for config show.
var shownKeys = []string{
	"embedding.provider",
	"embedding.model",
	"embedding.dimensions",
	"llm.provider",
	"llm.model",
	"ollama.base_url",
	"openai.api_key",
	"chunker.size",
	"chunker.overlap",
	"query.top_k",
	"storage.driver",
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Configuration:")
	cmd.Println()
	for _, key := range shownKeys {
		value, ok := configStore.Get(key)
		if !ok {
			continue
		}

		display := fmt.Sprintf("%v", value)
		if display == "" {
			display = "(not set)"
		} else if strings.HasSuffix(key, "api_key") {
			display = maskAPIKey(display)
		}
		cmd.Printf("  %-22s %s\n", key, display)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

// coerceValue stores integers and booleans typed so GetInt and GetBool
// see them without string coercion.
func coerceValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
