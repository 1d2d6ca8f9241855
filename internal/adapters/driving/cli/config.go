package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretKeys are config keys prompted for without echo and shown masked.
var secretKeys = map[string]bool{
	"anthropic.api_key": true,
	"openai.api_key":    true,
	"github.token":      true,
}

// intKeys are config keys stored as integers.
var intKeys = map[string]bool{
	"ingest.chunk_size":               true,
	"ingest.chunk_overlap":            true,
	"chat.max_results":                true,
	"chat.history_window":             true,
	"chat.max_tool_rounds":            true,
	"chat.completion_timeout_seconds": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values stored in the TOML config file.

Common keys:
  ai.provider              embedding provider: openai or ollama
  anthropic.api_key        Anthropic API key for answering questions
  openai.api_key           OpenAI API key for embeddings
  ollama.url               Ollama server URL for local embeddings
  chat.max_results         search result limit (default 5)
  chat.history_window      remembered exchanges per session (default 2)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and saves the config file.

For secret keys (API keys, tokens) the value can be omitted; you will
be prompted for it without terminal echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())

	show := func(key string) {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %s: (not set)\n", key)
			return
		}
		if secretKeys[key] {
			cmd.Printf("  %s: %s\n", key, maskSecret(fmt.Sprintf("%v", val)))
			return
		}
		cmd.Printf("  %s: %v\n", key, val)
	}

	cmd.Println("[AI]")
	show("ai.provider")
	show("anthropic.api_key")
	show("anthropic.model")
	show("openai.api_key")
	show("openai.embedding_model")
	show("ollama.url")
	show("ollama.embedding_model")
	cmd.Println()

	cmd.Println("[Ingest]")
	show("ingest.docs_dir")
	show("ingest.chunk_size")
	show("ingest.chunk_overlap")
	show("github.token")
	cmd.Println()

	cmd.Println("[Chat]")
	show("chat.max_results")
	show("chat.history_window")
	show("chat.max_tool_rounds")
	show("chat.completion_timeout_seconds")

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	if secretKeys[args[0]] {
		cmd.Println(maskSecret(fmt.Sprintf("%v", val)))
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else {
		if !secretKeys[key] {
			return errors.New("value required for non-secret keys")
		}
		cmd.Printf("Enter value for %s: ", key)
		raw = readPassword()
		cmd.Println()
	}

	var value any = raw
	if intKeys[key] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("key %q requires an integer value", key)
		}
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
