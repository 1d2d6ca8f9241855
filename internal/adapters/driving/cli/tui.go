package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursechat/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal chat interface.

Each question runs the full retrieval loop and answers are shown with
their source citations. Conversation context carries across questions
within the session.

Controls:
  Enter    - Ask
  ↑/↓      - Scroll transcript
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant not configured: set an Anthropic API key with 'coursechat config set anthropic.api_key'")
	}
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	// Panic recovery to get stack traces out of the alternate screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	titles, err := catalogService.Titles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	model := tui.New(assistantService, titles)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
