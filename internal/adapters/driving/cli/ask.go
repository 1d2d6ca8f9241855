package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

var (
	askSession string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the course materials",
	Long: `Answers a question using retrieval-augmented generation.

The model decides whether to search course content or fetch a course
outline, then composes an answer citing the sources it used. Pass
--session to keep conversation context across questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "conversation session identifier")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer and sources as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant not configured: set an Anthropic API key with 'coursechat config set anthropic.api_key'")
	}

	sessionID := askSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, sources, err := assistantService.Answer(cmd.Context(), args[0], sessionID)
	if err != nil {
		// The assistant returns a user-facing apology alongside the
		// error. Show the apology, report failure via exit code.
		cmd.Println(answer)
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer, sources)
	}

	cmd.Println(answer)
	if len(sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range sources {
			if src.Link != "" {
				cmd.Printf("  - %s (%s)\n", src.Label, src.Link)
			} else {
				cmd.Printf("  - %s\n", src.Label)
			}
		}
	}
	return nil
}

func outputAskJSON(cmd *cobra.Command, answer string, sources []domain.SourceRef) error {
	payload := struct {
		Answer  string             `json:"answer"`
		Sources []domain.SourceRef `json:"sources"`
	}{Answer: answer, Sources: sources}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
