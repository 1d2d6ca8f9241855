package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// DefaultMaxToolRounds caps tool-executing round trips per query.
const DefaultMaxToolRounds = 2

// DefaultAnswerTokens bounds the final answer length.
const DefaultAnswerTokens = 1500

// apologyAnswer is the fixed degraded answer for completion failures.
const apologyAnswer = "Sorry, I couldn't process that question right now. Please try again."

// systemPrompt instructs the model on when to search, when to fetch an
// outline, and how to answer. Kept static so it is not rebuilt per call.
const systemPrompt = `You are an AI assistant specialised in course materials and educational content, with access to tools for course information.

Available tools:
1. search_course_content - search within course content for specific topics or detailed information
2. get_course_outline - get a course's complete structure: title, link, and all lessons with numbers and titles

Tool usage:
- For outline or structure questions, always use get_course_outline.
- For content-specific questions, always use search_course_content.
- When in doubt about a course-related question, use tools before relying on general knowledge.
- You may use tools across multiple rounds: search once, analyse the results, then search again if needed.
- If a tool yields no results, state this clearly without offering alternatives.

Answers must be brief, accurate and directly address what was asked. Do not mention the tools or the search process in your answer. For general-knowledge questions unrelated to the courses, answer directly without tools.`

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// AssistantService drives the bounded multi-round conversation between
// the completion service and the tool registry, tracking provenance for
// the final answer.
type AssistantService struct {
	completion driven.CompletionService
	registry   *ToolRegistry
	memory     *ConversationMemory

	maxToolRounds     int
	maxTokens         int
	completionTimeout time.Duration
}

// AssistantOption configures the assistant.
type AssistantOption func(*AssistantService)

// WithMaxToolRounds sets the tool round cap. The cap is inclusive: a cap
// of 2 permits two tool-executing round trips before the forced final
// call, i.e. at most three completion calls per query.
func WithMaxToolRounds(n int) AssistantOption {
	return func(s *AssistantService) {
		if n >= 0 {
			s.maxToolRounds = n
		}
	}
}

// WithAnswerTokens sets the per-call response token budget.
func WithAnswerTokens(n int) AssistantOption {
	return func(s *AssistantService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithCompletionTimeout bounds each individual completion call.
func WithCompletionTimeout(d time.Duration) AssistantOption {
	return func(s *AssistantService) {
		if d > 0 {
			s.completionTimeout = d
		}
	}
}

// NewAssistantService creates the assistant. The registry may be nil, in
// which case the model is never offered tools; a nil memory disables
// conversation history.
func NewAssistantService(
	completion driven.CompletionService,
	registry *ToolRegistry,
	memory *ConversationMemory,
	opts ...AssistantOption,
) *AssistantService {
	s := &AssistantService{
		completion:        completion,
		registry:          registry,
		memory:            memory,
		maxToolRounds:     DefaultMaxToolRounds,
		maxTokens:         DefaultAnswerTokens,
		completionTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer runs one query through the tool-calling loop.
//
// The loop offers tools only while rounds-used is below the cap; once the
// cap is reached the final call goes out without tools and its response
// is terminal, with no dispatch even if it still carries tool calls.
// Tool execution failures are embedded in-band as readable
// tool results; only a completion-service failure terminates the query,
// with the fixed apology text and empty provenance.
func (s *AssistantService) Answer(ctx context.Context, query, sessionID string) (string, []domain.SourceRef, error) {
	if s.completion == nil {
		return apologyAnswer, []domain.SourceRef{}, domain.ErrCompletionUnavailable
	}

	logger.Section("Assistant Query")
	logger.Debug("Session %s: %q", sessionID, query)

	system := systemPrompt
	if s.memory != nil {
		if history := s.memory.History(sessionID); history != "" {
			system += "\n\nPrevious conversation:\n" + history
		}
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleUser, Text: query},
	}

	sources := []domain.SourceRef{}
	rounds := 0
	var answer string

	for {
		withTools := s.registry != nil && rounds < s.maxToolRounds

		completion, err := s.complete(ctx, system, messages, withTools)
		if err != nil {
			logger.Warn("Completion call failed: %v", err)
			return apologyAnswer, []domain.SourceRef{}, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
		}

		if len(completion.ToolCalls) == 0 {
			answer = completion.Text
			break
		}

		if s.registry == nil {
			// The model asked for a tool we cannot dispatch. Fatal for
			// this query; no partial completion.
			return "Tool use was requested but no tools are available.",
				[]domain.SourceRef{}, domain.ErrNoToolRegistry
		}

		if !withTools {
			// The post-cap call is terminal. Whatever the service still
			// requested, its text is the answer.
			answer = completion.Text
			break
		}

		logger.Debug("Round %d: %d tool call(s)", rounds+1, len(completion.ToolCalls))

		messages = append(messages, driven.ChatMessage{
			Role:      driven.RoleAssistant,
			Text:      completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		results := make([]driven.ToolResult, 0, len(completion.ToolCalls))
		for _, call := range completion.ToolCalls {
			text, callSources, derr := s.registry.Dispatch(ctx, call.Name, call.Arguments)
			if derr != nil {
				// Execution failures are data for the model, not
				// control flow for the loop.
				results = append(results, driven.ToolResult{
					CallID:  call.ID,
					Content: fmt.Sprintf("Error executing tool: %v", derr),
					IsError: true,
				})
				continue
			}
			sources = append(sources, callSources...)
			results = append(results, driven.ToolResult{CallID: call.ID, Content: text})
		}

		messages = append(messages, driven.ChatMessage{
			Role:        driven.RoleUser,
			ToolResults: results,
		})
		rounds++
	}

	if s.memory != nil {
		s.memory.Append(sessionID, query, answer)
	}

	logger.Info("Answered in %d tool round(s), %d source(s)", rounds, len(sources))
	return answer, sources, nil
}

// complete makes one completion call under the per-call timeout.
func (s *AssistantService) complete(
	ctx context.Context, system string, messages []driven.ChatMessage, withTools bool,
) (*driven.Completion, error) {
	var tools []driven.ToolDefinition
	if withTools {
		tools = s.registry.Definitions()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	return s.completion.Complete(callCtx, driven.CompletionRequest{
		System:    system,
		Messages:  messages,
		Tools:     tools,
		MaxTokens: s.maxTokens,
	})
}
