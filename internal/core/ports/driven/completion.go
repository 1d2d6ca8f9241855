package driven

import "context"

// Message roles used in completion requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons reported by a completion.
const (
	// StopEndTurn means the model produced a terminal text answer.
	StopEndTurn = "end_turn"

	// StopToolUse means the model requested one or more tool calls.
	StopToolUse = "tool_use"
)

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	// Name is the unique tool name, e.g. "search_course_content".
	Name string

	// Description tells the model when to use the tool.
	Description string

	// InputSchema is a JSON Schema object describing the arguments.
	InputSchema map[string]any
}

// ToolCall is a structured tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned call identifier, echoed back in the
	// matching ToolResult.
	ID string

	// Name is the requested tool name.
	Name string

	// Arguments are the decoded call arguments.
	Arguments map[string]any
}

// ToolResult carries one tool execution outcome back to the model.
type ToolResult struct {
	// CallID matches the ToolCall.ID this result answers.
	CallID string

	// Content is the tool's text output (or readable error text).
	Content string

	// IsError marks results that describe a failed execution.
	IsError bool
}

// ChatMessage is one turn in a completion request.
// Exactly one of the content fields is normally populated: Text for plain
// turns, ToolCalls for an assistant turn that requested tools, ToolResults
// for the user turn that answers them.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string

	// Text is the plain message text.
	Text string

	// ToolCalls are the calls an assistant turn requested.
	ToolCalls []ToolCall

	// ToolResults are the execution results being returned to the model.
	ToolResults []ToolResult
}

// CompletionRequest is a single call to the completion service.
type CompletionRequest struct {
	// System is the system instruction text.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []ChatMessage

	// Tools is the tool schema list. Empty means the model cannot
	// request tool calls and must answer in text.
	Tools []ToolDefinition

	// MaxTokens bounds the response length. Zero uses the adapter default.
	MaxTokens int
}

// Completion is the completion service response.
type Completion struct {
	// Text is the concatenated text content of the response.
	Text string

	// ToolCalls are the tool invocations the model requested, in
	// request order. Empty for terminal responses.
	ToolCalls []ToolCall

	// StopReason is why generation stopped (StopEndTurn, StopToolUse).
	StopReason string
}

// CompletionService is a black-box language model with a tool-calling
// protocol. A response either carries terminal text or requests one or
// more tool calls; the assistant loop must handle both shapes.
//
// Implementations may include:
//   - Anthropic (Claude)
type CompletionService interface {
	// Complete sends one request and returns the model's response.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
