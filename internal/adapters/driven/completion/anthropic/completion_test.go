package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *CompletionService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewCompletionService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewCompletionService_RequiresAPIKey(t *testing.T) {
	_, err := NewCompletionService(Config{})
	assert.Error(t, err)
}

func TestNewCompletionService_Defaults(t *testing.T) {
	svc, err := NewCompletionService(Config{APIKey: "test-key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestComplete_TextResponse(t *testing.T) {
	var captured map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "Hello there."}},
			"stop_reason": "end_turn",
		})
	})

	completion, err := svc.Complete(context.Background(), driven.CompletionRequest{
		System:   "You are helpful.",
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Text: "Hi"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there.", completion.Text)
	assert.Empty(t, completion.ToolCalls)
	assert.Equal(t, driven.StopEndTurn, completion.StopReason)

	assert.Equal(t, "You are helpful.", captured["system"])
	assert.Nil(t, captured["tools"], "tool-less requests must not send a tools field")
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "Hi", first["content"], "plain messages use string content")
}

func TestComplete_ToolUseResponse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Let me look that up."},
				{
					"type":  "tool_use",
					"id":    "toolu_1",
					"name":  "search_course_content",
					"input": map[string]any{"query": "embeddings", "lesson_number": 3},
				},
			},
			"stop_reason": "tool_use",
		})
	})

	completion, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Text: "What are embeddings?"}},
		Tools: []driven.ToolDefinition{{
			Name:        "search_course_content",
			Description: "Search course content",
			InputSchema: map[string]any{"type": "object"},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Let me look that up.", completion.Text)
	assert.Equal(t, driven.StopToolUse, completion.StopReason)
	require.Len(t, completion.ToolCalls, 1)
	call := completion.ToolCalls[0]
	assert.Equal(t, "toolu_1", call.ID)
	assert.Equal(t, "search_course_content", call.Name)
	assert.Equal(t, "embeddings", call.Arguments["query"])
	assert.Equal(t, float64(3), call.Arguments["lesson_number"])
}

func TestComplete_SendsToolsWithAutoChoice(t *testing.T) {
	var captured map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "ok"}},
			"stop_reason": "end_turn",
		})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Text: "Hi"}},
		Tools: []driven.ToolDefinition{{
			Name:        "get_course_outline",
			Description: "Get a course outline",
			InputSchema: map[string]any{"type": "object"},
		}},
	})

	require.NoError(t, err)
	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "get_course_outline", tools[0].(map[string]any)["name"])
	choice := captured["tool_choice"].(map[string]any)
	assert.Equal(t, "auto", choice["type"])
}

func TestComplete_EncodesToolRoundTrip(t *testing.T) {
	var captured map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "done"}},
			"stop_reason": "end_turn",
		})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{
			{Role: driven.RoleUser, Text: "question"},
			{
				Role:      driven.RoleAssistant,
				ToolCalls: []driven.ToolCall{{ID: "toolu_1", Name: "search_course_content", Arguments: nil}},
			},
			{
				Role:        driven.RoleUser,
				ToolResults: []driven.ToolResult{{CallID: "toolu_1", Content: "found it", IsError: false}},
			},
		},
	})

	require.NoError(t, err)
	messages := captured["messages"].([]any)
	require.Len(t, messages, 3)

	assistant := messages[1].(map[string]any)
	blocks := assistant["content"].([]any)
	require.Len(t, blocks, 1)
	use := blocks[0].(map[string]any)
	assert.Equal(t, "tool_use", use["type"])
	assert.Equal(t, "toolu_1", use["id"])
	assert.Equal(t, map[string]any{}, use["input"], "nil arguments encode as an empty object")

	user := messages[2].(map[string]any)
	blocks = user["content"].([]any)
	require.Len(t, blocks, 1)
	result := blocks[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "toolu_1", result["tool_use_id"])
	assert.Equal(t, "found it", result["content"])
}

func TestComplete_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Text: "Hi"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestComplete_EmptyContent(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}, "stop_reason": "end_turn"})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Text: "Hi"}},
	})

	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_BadKey(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.Error(t, svc.Ping(context.Background()))
}
