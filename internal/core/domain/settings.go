package domain

import "time"

// AIProvider identifies an AI service provider for embeddings.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Settings holds the fixed tuning constants for the retrieval pipeline
// and the assistant loop. Values are resolved once at construction time
// and passed into each component; nothing reads them from ambient scope.
type Settings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of trailing characters re-included
	// at the start of the next chunk.
	ChunkOverlap int

	// MaxResults is the default content search result limit.
	MaxResults int

	// HistoryWindow is the number of exchanges (user + assistant turn
	// pairs) kept per conversation session.
	HistoryWindow int

	// MaxToolRounds caps the number of tool-executing round trips per
	// query before the loop forces a tool-less final answer.
	MaxToolRounds int

	// CompletionTimeout bounds each individual completion service call.
	CompletionTimeout time.Duration
}

// DefaultSettings returns the standard tuning constants.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:         800,
		ChunkOverlap:      100,
		MaxResults:        5,
		HistoryWindow:     2,
		MaxToolRounds:     2,
		CompletionTimeout: 2 * time.Minute,
	}
}
