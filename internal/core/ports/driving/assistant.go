package driving

import (
	"context"

	"github.com/custodia-labs/coursechat/internal/core/domain"
)

// AssistantService answers natural-language questions about the corpus.
// This is the sole entry point the outer interface layers call per query.
type AssistantService interface {
	// Answer runs one query through the tool-calling loop and returns
	// the answer text plus the provenance backing it. Session history is
	// read before the loop and the new exchange is recorded after it.
	Answer(ctx context.Context, query, sessionID string) (string, []domain.SourceRef, error)
}
