// Command coursechat is a retrieval-augmented chat assistant for course
// materials. It wires the storage, embedding and completion adapters to
// the core services and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/coursechat/internal/adapters/driven/completion/anthropic"
	configfile "github.com/custodia-labs/coursechat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/coursechat/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/coursechat/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/coursechat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/coursechat/internal/adapters/driving/cli"
	"github.com/custodia-labs/coursechat/internal/connectors/coursedoc"
	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/core/services"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open course store: %w", err)
	}
	defer store.Close()

	settings := configfile.Settings(configStore)

	embeddingService, err := buildEmbeddingService(configStore)
	if err != nil {
		// Embedding-dependent commands report their own configuration
		// errors; config and version must still work.
		logger.Debug("Embedding service unavailable: %v", err)
	}

	svcs := cli.Services{Config: configStore}

	if embeddingService != nil {
		defer embeddingService.Close()

		chunker := services.NewChunker(
			services.WithChunkSize(settings.ChunkSize),
			services.WithChunkOverlap(settings.ChunkOverlap),
		)
		parser := coursedoc.NewParser()
		search := services.NewSearchService(store, embeddingService,
			services.WithMaxResults(settings.MaxResults))

		svcs.Search = search
		svcs.Catalog = search
		svcs.Ingest = services.NewIngestService(store, embeddingService, chunker, parser)

		if completionService := buildCompletionService(configStore); completionService != nil {
			registry, rerr := services.NewToolRegistry(
				services.NewSearchTool(search),
				services.NewOutlineTool(search),
			)
			if rerr != nil {
				return fmt.Errorf("build tool registry: %w", rerr)
			}

			memory := services.NewConversationMemory(settings.HistoryWindow)
			svcs.Assistant = services.NewAssistantService(completionService, registry, memory,
				services.WithMaxToolRounds(settings.MaxToolRounds),
				services.WithCompletionTimeout(settings.CompletionTimeout),
			)
		}
	}

	cli.SetServices(svcs)
	cli.SetVersion(version)
	return cli.Execute()
}

// buildEmbeddingService constructs the configured embedding provider.
func buildEmbeddingService(config driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := domain.AIProvider(config.GetString(configfile.KeyAIProvider))
	if provider == "" {
		provider = domain.AIProviderOpenAI
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}

	switch provider {
	case domain.AIProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: config.GetString(configfile.KeyOllamaURL),
			Model:   config.GetString(configfile.KeyOllamaModel),
		})
	default:
		apiKey := config.GetString(configfile.KeyOpenAIAPIKey)
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey: apiKey,
			Model:  config.GetString(configfile.KeyOpenAIModel),
		})
	}
}

// buildCompletionService constructs the Anthropic completion service,
// or nil when no API key is configured.
func buildCompletionService(config driven.ConfigStore) driven.CompletionService {
	apiKey := config.GetString(configfile.KeyAnthropicAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil
	}

	service, err := anthropic.NewCompletionService(anthropic.Config{
		APIKey: apiKey,
		Model:  config.GetString(configfile.KeyAnthropicModel),
	})
	if err != nil {
		logger.Warn("Completion service unavailable: %v", err)
		return nil
	}
	return service
}
