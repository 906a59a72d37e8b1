package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/agent"
	"github.com/nbnam/cv-agent/internal/ai/gemini"
	"github.com/nbnam/cv-agent/internal/assistant"
	"github.com/nbnam/cv-agent/internal/capabilities"
	"github.com/nbnam/cv-agent/internal/extract"
	"github.com/nbnam/cv-agent/internal/interview"
	"github.com/nbnam/cv-agent/internal/search"
	"github.com/nbnam/cv-agent/internal/secrets"
	"github.com/nbnam/cv-agent/internal/session"
)

// buildGeminiClient resolves the API key and creates the shared model
// client every command uses.
func buildGeminiClient(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Client, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  config.AI.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: config.AI.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	return gemini.NewClient(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, logger)
}

// buildAssistant wires the full stack behind the assistant commands:
// one model client, one capability registry, one agent, one store.
func buildAssistant(ctx context.Context, config *Config, logger *zap.Logger) (*assistant.Assistant, error) {
	client, err := buildGeminiClient(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(client, logger)

	var searcher capabilities.JobSearcher
	if config.Search != nil {
		searchKey, err := secrets.Load(secrets.Source{
			Name:  "tavily api key",
			File:  config.Search.APIKeyFile,
			Env:   "TAVILY_API_KEY",
			Value: config.Search.APIKey,
		})
		if err != nil {
			logger.Warn("online job search disabled", zap.Error(err))
		} else {
			searcher = search.New(searchKey, config.Search.MaxResults, logger)
		}
	}

	registry, err := capabilities.NewRegistry(capabilities.Deps{
		Generator: client,
		Vision:    client,
		Searcher:  searcher,
		Extractor: extractor,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building capability registry: %w", err)
	}

	maxTurns := 0
	if config.Agent != nil {
		maxTurns = config.Agent.MaxTurns
	}
	ag := agent.New(client, registry, assistant.SystemPrompt, maxTurns, logger)

	store, err := session.NewSQLite(config.SessionDB, config.SessionTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	return assistant.New(store, ag, extractor, config.HistoryWindow, logger), nil
}

// buildInterviewManager wires the mock interview stack on the same
// model client.
func buildInterviewManager(ctx context.Context, config *Config, logger *zap.Logger) (*interview.Manager, error) {
	client, err := buildGeminiClient(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	evaluator := interview.NewModelEvaluator(client, client, client)
	return interview.NewManager(evaluator, logger), nil
}
