package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"travelchat/internal/config"
	"travelchat/internal/documents"
	"travelchat/internal/domain"
	"travelchat/internal/embedding"
	"travelchat/internal/embedding/ollama"
	"travelchat/internal/embedding/openai"
	"travelchat/internal/embedding/tfidf"
	"travelchat/internal/handlers"
	"travelchat/internal/llm"
	"travelchat/internal/ranking"
	"travelchat/internal/service"
	"travelchat/internal/summarizer"
	"travelchat/internal/vectorstore/memory"
	"travelchat/internal/vectorstore/qdrant"
)

// App holds the wired application components.
type App struct {
	Config *config.AppConfig
	Logger arbor.ILogger

	Documents   []domain.TravelDocument
	Ranker      domain.Ranker
	Model       *llm.Client
	ChatService *service.ChatService
	ChatHandler *handlers.ChatHandler

	// Summary is a short overview of the corpus, "" if it could not be built.
	Summary string
}

// New loads the corpus, resolves the ranking strategy and wires the chat
// service. Optional components that fail to initialise are logged and
// replaced by their degraded alternative.
func New(ctx context.Context, cfg *config.AppConfig, logger arbor.ILogger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	app := &App{Config: cfg, Logger: logger}

	app.Documents = documents.NewStore(cfg.Documents.Path, logger).All()

	backend, err := newEmbedder(cfg.Embedder)
	if err != nil {
		logger.Warn().Err(err).Str("embedder", cfg.Embedder.Type).Msg("Embedder unavailable, using keyword search")
		backend = nil
	}
	store, err := newVectorStore(cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	encoder := embedding.NewEncoder(backend, logger)
	app.Ranker = ranking.Build(ctx, app.Documents, encoder, store, logger)

	app.Model = llm.NewClient(llm.Config{
		Enabled: cfg.Chat.Enabled,
		BaseURL: cfg.Chat.ServerURL,
		Model:   cfg.Chat.Model,
		Timeout: time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	app.ChatService = service.NewChatService(app.Documents, app.Ranker, app.Model, cfg.Chat.TopK, logger)
	app.ChatHandler = handlers.NewChatHandler(app.ChatService, logger)

	if sum, err := newSummarizer(cfg.Summarizer); err != nil {
		logger.Warn().Err(err).Msg("Summarizer unavailable")
	} else if app.Summary, err = summarizer.Corpus(sum, app.Documents, cfg.Summarizer.MaxSentences); err != nil {
		logger.Warn().Err(err).Msg("Could not summarize documents")
	}

	logger.Info().
		Int("documents", len(app.Documents)).
		Str("ranker", app.Ranker.Name()).
		Str("mode", app.ChatService.Mode()).
		Str("model", app.Model.Model()).
		Str("ollama_server", cfg.Chat.ServerURL).
		Msg("Application initialization complete")
	return app, nil
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "ollama":
		opts := []ollama.Option{}
		model := config.DefaultEmbedModel
		if cfg.Ollama != nil {
			opts = append(opts,
				ollama.WithBaseURL(cfg.Ollama.BaseURL),
				ollama.WithTimeout(time.Duration(cfg.Ollama.TimeoutSecs)*time.Second),
			)
			if cfg.Ollama.Model != "" {
				model = cfg.Ollama.Model
			}
		}
		return ollama.NewClient(model, opts...), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func newVectorStore(cfg config.VectorStoreConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "", "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil || cfg.Qdrant.URL == "" {
			return nil, fmt.Errorf("qdrant config missing url")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func newSummarizer(cfg config.SummarizerConfig) (domain.Summarizer, error) {
	switch cfg.Type {
	case "", "frequency":
		return summarizer.NewFrequencySummarizer(), nil
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Type)
	}
}
