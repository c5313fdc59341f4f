package bootstrap

import (
	"context"
	"log"

	"paarth-be/internal/config"
	"paarth-be/internal/constant"
	"paarth-be/internal/controller"
	"paarth-be/internal/pkg/logger"
	"paarth-be/internal/service"
	"paarth-be/internal/websocket"
	"paarth-be/pkg/embedding"
	"paarth-be/pkg/knowledge"
	"paarth-be/pkg/llm/factory"
	"paarth-be/pkg/relay/gateway"
	"paarth-be/pkg/relay/request"
	"paarth-be/pkg/relay/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// WebSocket relay
	Relay *websocket.Relay

	// Background services (exposed for main.go to run)
	Registry     *session.Registry
	StatsService service.IStatsService

	// Shared state
	Index  *knowledge.Index
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding provider based on config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// 4. LLM provider
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		constant.SystemInstructions,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Knowledge base: load and embed up front, refuse to start without it
	verses, keywords, err := knowledge.LoadCorpus(cfg.App.CorpusPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load knowledge base from %s: %v", cfg.App.CorpusPath, err)
	}
	index := knowledge.NewIndex(verses, keywords, embeddingProvider, sysLogger)
	if err := index.Initialize(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to initialize knowledge index: %v", err)
	}
	log.Printf("[INFO] Knowledge base ready with %d verses", index.Count())

	// 6. Relay plumbing
	gw := gateway.New(llmProvider, cfg.Relay.GenerationTimeout, sysLogger)
	coordinator := request.NewCoordinator()
	registry := session.NewRegistry(cfg.Relay.IdleTimeout, func(sessionID string) {
		coordinator.CancelAll(sessionID)
	}, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	statsService := service.NewStatsService(pubSub, cfg.App.EventTopic)
	assistantService := service.NewAssistantService(
		index,
		gw,
		coordinator,
		registry,
		publisherService,
		statsService,
		sysLogger,
	)

	// 8. WebSocket relay with its own log file
	relayLogger := logger.NewIsolatedLogger("logs/relay.log")
	relay := websocket.NewRelay(registry, assistantService, relayLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		Relay:               relay,
		Registry:            registry,
		StatsService:        statsService,
		Index:               index,
		Logger:              sysLogger,
	}
}
