package bootstrap

import (
	"context"
	"log"

	"legal-rag-be/internal/config"
	"legal-rag-be/internal/controller"
	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/internal/repository/implementation"
	"legal-rag-be/internal/service"
	"legal-rag-be/internal/websocket"
	"legal-rag-be/pkg/embedding"
	"legal-rag-be/pkg/embedding/jina"
	"legal-rag-be/pkg/llm/factory"
	"legal-rag-be/pkg/rag/generate"
	"legal-rag-be/pkg/rag/metadata"
	"legal-rag-be/pkg/rag/pipeline"
	"legal-rag-be/pkg/rag/retriever"
	"legal-rag-be/pkg/rag/router"
	"legal-rag-be/pkg/store"

	pktNats "legal-rag-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	IngestController controller.IIngestController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationService *service.NotificationService
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// The pipeline trace goes to its own file so turn-by-turn node logs
	// don't drown the request log.
	ragLogger := logger.NewIsolatedLogger(cfg.App.RagLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: JINA AI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Session Store (durable per-thread summary + manifest)
	var sessionStore store.SessionStore
	if cfg.Rag.SessionBackend == "memory" {
		sessionStore = store.NewMemorySessionStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	} else {
		sessionStore = store.NewRedisSessionStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/chat_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Pipeline
	vectorRepo := implementation.NewVectorRepository(db)

	ragPipeline := pipeline.New(
		router.NewRouter(llmProvider, ragLogger),
		retriever.NewRetriever(embeddingProvider, vectorRepo, llmProvider, ragLogger, cfg.Rag.TopK),
		generate.NewGenerator(llmProvider, ragLogger),
		metadata.NewExtractor(llmProvider, ragLogger),
		ragLogger,
	)

	// 6. Services
	chatService := service.NewChatService(ragPipeline, sessionStore, sysLogger)
	streamService := service.NewStreamService(chatService, wsHub, wsLogger)
	ingestService := service.NewIngestService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		vectorRepo,
		embeddingProvider,
		sessionStore,
		natsPub,
		sysLogger,
	)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// 7. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService, streamService, wsHub),
		IngestController: controller.NewIngestController(ingestService),

		ConsumerService: consumerService,

		NotificationService: notifService,
		WebSocketHub:        wsHub,
	}
}
