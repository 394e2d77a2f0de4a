package bootstrap

import (
	"context"
	"log"

	"eduverse-be/internal/config"
	"eduverse-be/internal/controller"
	"eduverse-be/internal/pkg/logger"
	"eduverse-be/internal/repository/implementation"
	"eduverse-be/internal/repository/unitofwork"
	"eduverse-be/internal/service"
	"eduverse-be/pkg/agent/curator"
	"eduverse-be/pkg/agent/engine"
	"eduverse-be/pkg/agent/examcoach"
	"eduverse-be/pkg/agent/planner"
	"eduverse-be/pkg/agent/syllabus"
	"eduverse-be/pkg/agent/tutor"
	"eduverse-be/pkg/embedding"
	"eduverse-be/pkg/llm/factory"
	"eduverse-be/pkg/memory"
	"eduverse-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController   controller.IAgentController
	ProfileController controller.IProfileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

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

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
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

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	searchProvider := websearch.NewCachedProvider(
		websearch.NewTavilyProvider(cfg.Keys.Tavily),
		rdb,
	)

	// 4. Memory Port
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.MemoryTopic)
	memoryStore := memory.NewStore(
		implementation.NewMemoryRecordRepository(db),
		embeddingProvider,
		publisherService,
		sysLogger,
	)

	// 5. Pipelines
	eng := engine.New(sysLogger, cfg.Agent.RunTimeout)
	tutorPipeline := tutor.NewPipeline(eng, llmProvider, memoryStore, uowFactory, sysLogger)
	plannerPipeline := planner.NewPipeline(eng, llmProvider, memoryStore, uowFactory, sysLogger)
	curatorPipeline := curator.NewPipeline(eng, llmProvider, searchProvider, memoryStore, uowFactory, sysLogger,
		cfg.Agent.FallbackResourceLimit, cfg.Agent.FallbackRating)
	examPipeline := examcoach.NewPipeline(eng, llmProvider, memoryStore, uowFactory, sysLogger,
		cfg.Agent.FallbackExamScore, cfg.Agent.FallbackCorrectCount)
	syllabusPipeline := syllabus.NewPipeline(eng, llmProvider, searchProvider, memoryStore, uowFactory, sysLogger)

	// 6. Services
	agentService := service.NewAgentService(
		tutorPipeline,
		plannerPipeline,
		curatorPipeline,
		examPipeline,
		syllabusPipeline,
		uowFactory,
	)
	profileService := service.NewProfileService(uowFactory)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.MemoryTopic, uowFactory, embeddingProvider)

	// 7. Controllers
	return &Container{
		AgentController:   controller.NewAgentController(agentService),
		ProfileController: controller.NewProfileController(profileService),
		ConsumerService:   consumerService,
	}
}
