package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Tavily       string
	GoogleGemini string
	HuggingFace  string
	MemoryTopic  string // Embedding topic for appended memory records
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

// AgentConfig carries pipeline-level tunables. The fallback rating and score
// are configurable defaults, not derived values.
type AgentConfig struct {
	RunTimeout            time.Duration
	FallbackResourceLimit int     // resources kept when curation parsing fails
	FallbackRating        float64 // flat rating assigned to fallback resources
	FallbackExamScore     float64 // placeholder score when evaluation parsing fails
	FallbackCorrectCount  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Tavily:       getEnv("TAVILY_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			MemoryTopic:  getEnv("EMBED_MEMORY_TOPIC_NAME", "EMBED_MEMORY_RECORD"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Agent: AgentConfig{
			RunTimeout:            time.Duration(getEnvAsInt("AGENT_RUN_TIMEOUT_SECONDS", 300)) * time.Second,
			FallbackResourceLimit: getEnvAsInt("AGENT_FALLBACK_RESOURCE_LIMIT", 8),
			FallbackRating:        getEnvAsFloat("AGENT_FALLBACK_RATING", 4.0),
			FallbackExamScore:     getEnvAsFloat("AGENT_FALLBACK_EXAM_SCORE", 85.0),
			FallbackCorrectCount:  getEnvAsInt("AGENT_FALLBACK_CORRECT_COUNT", 8),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
