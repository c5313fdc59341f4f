package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Keys  APIKeys
	Ai    AIConfig
	Relay RelayConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	CorpusPath         string
	EventTopic         string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
}

type RelayConfig struct {
	GenerationTimeout time.Duration
	IdleTimeout       time.Duration
	SweepInterval     time.Duration
	PingInterval      time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			CorpusPath:         getEnv("KNOWLEDGE_BASE_PATH", "data/knowledge-base.json"),
			EventTopic:         getEnv("SESSION_EVENT_TOPIC_NAME", "SESSION_EVENTS"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
		},
		Relay: RelayConfig{
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT_SECONDS", 90) * time.Second,
			IdleTimeout:       getEnvAsDuration("SESSION_IDLE_TIMEOUT_MINUTES", 20) * time.Minute,
			SweepInterval:     getEnvAsDuration("SESSION_SWEEP_INTERVAL_MINUTES", 5) * time.Minute,
			PingInterval:      getEnvAsDuration("SESSION_PING_INTERVAL_SECONDS", 30) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int64) time.Duration {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil && value > 0 {
		return time.Duration(value)
	}
	return time.Duration(fallback)
}
