package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	Cohere CohereConfig
	Groq   GroqConfig
	Topics TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type StoreConfig struct {
	Driver string // "file" or "redis"
	Path   string // file driver: directory holding snapshot files
	Key    string // entry holding the serialized session list
}

type CohereConfig struct {
	BaseURL string
	APIKey  string
}

type GroqConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type TopicConfig struct {
	SessionSnapshot string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Store: StoreConfig{
			Driver: getEnv("SESSION_STORE_DRIVER", "file"),
			Path:   getEnv("SESSION_STORE_PATH", "data"),
			Key:    getEnv("SESSION_STORE_KEY", "pdf_chat:sessions"),
		},
		Cohere: CohereConfig{
			BaseURL: getEnv("COHERE_API_URL", "https://api.cohere.ai"),
			APIKey:  getEnv("COHERE_API_KEY", ""),
		},
		Groq: GroqConfig{
			BaseURL: getEnv("GROQ_API_URL", "https://api.groq.com"),
			APIKey:  getEnv("GROQ_API_KEY", ""),
			Model:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		},
		Topics: TopicConfig{
			SessionSnapshot: getEnv("SESSION_SNAPSHOT_TOPIC_NAME", "SESSION_SNAPSHOT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
