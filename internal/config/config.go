package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	Processing ProcessingConfig
	Chat       ChatConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey string
}

type ProcessingConfig struct {
	// ChunkSize is the target chunk length when scoring resumes.
	ChunkSize int
	// QueryChunkSize is the target chunk length when answering questions.
	QueryChunkSize int
	MaxResumes     int
	MaxFileSize    int64
}

type ChatConfig struct {
	TTL         time.Duration
	MaxMessages int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Processing: ProcessingConfig{
			ChunkSize:      getEnvAsInt("TEXT_CHUNK_SIZE", 500),
			QueryChunkSize: getEnvAsInt("QUERY_CHUNK_SIZE", 400),
			MaxResumes:     getEnvAsInt("MAX_RESUMES", 100),
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 52428800),
		},
		Chat: ChatConfig{
			TTL:         getEnvAsDuration("CHAT_TTL", "24h"),
			MaxMessages: getEnvAsInt("CHAT_MAX_MESSAGES", 60),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
