package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config — настройки процесса из окружения. Политика проверки
// (промпты, пороги, словари) живёт отдельно в YAML, см. Policy.
type Config struct {
	TelegramToken string

	PrimaryFamily  string
	PrimaryBaseURL string
	PrimaryAPIKey  string
	PrimaryModel   string

	SecondaryFamily  string
	SecondaryBaseURL string
	SecondaryAPIKey  string
	SecondaryModel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PolicyPath string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		PrimaryFamily:  envOr("PRIMARY_FAMILY", "conversational"),
		PrimaryBaseURL: envOr("PRIMARY_BASE_URL", "https://bedrock-runtime.us-east-1.amazonaws.com"),
		PrimaryAPIKey:  os.Getenv("PRIMARY_API_KEY"),
		PrimaryModel:   envOr("PRIMARY_MODEL", "anthropic.claude-3-5-sonnet-20240620-v1:0"),

		SecondaryFamily:  envOr("SECONDARY_FAMILY", "vision"),
		SecondaryBaseURL: envOr("SECONDARY_BASE_URL", "https://bedrock-runtime.us-east-1.amazonaws.com"),
		SecondaryAPIKey:  os.Getenv("SECONDARY_API_KEY"),
		SecondaryModel:   envOr("SECONDARY_MODEL", "amazon.nova-pro-v1:0"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		PolicyPath: envOr("POLICY_PATH", "policy.yaml"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
