package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Telegram  TelegramConfig
	Keys      APIKeys
	Ai        AIConfig
	Cache     CacheConfig
	Providers ProvidersConfig
}

type AppConfig struct {
	Port               string
	PublicURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JWTSecret          string
	NatsURL            string
	OtelEndpoint       string
}

type TelegramConfig struct {
	BotToken string
	BaseURL  string
}

type APIKeys struct {
	Apify             string
	Perplexity        string
	DeepL             string
	Vapi              string
	VapiPhoneNumberID string
}

type AIConfig struct {
	LLMProvider  string // "gemini", "ollama" or "anthropic"
	LLMModel     string
	LLMBaseURL   string
	GeminiKey    string
	AnthropicKey string
}

type CacheConfig struct {
	Backend         string // "file", "redis" or "postgres"
	Dir             string
	RedisURL        string
	DBConnection    string
	SessionTTL      time.Duration
	HistoryRetained int
	HistorySent     int
	MemoSize        int
	MemoTTL         time.Duration
}

type ProvidersConfig struct {
	ChainFile        string
	ActorBaseURL     string
	PerplexityURL    string
	DeepLURL         string
	VapiURL          string
	PollInterval     time.Duration
	CallPollInterval time.Duration
	StatusClearDelay time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LLMKey returns the API key of the selected LLM backend
func (c *Config) LLMKey() string {
	if c.Ai.LLMProvider == "anthropic" {
		return c.Ai.AnthropicKey
	}
	return c.Ai.GeminiKey
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}
	return FromEnv()
}

// FromEnv reads the configuration without touching .env
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "8080"),
			PublicURL:          getEnv("PUBLIC_URL", ""),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/trip-assistant.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", ""),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			BaseURL:  getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		},
		Keys: APIKeys{
			Apify:             getEnv("APIFY_API_TOKEN", ""),
			Perplexity:        getEnv("PERPLEXITY_API_KEY", ""),
			DeepL:             getEnv("DEEPL_API_KEY", ""),
			Vapi:              getEnv("VAPI_API_KEY", ""),
			VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
		},
		Ai: AIConfig{
			LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:     getEnv("LLM_MODEL", ""),
			LLMBaseURL:   getEnv("LLM_BASE_URL", ""),
			GeminiKey:    getEnv("GOOGLE_GEMINI_API_KEY", ""),
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Cache: CacheConfig{
			Backend:         getEnv("TRIP_CACHE_BACKEND", "file"),
			Dir:             getEnv("TRIP_CACHE_DIR", "trip_cache"),
			RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
			DBConnection:    getEnv("DB_CONNECTION_STRING", ""),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", time.Hour),
			HistoryRetained: getEnvAsInt("HISTORY_RETAINED", 20),
			HistorySent:     getEnvAsInt("HISTORY_SENT", 6),
			MemoSize:        getEnvAsInt("PROVIDER_MEMO_SIZE", 256),
			MemoTTL:         getEnvAsDuration("PROVIDER_MEMO_TTL", 10*time.Minute),
		},
		Providers: ProvidersConfig{
			ChainFile:        getEnv("PROVIDER_CHAIN_FILE", ""),
			ActorBaseURL:     getEnv("APIFY_BASE_URL", ""),
			PerplexityURL:    getEnv("PERPLEXITY_BASE_URL", ""),
			DeepLURL:         getEnv("DEEPL_BASE_URL", ""),
			VapiURL:          getEnv("VAPI_BASE_URL", ""),
			PollInterval:     getEnvAsDuration("ACTOR_POLL_INTERVAL", 5*time.Second),
			CallPollInterval: getEnvAsDuration("CALL_POLL_INTERVAL", 10*time.Second),
			StatusClearDelay: getEnvAsDuration("STATUS_CLEAR_DELAY", 3*time.Second),
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

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if n, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
