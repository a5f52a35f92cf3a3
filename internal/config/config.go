package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Search     SearchConfig     `mapstructure:"search"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// OpenRouterConfig configures the chat-completion provider, including
// the prioritized model list tried by the generation client.
type OpenRouterConfig struct {
	APIKey      string   `mapstructure:"api_key"`
	BaseURL     string   `mapstructure:"base_url"`
	Referer     string   `mapstructure:"referer"`
	AppName     string   `mapstructure:"app_name"`
	Models      []string `mapstructure:"models"`
	MaxAttempts int      `mapstructure:"max_attempts"`
	BaseDelayMs int      `mapstructure:"base_delay_ms"`
	TimeoutSec  int      `mapstructure:"timeout_sec"`
}

type EmbeddingConfig struct {
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// IngestConfig configures feed ingestion. Secret, when set, gates the
// ingest endpoint behind an X-Ingest-Secret header check.
type IngestConfig struct {
	Secret             string `mapstructure:"secret"`
	DefaultLimit       int    `mapstructure:"default_limit"`
	DownloadTimeoutSec int    `mapstructure:"download_timeout_sec"`
}

type SearchConfig struct {
	TopK int `mapstructure:"top_k"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	LogFile string `mapstructure:"file"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.referer", "https://robocombo.co")
	v.SetDefault("openrouter.app_name", "Robocombo WhatsApp Bot")
	v.SetDefault("openrouter.models", []string{
		"openai/gpt-4o-mini",
		"openai/gpt-4o",
		"openai/gpt-3.5-turbo",
	})
	v.SetDefault("openrouter.max_attempts", 3)
	v.SetDefault("openrouter.base_delay_ms", 800)
	v.SetDefault("openrouter.timeout_sec", 20)
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("embedding.batch_size", 32)
	v.SetDefault("embedding.timeout_sec", 60)
	v.SetDefault("ingest.default_limit", 50)
	v.SetDefault("ingest.download_timeout_sec", 60)
	v.SetDefault("search.top_k", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("server.port", "PORT")
	v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("openrouter.referer", "OPENROUTER_SITE_URL")
	v.BindEnv("openrouter.app_name", "OPENROUTER_APP_NAME")
	v.BindEnv("embedding.api_key", "OPENAI_API_KEY")
	v.BindEnv("embedding.base_url", "OPENAI_BASE_URL")
	v.BindEnv("embedding.model", "EMBEDDING_MODEL")
	v.BindEnv("ingest.secret", "INGEST_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.file", "LOG_FILE")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
