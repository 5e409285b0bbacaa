package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// STT provider names accepted in STT_PROVIDER.
const (
	ProviderAssemblyAI = "assemblyai"
	ProviderWhisper    = "whisper"
)

// Config holds all configuration for the application. Loaded once in main
// and passed down explicitly; nothing reads the environment after startup.
type Config struct {
	Server ServerConfig
	STT    STTConfig
	LLM    LLMConfig
	Upload UploadConfig

	// MarketsFile is the static token catalog source.
	MarketsFile string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// STTConfig holds speech-to-text provider configuration.
type STTConfig struct {
	Provider      string
	AssemblyAIKey string
	Timeout       time.Duration
}

// LLMConfig holds language model configuration. The OpenAI key also serves
// the Whisper STT provider.
type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// UploadConfig holds upload handling configuration.
type UploadConfig struct {
	Dir            string
	MaxBytes       int64
	SweepInterval  time.Duration
	SweepRetention time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		STT: STTConfig{
			Provider:      getEnv("STT_PROVIDER", ProviderAssemblyAI),
			AssemblyAIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
			Timeout:       time.Duration(getEnvInt("STT_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		LLM: LLMConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Upload: UploadConfig{
			Dir:            getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
			SweepInterval:  time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 10)) * time.Minute,
			SweepRetention: time.Duration(getEnvInt("UPLOAD_RETENTION_MINUTES", 30)) * time.Minute,
		},
		MarketsFile: getEnv("MARKETS_FILE", "markets.yaml"),
	}
}

// Validate checks that the configuration is usable. A failure here is fatal
// at startup.
func (c *Config) Validate() error {
	switch c.STT.Provider {
	case ProviderAssemblyAI:
		if c.STT.AssemblyAIKey == "" {
			return fmt.Errorf("STT_PROVIDER is %s but ASSEMBLYAI_API_KEY is not set", ProviderAssemblyAI)
		}
	case ProviderWhisper:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("STT_PROVIDER is %s but OPENAI_API_KEY is not set", ProviderWhisper)
		}
	default:
		return fmt.Errorf("invalid STT_PROVIDER '%s': must be '%s' or '%s'",
			c.STT.Provider, ProviderAssemblyAI, ProviderWhisper)
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
