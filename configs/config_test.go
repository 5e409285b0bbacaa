package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GO_ENV", "STT_PROVIDER", "ASSEMBLYAI_API_KEY",
		"STT_TIMEOUT_SECONDS", "OPENAI_API_KEY", "OPENAI_MODEL",
		"LLM_TIMEOUT_SECONDS", "UPLOAD_DIR", "MAX_UPLOAD_BYTES",
		"SWEEP_INTERVAL_MINUTES", "UPLOAD_RETENTION_MINUTES", "MARKETS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ProviderAssemblyAI, cfg.STT.Provider)
	assert.Equal(t, 60*time.Second, cfg.STT.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.Upload.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.Upload.SweepRetention)
	assert.Equal(t, "markets.yaml", cfg.MarketsFile)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STT_PROVIDER", "whisper")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("STT_TIMEOUT_SECONDS", "5")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, ProviderWhisper, cfg.STT.Provider)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 5*time.Second, cfg.STT.Timeout)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	cfg := Load()
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")
	t.Setenv("OPENAI_API_KEY", "oai-key")

	cfg := Load()
	require.NoError(t, cfg.Validate())
}

func TestValidateMissingAssemblyAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "oai-key")

	err := Load().Validate()
	assert.ErrorContains(t, err, "ASSEMBLYAI_API_KEY")
}

func TestValidateWhisperNeedsOpenAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "whisper")

	err := Load().Validate()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestValidateUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "siri")
	t.Setenv("OPENAI_API_KEY", "oai-key")

	err := Load().Validate()
	assert.ErrorContains(t, err, "invalid STT_PROVIDER")
}

func TestValidateMissingLLMKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")

	err := Load().Validate()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestValidateBadMaxBytes(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")
	t.Setenv("OPENAI_API_KEY", "oai-key")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")

	err := Load().Validate()
	assert.ErrorContains(t, err, "MAX_UPLOAD_BYTES")
}
