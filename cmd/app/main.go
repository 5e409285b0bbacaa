package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"voicetrade/configs"
	"voicetrade/internal/adapter"
	"voicetrade/internal/catalog"
	delivery "voicetrade/internal/delivery/http"
	"voicetrade/internal/domain"
	"voicetrade/internal/infra"
	"voicetrade/internal/logger"
	"voicetrade/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg := configs.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// The market catalog is a startup dependency: a bad catalog is a
	// configuration error, not a per-request one.
	markets, err := catalog.Load(cfg.MarketsFile)
	if err != nil {
		log.Fatalf("Failed to load market catalog: %v", err)
	}
	logger.Info(ctx, "market catalog loaded", "file", cfg.MarketsFile, "markets", len(markets.Entries()))

	transcriber := newTranscriber(cfg)
	logger.Info(ctx, "speech-to-text provider selected", "provider", cfg.STT.Provider)

	extractor := adapter.NewOpenAIExtractor(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	commandService := usecase.NewCommandService(extractor, markets)
	voiceService := usecase.NewVoiceService(transcriber, commandService, cfg.Upload.Dir, cfg.Upload.MaxBytes)

	// Backstop for upload files orphaned by crashes; the pipeline removes
	// its own files on every normal path.
	sweeper := infra.NewSweeper(cfg.Upload.Dir, cfg.Upload.SweepInterval, cfg.Upload.SweepRetention)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start upload sweeper: %v", err)
	}
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		VoiceHandler: delivery.NewVoiceHandler(voiceService),
	})

	addr := ":" + cfg.Server.Port
	logger.Info(ctx, "voicetrade API starting",
		"addr", addr,
		"env", cfg.Server.Env,
		"max_upload_bytes", cfg.Upload.MaxBytes,
	)

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := logger.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}

	logger.Info(ctx, "server exited gracefully")
}

// newTranscriber selects the STT provider once at startup; the choice never
// changes per request.
func newTranscriber(cfg *configs.Config) domain.Transcriber {
	switch cfg.STT.Provider {
	case configs.ProviderWhisper:
		return adapter.NewWhisperTranscriber(cfg.LLM.APIKey, "", cfg.STT.Timeout)
	default:
		return adapter.NewAssemblyAITranscriber(cfg.STT.AssemblyAIKey, cfg.STT.Timeout)
	}
}
