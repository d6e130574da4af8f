package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/adapters"
	mongoadapter "github.com/satriahrh/penerjemah/adapters/mongo"
	"github.com/satriahrh/penerjemah/adapters/stt"
	"github.com/satriahrh/penerjemah/adapters/translator"
	"github.com/satriahrh/penerjemah/adapters/tts"
	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
	"github.com/satriahrh/penerjemah/internal/api"
	"github.com/satriahrh/penerjemah/internal/native"
	"github.com/satriahrh/penerjemah/internal/websocket"
	"github.com/satriahrh/penerjemah/usecase"
)

func main() {
	// Load .env if present; environment variables win
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// The speech runtime must be loaded before any configuration can be
	// created
	if err := native.Load(); err != nil {
		logger.Fatal("Failed to load speech runtime", zap.Error(err))
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	recognizer := newRecognizer(logger)
	trans := newTranslator(logger)
	synthesizer, voices := newSynthesizer(logger)
	sessionRepo, mongoClient := newSessionRepository(logger)
	deviceRepo := newDeviceRepository(logger)

	service := usecase.NewTranslationService(recognizer, trans, synthesizer, sessionRepo, logger)

	hub := websocket.NewHub(service, logger)
	go hub.Run()

	cleanup := websocket.NewSessionCleanupService(sessionRepo, logger)
	cleanup.Start()

	api.InitRoutes(e, hub, deviceRepo, voices, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cleanup.Stop()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// newRecognizer uses Google Cloud Speech-to-Text when credentials are
// configured, the mock otherwise
func newRecognizer(logger *zap.Logger) repositories.SpeechRecognizer {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		logger.Info("GOOGLE_APPLICATION_CREDENTIALS not set, using mock recognizer")
		return stt.NewMockRecognizer(logger)
	}
	return stt.NewGoogleRecognizer()
}

// newTranslator uses Gemini when an API key is configured, the mock
// otherwise
func newTranslator(logger *zap.Logger) repositories.Translator {
	config := translator.NewGeminiTranslatorConfigFromEnv()
	if config.APIKey == "" {
		logger.Info("GEMINI_API_KEY not set, using mock translator")
		return translator.NewMockTranslator(logger)
	}

	gemini, err := translator.NewGeminiTranslator(config, logger)
	if err != nil {
		logger.Fatal("Failed to create Gemini translator", zap.Error(err))
	}
	return gemini
}

// newSynthesizer uses Eleven Labs when an API key is configured, the
// mock otherwise. The voice listing endpoint is only available with the
// real backend.
func newSynthesizer(logger *zap.Logger) (repositories.SpeechSynthesizer, api.VoiceLister) {
	config := tts.NewElevenLabsConfigFromEnv()
	if config.APIKey == "" {
		logger.Info("ELEVEN_LABS_API_KEY not set, using mock synthesizer")
		return tts.NewMockSynthesizer(logger), nil
	}

	elevenLabs, err := tts.NewElevenLabsSynthesizer(config, logger)
	if err != nil {
		logger.Fatal("Failed to create Eleven Labs synthesizer", zap.Error(err))
	}
	return elevenLabs, elevenLabs
}

// newSessionRepository uses MongoDB when MONGODB_URI is set, the
// in-memory repository otherwise
func newSessionRepository(logger *zap.Logger) (repositories.SessionRepository, *mongoadapter.Client) {
	if os.Getenv("MONGODB_URI") == "" {
		logger.Info("MONGODB_URI not set, using in-memory session repository")
		return adapters.NewMemorySessionRepository(), nil
	}

	client, err := mongoadapter.NewClient(logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	return mongoadapter.NewSessionRepository(client.Database, logger), client
}

// newDeviceRepository seeds the in-memory device registry from the
// environment so the token exchange works out of the box
func newDeviceRepository(logger *zap.Logger) repositories.DeviceRepository {
	repo := adapters.NewMemoryDeviceRepository()

	subscriptionKey := os.Getenv("DEVICE_SUBSCRIPTION_KEY")
	if subscriptionKey == "" {
		logger.Warn("DEVICE_SUBSCRIPTION_KEY not set, no device can exchange a token")
		return repo
	}

	region := os.Getenv("DEVICE_REGION")
	if region == "" {
		region = "southeastasia"
	}
	serial := os.Getenv("DEVICE_SERIAL_NUMBER")
	if serial == "" {
		serial = "dev-device-001"
	}

	device := &entities.Device{
		ID:              uuid.NewString(),
		SerialNumber:    serial,
		SubscriptionKey: subscriptionKey,
		Region:          region,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := repo.Create(context.Background(), device); err != nil {
		logger.Fatal("Failed to seed device registry", zap.Error(err))
	}

	logger.Info("Seeded device registry",
		zap.String("deviceID", device.ID),
		zap.String("serialNumber", device.SerialNumber),
		zap.String("region", device.Region))

	return repo
}
