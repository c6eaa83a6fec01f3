package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/azorva/warden/pkg/logging"
	"github.com/joho/godotenv"
)

// Parse reads configuration from the environment. A local .env file is
// loaded first when present. Missing required values are fatal.
func Parse(l *slog.Logger) {
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envStoreURL := os.Getenv(EnvStoreURL); envStoreURL != "" {
		l.Debug("Found store URL in environment", slog.String("key", EnvStoreURL))
		StoreURL = strings.TrimRight(strings.TrimSpace(envStoreURL), "/")
	}

	if envStoreKey := os.Getenv(EnvStoreAPIKey); envStoreKey != "" {
		l.Debug("Found store API key in environment", slog.String("key", EnvStoreAPIKey))
		StoreAPIKey = envStoreKey
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"

		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if BotToken != "" &&
		ApplicationId != "" &&
		StoreURL != "" {

		// All required environment variables have been provided.
		l.Debug("All required environment variables have been provided")
		return
	}

	l.Error("Not all required environment variables have been provided", slog.String(logging.KeyError, "Incomplete configuration"))
	os.Exit(1)
}
