package utils

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv pulls a local .env into the process environment when present.
func LoadEnv(logger *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using process environment")
	} else {
		logger.Info(".env file loaded")
	}
}
