package utils

import (
	"os"

	"go.uber.org/zap"
)

func NewLogger() *zap.Logger {
	var logger *zap.Logger
	var err error

	if os.Getenv("ENV") == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	return logger
}
