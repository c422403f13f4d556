package main

import (
	"github.com/aanyashri/hrmsbackend-users/internal/app"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunWorker(); err != nil {
		logger.Fatal("outbox relay worker exited", zap.Error(err))
	}
}
