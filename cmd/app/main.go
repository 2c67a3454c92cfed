package main

//go:generate go run github.com/swaggo/swag/cmd/swag init -g cmd/app/main.go

import (
	"cumbrecita/config"
	"cumbrecita/di"
	"cumbrecita/shared/logger"
)

// @title Stay Cumbrecita Checkout & Chat API
// @version 1.0
// @description Backend-for-frontend for the reservation checkout protocol and the property chat assistant.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
