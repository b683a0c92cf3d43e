// Command lambda serves the MyFishingDiary API from AWS Lambda behind an API
// Gateway HTTP API (payload format 2.0).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/mmynk/myfishingdiary/internal/app"
	"github.com/mmynk/myfishingdiary/internal/config"
	"github.com/mmynk/myfishingdiary/pkg/logging"
)

var adapter *httpadapter.HandlerAdapterV2

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.SlogLevel(), true)
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	router, err := a.Router()
	if err != nil {
		logger.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	adapter = httpadapter.NewV2(router)
	lambda.Start(handler)
}
