package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/aws"
	"github.com/imrishuroy/go-sales-orders/internal/config"
	"github.com/imrishuroy/go-sales-orders/internal/idempotency"
	"github.com/imrishuroy/go-sales-orders/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer zap.L().Sync() //nolint:errcheck

	clients, err := aws.NewAWSClients(context.Background(), cfg.AWSRegion, cfg.AWSEndpointOverride)
	if err != nil {
		zap.L().Fatal("failed to init aws clients", zap.Error(err))
	}

	p := NewProcessor(
		aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace),
		idempotency.NewDynamoStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL),
	)

	// If RUN_LOCAL=true, process a single simulated SQS message and exit.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"event_id":"local-event-1","type":"order.created","order_id":1,"total":"179.967","item_count":2,"occurred_at":"2023-05-15T10:30:00Z"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			zap.L().Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
