package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/aws"
	"github.com/imrishuroy/go-sales-orders/internal/config"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/dashboard"
	domain "github.com/imrishuroy/go-sales-orders/internal/events"
	"github.com/imrishuroy/go-sales-orders/internal/handlers"
	"github.com/imrishuroy/go-sales-orders/internal/idempotency"
	"github.com/imrishuroy/go-sales-orders/internal/idgen"
	"github.com/imrishuroy/go-sales-orders/internal/logger"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/repository"
	"github.com/imrishuroy/go-sales-orders/internal/seed"
)

// storage holds the backend-specific pieces the services are built on.
type storage struct {
	customers   customers.Repository
	products    products.Repository
	orders      orders.Repository
	settings    accounts.Repository
	seq         idgen.Sequence
	idempotency idempotency.Store
	publisher   domain.Publisher
}

func newStorage(ctx context.Context, cfg config.Config) (storage, error) {
	if cfg.StorageBackend == config.BackendMemory && cfg.QueueURL == "" {
		return storage{
			customers:   customers.NewMemoryRepository(),
			products:    products.NewMemoryRepository(),
			orders:      orders.NewMemoryRepository(),
			settings:    accounts.NewMemoryRepository(),
			seq:         idgen.NewCounter(),
			idempotency: idempotency.NewMemoryStore(cfg.IdempotencyTTL),
			publisher:   domain.Nop{},
		}, nil
	}

	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.AWSEndpointOverride)
	if err != nil {
		return storage{}, err
	}

	var st storage
	if cfg.StorageBackend == config.BackendDynamoDB {
		st = storage{
			customers:   repository.NewDynamo(clients.DynamoDB, cfg.CustomersTable, customers.Codec()),
			products:    repository.NewDynamo(clients.DynamoDB, cfg.ProductsTable, products.Codec()),
			orders:      repository.NewDynamo(clients.DynamoDB, cfg.OrdersTable, orders.Codec()),
			settings:    repository.NewDynamo(clients.DynamoDB, cfg.SettingsTable, accounts.Codec()),
			seq:         idgen.NewDynamoCounter(clients.DynamoDB, cfg.CountersTable),
			idempotency: idempotency.NewDynamoStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL),
		}
	} else {
		st = storage{
			customers:   customers.NewMemoryRepository(),
			products:    products.NewMemoryRepository(),
			orders:      orders.NewMemoryRepository(),
			settings:    accounts.NewMemoryRepository(),
			seq:         idgen.NewCounter(),
			idempotency: idempotency.NewMemoryStore(cfg.IdempotencyTTL),
		}
	}

	st.publisher = domain.Nop{}
	if cfg.QueueURL != "" {
		st.publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	}
	return st, nil
}

func setupRouter(cfg config.Config, hc handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestID(), handlers.Logger())

	r.GET("/health", handlers.Health)

	handlers.RegisterRoutes(r, hc, handlers.Latency(cfg.SimulatedLatency))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer zap.L().Sync() //nolint:errcheck

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	st, err := newStorage(ctx, cfg)
	if err != nil {
		zap.L().Fatal("failed to init storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}

	data := seed.Default()
	if cfg.SeedData {
		if err := seed.Load(ctx, data, st.customers, st.products, st.orders, st.seq); err != nil {
			zap.L().Fatal("failed to seed data", zap.Error(err))
		}
	}

	acc := accounts.NewService(data.Admin, st.settings, data.Settings())
	orderSvc := orders.NewService(st.orders, st.customers, st.products, acc, st.seq, st.publisher, cfg.DefaultPageSize)

	r := setupRouter(cfg, handlers.HandlerConfig{
		Orders:      orderSvc,
		Customers:   customers.NewService(st.customers, st.seq, st.publisher, cfg.DefaultPageSize),
		Products:    products.NewService(st.products, cfg.DefaultPageSize),
		Dashboard:   dashboard.NewService(orderSvc, st.orders, st.customers, st.products),
		Accounts:    acc,
		Idempotency: st.idempotency,
	})

	// if RUN_LOCAL is set, run a local HTTP server for development.
	if cfg.RunLocal {
		zap.L().Info("running local server", zap.String("addr", cfg.NetAddr), zap.String("backend", cfg.StorageBackend))
		if err := r.Run(cfg.NetAddr); err != nil {
			zap.L().Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
