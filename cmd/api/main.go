package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/handlers"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterPedidosRoutes(r, cfg)

	return r
}

func main() {
	log := logging.Init("api", "")

	conf, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Error("failed to init aws clients", "err", err)
		os.Exit(1)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		OrdersTable:    conf.OrdersTable,
		QueueURL:       conf.QueueURL,
		ListLimit:      conf.ListLimit,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run a local HTTP
	// server for development instead of the lambda runtime.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Info("running local server", "addr", addr)
		if err := r.Run(addr); err != nil {
			log.Error("failed to run local server", "err", err)
			os.Exit(1)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
