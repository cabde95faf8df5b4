package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
)

func main() {
	log := logging.Init("worker", "")

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

	p := NewProcessor(clients, conf)

	// With RUN_LOCAL=true we simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"pedidoId":"pedido-local-1","cliente":"Cliente Local","itens":["Pizza Margherita"],"mesa":1,"timestamp":"2024-01-01T12:00:00Z"}`
		}
		ev := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-message-1", Body: body},
			},
		}
		res, err := p.Handle(context.Background(), ev)
		if err != nil {
			log.Error("local handler error", "err", err)
			os.Exit(1)
		}
		log.Info("local run done", "failures", len(res.BatchItemFailures))
		return
	}

	lambda.Start(p.Handle)
}
