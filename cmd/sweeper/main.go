package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
)

func main() {
	log := logging.Init("sweeper", "")

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

	s := NewSweeper(clients, conf)

	if os.Getenv("RUN_LOCAL") == "true" {
		res, err := s.Handle(context.Background())
		if err != nil {
			log.Error("local sweep error", "err", err)
			os.Exit(1)
		}
		log.Info("local sweep done", "requeued", res.Requeued)
		return
	}

	lambda.Start(s.Handle)
}
