package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

// Sweeper re-enqueues pedidos stuck in pendente, typically orders whose
// record was persisted but whose enqueue failed afterwards. Re-enqueueing a
// pedido the worker is still about to process is harmless: the whole
// pipeline is idempotent per order id.
type Sweeper struct {
	store     *orders.Store
	publisher *aws.Publisher
	olderThan time.Duration
	nowFunc   func() time.Time
	log       *slog.Logger
}

// SweepResult reports one scheduled run.
type SweepResult struct {
	Scanned  int `json:"scanned"`
	Requeued int `json:"requeued"`
	Failed   int `json:"failed"`
}

// NewSweeper creates a sweeper with AWS clients injected.
func NewSweeper(clients *aws.AWSClients, conf config.Config) *Sweeper {
	return &Sweeper{
		store:     orders.NewStore(clients.DynamoDB, conf.OrdersTable),
		publisher: aws.NewPublisher(clients.SQS, conf.QueueURL),
		olderThan: conf.SweepAfter,
		nowFunc:   time.Now,
		log:       logging.New("sweeper"),
	}
}

// Handle scans pendente orders older than the threshold and re-enqueues
// their queue messages. Individual send failures are logged and counted,
// never aborting the sweep; the next scheduled run retries them.
func (s *Sweeper) Handle(ctx context.Context) (SweepResult, error) {
	pending, err := s.store.List(ctx, orders.StatusPending, 0)
	if err != nil {
		return SweepResult{}, err
	}

	cutoff := s.nowFunc().UTC().Add(-s.olderThan)
	res := SweepResult{Scanned: len(pending)}

	for _, order := range pending {
		created, err := time.Parse(time.RFC3339, order.Timestamp)
		if err != nil {
			s.log.Warn("skipping pedido with malformed timestamp", "pedidoId", order.ID, "timestamp", order.Timestamp)
			continue
		}
		if !created.Before(cutoff) {
			continue
		}

		body, _ := json.Marshal(order.Message())
		attrs := map[string]string{
			"pedidoId": order.ID,
			"status":   order.Status,
		}
		if err := s.publisher.Send(ctx, body, attrs); err != nil {
			s.log.Error("re-enqueue failed", "pedidoId", order.ID, "err", err)
			res.Failed++
			continue
		}
		s.log.Info("pedido re-enqueued", "pedidoId", order.ID, "age", s.nowFunc().UTC().Sub(created).String())
		res.Requeued++
	}

	return res, nil
}
