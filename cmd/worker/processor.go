package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
	"github.com/lfmorais/pedidos-serverless/internal/metrics"
	"github.com/lfmorais/pedidos-serverless/internal/notify"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
	"github.com/lfmorais/pedidos-serverless/internal/receipt"
)

// Processor consumes SQS batches and runs the per-message pipeline:
// render receipt, archive it, mark the order processado, notify.
type Processor struct {
	store    *orders.Store
	archiver *receipt.Archiver
	notifier *notify.Notifier
	emitter  *metrics.Emitter
	log      *slog.Logger
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, conf config.Config) *Processor {
	return &Processor{
		store:    orders.NewStore(clients.DynamoDB, conf.OrdersTable),
		archiver: receipt.NewArchiver(clients.S3, conf.ReceiptsBucket),
		notifier: notify.NewNotifier(clients.SNS, conf.TopicARN),
		emitter:  metrics.NewEmitter(clients.CloudWatch, metrics.Namespace),
		log:      logging.New("worker"),
	}
}

// Handle processes one SQS batch and reports the identifiers of the
// messages that failed, so the queue makes only those visible again.
// A message's failure never affects its siblings: the loop never aborts.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	p.log.Info("batch received", "messages", len(ev.Records))

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Error("message failed", "messageId", rec.MessageId, "err", err)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}

	if p.emitter != nil {
		if err := p.emitter.BatchProcessed(ctx, len(ev.Records)-len(failures), len(failures)); err != nil {
			p.log.Warn("metrics emission failed", "err", err)
		}
	}

	p.log.Info("batch done", "messages", len(ev.Records), "failures", len(failures))
	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg orders.QueueMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.PedidoID == "" {
		return fmt.Errorf("message %s has no pedidoId", rec.MessageId)
	}

	order := msg.Order()
	p.log.Info("processing pedido", "pedidoId", order.ID, "mesa", order.Mesa)

	doc, err := receipt.Render(order)
	if err != nil {
		return p.fail(ctx, order.ID, fmt.Errorf("render receipt: %w", err))
	}

	key, err := p.archiver.Archive(ctx, order, doc)
	if err != nil {
		return p.fail(ctx, order.ID, fmt.Errorf("archive receipt: %w", err))
	}

	if err := p.store.MarkProcessed(ctx, order.ID, key); err != nil {
		return p.fail(ctx, order.ID, fmt.Errorf("mark processado: %w", err))
	}

	if err := p.notifier.OrderProcessed(ctx, order, key); err != nil {
		return p.fail(ctx, order.ID, fmt.Errorf("publish notification: %w", err))
	}

	p.log.Info("pedido processado", "pedidoId", order.ID, "comprovante", key)
	return nil
}

// fail marks the order erro before surfacing err to the batch loop. The
// marking is best effort: its own failure is logged and deliberately
// discarded so it can neither mask err nor abort sibling messages.
func (p *Processor) fail(ctx context.Context, orderID string, err error) error {
	if markErr := p.store.MarkError(ctx, orderID); markErr != nil {
		p.log.Warn("could not mark pedido erro", "pedidoId", orderID, "err", markErr)
	}
	return err
}
