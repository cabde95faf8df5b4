package main

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/config"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return &dyn.GetItemOutput{}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.ScanOutput{}
	for _, item := range m.items {
		if params.FilterExpression != nil {
			want := params.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value
			status, _ := item["status"].(*types.AttributeValueMemberS)
			if status == nil || status.Value != want {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

type mockSQS struct {
	mu     sync.Mutex
	bodies []string
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}

func TestSweep_RequeuesOnlyStalePending(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	db := &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
	seed := func(o orders.Order) {
		item, err := attributevalue.MarshalMap(o)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		db.items[o.ID] = item
	}
	// stale pendente: should be re-enqueued
	seed(orders.Order{ID: "pedido-old", Status: orders.StatusPending, Itens: []string{"Pizza"}, Mesa: 1,
		Timestamp: now.Add(-time.Hour).Format(time.RFC3339)})
	// fresh pendente: the worker is probably still on it
	seed(orders.Order{ID: "pedido-new", Status: orders.StatusPending, Itens: []string{"Suco"}, Mesa: 2,
		Timestamp: now.Add(-time.Minute).Format(time.RFC3339)})
	// already done
	seed(orders.Order{ID: "pedido-done", Status: orders.StatusProcessed, Itens: []string{"Lasanha"}, Mesa: 3,
		Timestamp: now.Add(-2 * time.Hour).Format(time.RFC3339)})

	queue := &mockSQS{}
	s := NewSweeper(&aws.AWSClients{DynamoDB: db, SQS: queue}, config.Config{
		OrdersTable: "Pedidos",
		QueueURL:    "http://localhost:4566/000000000000/pedidos-queue",
		SweepAfter:  15 * time.Minute,
	})
	s.nowFunc = func() time.Time { return now }

	res, err := s.Handle(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if res.Scanned != 2 {
		t.Fatalf("expected 2 pendente scanned, got %d", res.Scanned)
	}
	if res.Requeued != 1 || res.Failed != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(queue.bodies) != 1 {
		t.Fatalf("expected one re-enqueued message, got %d", len(queue.bodies))
	}
	var msg orders.QueueMessage
	if err := json.Unmarshal([]byte(queue.bodies[0]), &msg); err != nil {
		t.Fatalf("unmarshal queue body: %v", err)
	}
	if msg.PedidoID != "pedido-old" {
		t.Fatalf("wrong pedido re-enqueued: %s", msg.PedidoID)
	}
}
