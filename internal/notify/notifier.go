package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

// Notifier publishes order-completion events to the SNS topic.
type Notifier struct {
	client   aws.SNSAPI
	topicARN string
	nowFunc  func() time.Time
}

// NewNotifier returns a Notifier bound to a topic ARN.
func NewNotifier(client aws.SNSAPI, topicARN string) *Notifier {
	return &Notifier{
		client:   client,
		topicARN: topicARN,
		nowFunc:  time.Now,
	}
}

// processedEvent is the notification body subscribers receive.
type processedEvent struct {
	PedidoID    string `json:"pedidoId"`
	Cliente     string `json:"cliente"`
	Mesa        int    `json:"mesa"`
	Status      string `json:"status"`
	Comprovante string `json:"comprovante"`
	Timestamp   string `json:"timestamp"`
}

// OrderProcessed publishes the completion event for one order. The
// pedidoId/status message attributes let subscribers filter without parsing
// the body.
func (n *Notifier) OrderProcessed(ctx context.Context, order orders.Order, receiptKey string) error {
	body, err := json.Marshal(processedEvent{
		PedidoID:    order.ID,
		Cliente:     order.Cliente,
		Mesa:        order.Mesa,
		Status:      orders.StatusProcessed,
		Comprovante: receiptKey,
		Timestamp:   n.nowFunc().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &n.topicARN,
		Message:  awsString(string(body)),
		Subject:  awsString("Pedido Processado: " + order.ID),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"pedidoId": {
				DataType:    awsString("String"),
				StringValue: awsString(order.ID),
			},
			"status": {
				DataType:    awsString("String"),
				StringValue: awsString(orders.StatusProcessed),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
