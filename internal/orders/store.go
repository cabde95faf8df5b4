package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
)

// ErrNotFound is returned when an order id has no record in the table.
var ErrNotFound = errors.New("pedido not found")

// Store encapsulates operations on the Pedidos table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put persists a freshly created order.
func (s *Store) Put(ctx context.Context, order Order) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by id. Returns ErrNotFound if the record is absent.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List scans the whole table, optionally filtering by status server-side,
// sorts the collected set by timestamp descending and only then truncates
// to limit. Truncating before the sort would return the wrong orders, so
// the scan always pages through every record first. limit <= 0 means no
// truncation.
func (s *Store) List(ctx context.Context, statusFilter string, limit int) ([]Order, error) {
	input := &dyn.ScanInput{
		TableName: &s.tableName,
	}
	if statusFilter != "" {
		input.FilterExpression = awsString("#status = :status")
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: statusFilter},
		}
	}

	collected := make([]Order, 0)
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for _, item := range out.Items {
			var o Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			collected = append(collected, o)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Timestamp > collected[j].Timestamp
	})
	if limit > 0 && len(collected) > limit {
		collected = collected[:limit]
	}
	return collected, nil
}

// MarkProcessed transitions an order to processado and records the receipt
// reference. The update is expression-based and only ever sets status,
// updated_at and comprovante_url; it can never clobber cliente/itens/mesa.
// Re-running it for the same order converges to the same state, which is
// what makes redelivery safe.
func (s *Store) MarkProcessed(ctx context.Context, orderID, receiptKey string) error {
	return s.updateStatus(ctx, orderID, StatusProcessed, receiptKey)
}

// MarkError transitions an order to erro. Used by the worker's failure path.
func (s *Store) MarkError(ctx context.Context, orderID string) error {
	return s.updateStatus(ctx, orderID, StatusError, "")
}

func (s *Store) updateStatus(ctx context.Context, orderID, status, receiptKey string) error {
	now := s.nowFunc().UTC()

	updateExpr := "SET #status = :status, #updated_at = :updated_at"
	names := map[string]string{
		"#status":     "status",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: status},
		":updated_at": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
	}
	if receiptKey != "" {
		updateExpr += ", #comprovante_url = :comprovante_url"
		names["#comprovante_url"] = "comprovante_url"
		values[":comprovante_url"] = &types.AttributeValueMemberS{Value: receiptKey}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		// without this guard an update for a vanished record would create a
		// ghost item holding only the status fields
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return fmt.Errorf("update %s: %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
