package orders

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the Pedidos table. It pages
// Scan results so the store's pagination loop is actually exercised.
// NOTE: intentionally minimal, only the expressions the store emits.
type mockDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int

	scanCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items:    map[string]map[string]types.AttributeValue{},
		pageSize: 2,
	}
}

func (m *mockDynamo) sortedIDs() []string {
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idAttr, ok := params.Item["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing id in put item")
	}
	m.items[idAttr.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idAttr, ok := params.Key["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing id key")
	}
	item, ok := m.items[idAttr.Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idAttr, ok := params.Key["id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing id key")
	}
	item, exists := m.items[idAttr.Value]
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		item = map[string]types.AttributeValue{"id": idAttr}
	}
	// apply only the SET values the store emits
	if v, ok := params.ExpressionAttributeValues[":status"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":updated_at"]; ok {
		item["updated_at"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":comprovante_url"]; ok {
		item["comprovante_url"] = v
	}
	m.items[idAttr.Value] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++

	ids := m.sortedIDs()
	start := 0
	if params.ExclusiveStartKey != nil {
		last := params.ExclusiveStartKey["id"].(*types.AttributeValueMemberS).Value
		for i, id := range ids {
			if id == last {
				start = i + 1
				break
			}
		}
	}

	out := &dyn.ScanOutput{}
	taken := 0
	for _, id := range ids[start:] {
		if taken == m.pageSize {
			break
		}
		item := m.items[id]
		taken++
		if params.FilterExpression != nil {
			want := params.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value
			status, _ := item["status"].(*types.AttributeValueMemberS)
			if status == nil || status.Value != want {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	if start+taken < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: ids[start+taken-1]},
		}
	}
	return out, nil
}
