package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// mockDynamo implements just enough of the Pedidos table for the worker's
// status updates.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return ""
	}
	s, _ := item["status"].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func (m *mockDynamo) attr(id, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return ""
	}
	v, _ := item[name].(*types.AttributeValueMemberS)
	if v == nil {
		return ""
	}
	return v.Value
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Item["id"].(*types.AttributeValueMemberS).Value
	m.items[id] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Key["id"].(*types.AttributeValueMemberS).Value
	item, ok := m.items[id]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := params.Key["id"].(*types.AttributeValueMemberS).Value
	item, exists := m.items[id]
	if !exists {
		// the store always guards with attribute_exists(id)
		return nil, &types.ConditionalCheckFailedException{}
	}
	for k, attr := range map[string]string{
		":status":          "status",
		":updated_at":      "updated_at",
		":comprovante_url": "comprovante_url",
	} {
		if v, ok := params.ExpressionAttributeValues[k]; ok {
			item[attr] = v
		}
	}
	m.items[id] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

// mockS3 records uploads by key.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	puts    int
	failAll bool
}

func newMockS3() *mockS3 {
	return &mockS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("simulated s3 outage")
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.puts++
	m.objects[*params.Key] = body
	if params.ContentType != nil {
		m.types[*params.Key] = *params.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

// mockSNS records published notifications.
type mockSNS struct {
	mu       sync.Mutex
	messages []string
	subjects []string
	attrs    []map[string]snstypes.MessageAttributeValue
	failAll  bool
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("simulated sns outage")
	}
	m.messages = append(m.messages, *params.Message)
	m.subjects = append(m.subjects, *params.Subject)
	m.attrs = append(m.attrs, params.MessageAttributes)
	return &sns.PublishOutput{}, nil
}

// mockCloudWatch counts emissions.
type mockCloudWatch struct {
	mu    sync.Mutex
	calls int
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return &cloudwatch.PutMetricDataOutput{}, nil
}
