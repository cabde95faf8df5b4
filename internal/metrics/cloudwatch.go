package metrics

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
)

// Namespace for all worker counters.
const Namespace = "Pedidos/Worker"

// Emitter publishes batch counters to CloudWatch. Emission is best effort:
// callers log the returned error and move on, a metrics outage must never
// fail a batch.
type Emitter struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewEmitter returns an Emitter for the given namespace.
func NewEmitter(client aws.CloudWatchAPI, namespace string) *Emitter {
	return &Emitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// BatchProcessed records how many messages of a batch succeeded and failed.
func (e *Emitter) BatchProcessed(ctx context.Context, processed, failed int) error {
	now := e.nowFunc().UTC()
	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &e.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("PedidosProcessados"),
				Value:      sdkaws.Float64(float64(processed)),
				Unit:       cwtypes.StandardUnitCount,
				Timestamp:  &now,
			},
			{
				MetricName: sdkaws.String("PedidosComFalha"),
				Value:      sdkaws.Float64(float64(failed)),
				Unit:       cwtypes.StandardUnitCount,
				Timestamp:  &now,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
