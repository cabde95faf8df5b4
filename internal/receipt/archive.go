package receipt

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
)

const contentType = "application/pdf"

// Key returns the blob key a receipt is archived under. Deterministic per
// order, so a redelivered message overwrites the same object instead of
// duplicating it.
func Key(orderID string) string {
	return "receipts/" + orderID
}

// Archiver persists rendered receipts in the receipts bucket.
type Archiver struct {
	client  aws.S3API
	bucket  string
	nowFunc func() time.Time
}

// NewArchiver returns an Archiver bound to a bucket.
func NewArchiver(client aws.S3API, bucket string) *Archiver {
	return &Archiver{
		client:  client,
		bucket:  bucket,
		nowFunc: time.Now,
	}
}

// Archive uploads the rendered document and returns its blob key.
func (a *Archiver) Archive(ctx context.Context, order orders.Order, doc []byte) (string, error) {
	key := Key(order.ID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(doc),
		ContentType: awsString(contentType),
		Metadata: map[string]string{
			"pedido-id":    order.ID,
			"mesa":         strconv.Itoa(order.Mesa),
			"generated-at": a.nowFunc().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func awsString(s string) *string { return &s }
