package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order statuses. The wire values are the Portuguese ones the frontend and
// the notification subscribers already expect.
const (
	StatusPending   = "pendente"
	StatusProcessed = "processado"
	StatusError     = "erro"
)

// Order is the item stored in the Pedidos table. UpdatedAt and
// ComprovanteURL only exist once the worker has touched the record, so both
// are optional on the wire.
type Order struct {
	ID             string   `dynamodbav:"id" json:"id"`
	Cliente        string   `dynamodbav:"cliente,omitempty" json:"cliente,omitempty"`
	Itens          []string `dynamodbav:"itens,omitempty" json:"itens,omitempty"`
	Mesa           int      `dynamodbav:"mesa,omitempty" json:"mesa,omitempty"`
	Status         string   `dynamodbav:"status" json:"status"`
	Timestamp      string   `dynamodbav:"timestamp" json:"timestamp"`
	UpdatedAt      string   `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
	ComprovanteURL string   `dynamodbav:"comprovante_url,omitempty" json:"comprovante_url,omitempty"`
}

// NewID returns a fresh order id. The timestamp prefix keeps ids roughly
// time-ordered for operators; the random suffix makes two orders created in
// the same second distinct. Sorting always uses the timestamp attribute,
// never the id.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("pedido-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// QueueMessage is the snapshot of an order sent through SQS to the worker.
// The table record stays the source of truth; the snapshot only exists so
// the worker can render without a read.
type QueueMessage struct {
	PedidoID  string   `json:"pedidoId"`
	Cliente   string   `json:"cliente"`
	Itens     []string `json:"itens"`
	Mesa      int      `json:"mesa"`
	Timestamp string   `json:"timestamp"`
}

// Message builds the queue snapshot from a persisted order.
func (o Order) Message() QueueMessage {
	return QueueMessage{
		PedidoID:  o.ID,
		Cliente:   o.Cliente,
		Itens:     o.Itens,
		Mesa:      o.Mesa,
		Timestamp: o.Timestamp,
	}
}

// Order rebuilds an order view from the snapshot for rendering.
func (m QueueMessage) Order() Order {
	return Order{
		ID:        m.PedidoID,
		Cliente:   m.Cliente,
		Itens:     m.Itens,
		Mesa:      m.Mesa,
		Status:    StatusPending,
		Timestamp: m.Timestamp,
	}
}
