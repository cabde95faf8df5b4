package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lfmorais/pedidos-serverless/internal/aws"
	"github.com/lfmorais/pedidos-serverless/internal/logging"
	"github.com/lfmorais/pedidos-serverless/internal/orders"
	"github.com/lfmorais/pedidos-serverless/internal/validation"
)

// HandlerConfig groups dependencies for the pedidos routes.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	OrdersTable    string
	QueueURL       string
	ListLimit      int
	NowFunc        func() time.Time
}

// RegisterPedidosRoutes registers ingestion and query routes.
func RegisterPedidosRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	log := logging.New("api")

	nowFunc := cfg.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}

	grp := r.Group("/pedidos", CORS())

	grp.POST("", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote the 400
			return
		}

		now := nowFunc().UTC()
		order := orders.Order{
			ID:        orders.NewID(now),
			Cliente:   strings.TrimSpace(req.Cliente),
			Itens:     req.Itens,
			Mesa:      req.Mesa,
			Status:    orders.StatusPending,
			Timestamp: now.Format(time.RFC3339),
		}

		if err := store.Put(ctx, order); err != nil {
			log.Error("persist pedido", "pedidoId", order.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Erro interno do servidor",
				"details": "não foi possível salvar o pedido",
			})
			return
		}

		body, _ := json.Marshal(order.Message())
		attrs := map[string]string{
			"pedidoId": order.ID,
			"status":   order.Status,
		}
		if err := publisher.Send(ctx, body, attrs); err != nil {
			// the record already exists and stays pendente; the sweeper will
			// re-enqueue it on its next pass
			log.Error("enqueue pedido", "pedidoId", order.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Erro interno do servidor",
				"details": "não foi possível enfileirar o pedido",
			})
			return
		}

		log.Info("pedido criado", "pedidoId", order.ID, "mesa", order.Mesa)
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Pedido criado com sucesso",
			"pedidoId":  order.ID,
			"status":    order.Status,
			"timestamp": order.Timestamp,
		})
	})

	grp.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")

		order, err := store.Get(c.Request.Context(), id)
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":    "Pedido não encontrado",
				"pedidoId": id,
			})
			return
		}
		if err != nil {
			log.Error("get pedido", "pedidoId", id, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Erro interno do servidor",
				"details": "não foi possível buscar o pedido",
			})
			return
		}

		c.JSON(http.StatusOK, order)
	})

	grp.GET("", func(c *gin.Context) {
		limit := cfg.ListLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		list, err := store.List(c.Request.Context(), c.Query("status"), limit)
		if err != nil {
			log.Error("list pedidos", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Erro interno do servidor",
				"details": "não foi possível listar os pedidos",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"pedidos": list,
			"count":   len(list),
		})
	})
}
