package validation

// CreateOrderRequest is the payload for POST /pedidos.
type CreateOrderRequest struct {
	Cliente string   `json:"cliente" validate:"required"`
	Itens   []string `json:"itens" validate:"required,min=1"`
	Mesa    int      `json:"mesa" validate:"required,gt=0"`
}
