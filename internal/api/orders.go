package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// OrderItemInput references a product for order creation. Only the product
// and quantity travel; unit prices are re-derived server-side and never
// trusted from the client.
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderDraft is the order-creation payload.
type OrderDraft struct {
	Items           []OrderItemInput    `json:"items"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingCountry string              `json:"shipping_country"`
	Phone           string              `json:"phone"`
	Currency        enums.Currency      `json:"currency"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Notes           string              `json:"notes,omitempty"`
}

// OrderLine is an immutable order line captured at creation time.
type OrderLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	PriceUSD    float64 `json:"price_usd"`
	IMEI        string  `json:"imei,omitempty"`
}

// Order is the full order record.
type Order struct {
	OrderID         string              `json:"order_id"`
	UserID          string              `json:"user_id"`
	Items           []OrderLine         `json:"items"`
	SubtotalUSD     float64             `json:"subtotal_usd"`
	ShippingUSD     float64             `json:"shipping_usd"`
	TotalUSD        float64             `json:"total_usd"`
	Currency        enums.Currency      `json:"currency"`
	TotalLocal      float64             `json:"total_local"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingCountry string              `json:"shipping_country"`
	Phone           string              `json:"phone"`
	TrackingNumber  string              `json:"tracking_number"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateOrder submits the draft. The create is atomic server-side; a
// client-generated idempotency key shields against duplicate submissions on
// ambiguous failures.
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	var order Order
	err := c.do(ctx, requestSpec{
		method:  http.MethodPost,
		path:    "/orders",
		body:    draft,
		headers: map[string]string{"Idempotency-Key": uuid.NewString()},
		out:     &order,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}

	var order Order
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/orders/" + url.PathEscape(trimmed),
		out:    &order,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches the caller's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, limit int) ([]Order, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var orders []Order
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/orders",
		query:  query,
		out:    &orders,
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to the given status (staff only; the
// backend enforces the role).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status "+status.String())
	}

	query := url.Values{}
	query.Set("status", status.String())
	return c.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   "/orders/" + url.PathEscape(trimmed) + "/status",
		query:  query,
	})
}
