package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// CartLine is one cart entry enriched with catalog details.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	PriceUSD  float64 `json:"price_usd"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
}

// Cart is the server-owned cart rendered in a display currency.
type Cart struct {
	Items         []CartLine     `json:"items"`
	SubtotalUSD   float64        `json:"subtotal_usd"`
	Currency      enums.Currency `json:"currency"`
	SubtotalLocal float64        `json:"subtotal_local"`
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

type cartItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GetCart fetches the cart with its subtotal in the requested currency.
func (c *Client) GetCart(ctx context.Context, cur enums.Currency) (*Cart, error) {
	query := url.Values{}
	if cur != "" {
		query.Set("currency", cur.String())
	}

	var cart Cart
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/cart",
		query:  query,
		out:    &cart,
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity of a product to the cart.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/cart/add",
		body:   cartItemPayload{ProductID: productID, Quantity: quantity},
	})
}

// UpdateCartItem sets the quantity of a cart line; zero removes the line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	return c.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   "/cart/update",
		body:   cartItemPayload{ProductID: productID, Quantity: quantity},
	})
}

// ClearCart removes every line from the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, requestSpec{
		method: http.MethodDelete,
		path:   "/cart/clear",
	})
}
